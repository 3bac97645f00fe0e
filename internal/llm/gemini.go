package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiOptions configures the Gemini provider.
type GeminiOptions struct {
	APIKey  string
	BaseURL string
}

// GeminiProvider calls the Gemini GenerateContent API.
type GeminiProvider struct {
	client *genai.Client
}

// NewGemini builds a Gemini provider.
func NewGemini(ctx context.Context, opts GeminiOptions) (*GeminiProvider, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

// Name returns "gemini".
func (p *GeminiProvider) Name() string { return ProviderGemini }

// Complete sends the prompt with temperature 0 and returns the text reply.
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.User), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return resp.Text(), nil
}
