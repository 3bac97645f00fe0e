package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIOptions configures the OpenAI chat completions provider.
type OpenAIOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAIProvider calls the chat completions endpoint.
type OpenAIProvider struct {
	client openai.Client
}

// NewOpenAI builds an OpenAI provider. Retries are handled by the refiner.
func NewOpenAI(opts OpenAIOptions) (*OpenAIProvider, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	clientOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	return &OpenAIProvider{client: openai.NewClient(clientOpts...)}, nil
}

// Name returns "openai".
func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

// Complete sends the prompt with temperature 0 and returns the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && !retryableStatus(apiErr.StatusCode) {
			return "", retry.Unrecoverable(fmt.Errorf("openai: %w", err))
		}
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500
}
