// Package llm refines flagged findings with a language model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrDisabled reports that no credential is available for the configured provider.
var ErrDisabled = errors.New("llm refinement disabled: no API key configured")

// Provider names accepted by NewProvider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Default models per provider.
const (
	DefaultOpenAIModel = "gpt-5.2"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Request is a single system + user prompt exchange.
type Request struct {
	Model  string
	System string
	User   string
}

// Provider sends one prompt to a model and returns the raw text reply.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, req Request) (string, error)

// Name returns "func".
func (f ProviderFunc) Name() string { return "func" }

// Complete calls f.
func (f ProviderFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ProviderConfig selects and configures a provider.
type ProviderConfig struct {
	Name      string
	BaseURL   string
	APIKeyEnv string
}

// DefaultAPIKeyEnv returns the environment variable holding the provider credential.
func DefaultAPIKeyEnv(provider string) string {
	if strings.EqualFold(provider, ProviderGemini) {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// DefaultModel returns the default model for a provider.
func DefaultModel(provider string) string {
	if strings.EqualFold(provider, ProviderGemini) {
		return DefaultGeminiModel
	}
	return DefaultOpenAIModel
}

// NewProvider builds the configured provider. It returns ErrDisabled when the
// credential variable is unset.
func NewProvider(ctx context.Context, cfg ProviderConfig, getenv func(string) string) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Name))
	if name == "" {
		name = ProviderOpenAI
	}
	envName := cfg.APIKeyEnv
	if envName == "" {
		envName = DefaultAPIKeyEnv(name)
	}
	apiKey := strings.TrimSpace(getenv(envName))
	if apiKey == "" {
		return nil, fmt.Errorf("%w (%s)", ErrDisabled, envName)
	}
	switch name {
	case ProviderOpenAI:
		return NewOpenAI(OpenAIOptions{APIKey: apiKey, BaseURL: cfg.BaseURL})
	case ProviderGemini:
		return NewGemini(ctx, GeminiOptions{APIKey: apiKey, BaseURL: cfg.BaseURL})
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Name)
	}
}
