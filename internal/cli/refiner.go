package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"ddqcheck/internal/config"
	"ddqcheck/internal/llm"
)

// newProvider is a test seam for constructing the model provider.
var newProvider = llm.NewProvider

// refinerFactory builds refiners sharing one provider and reply cache.
type refinerFactory struct {
	provider llm.Provider
	cache    llm.Cache
	opts     llm.Options
	close    func() error
}

// openRefinerFactory prepares the provider from the environment. A missing
// credential yields a factory of disabled refiners and a warning on warn.
func openRefinerFactory(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger, warn io.Writer) (*refinerFactory, error) {
	factory := &refinerFactory{opts: cfg.RefinerOptions(), close: func() error { return nil }}
	factory.opts.Logger = logger

	provider, err := newProvider(ctx, cfg.ProviderConfig(), getenv)
	if errors.Is(err, llm.ErrDisabled) {
		fmt.Fprintf(warn, "Warning: %v; continuing with rule results only.\n", err)
		return factory, nil
	}
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	cache, closeCache, err := llm.NewCache(ctx, cfg.CacheOptions())
	if err != nil {
		return nil, fmt.Errorf("llm cache: %w", err)
	}
	factory.provider = provider
	factory.cache = cache
	factory.close = closeCache
	return factory, nil
}

// build returns a refiner for model, or the configured model when empty.
func (f *refinerFactory) build(_ context.Context, model string) (*llm.Refiner, error) {
	if f == nil || f.provider == nil {
		return llm.Disabled(), nil
	}
	opts := f.opts
	opts.Enabled = true
	opts.Provider = f.provider
	opts.Cache = f.cache
	if model != "" {
		opts.Model = model
	}
	return llm.NewRefiner(opts)
}

// Close releases the reply cache.
func (f *refinerFactory) Close() error {
	if f == nil || f.close == nil {
		return nil
	}
	return f.close()
}
