package config

import (
	"ddqcheck/internal/extract"
	"ddqcheck/internal/llm"
	"ddqcheck/internal/rules"
)

// RuleConfig returns the engine configuration.
func (c Config) RuleConfig() rules.Config {
	cfg := rules.DefaultConfig()
	if c.Rules.ForbiddenTokens != nil {
		cfg.ForbiddenTokens = append([]string(nil), c.Rules.ForbiddenTokens...)
	}
	if c.Rules.MinLenDescriptive != nil {
		cfg.MinLenDescriptive = *c.Rules.MinLenDescriptive
	}
	for _, custom := range c.Rules.Custom {
		cfg.Custom = append(cfg.Custom, custom.rule())
	}
	return cfg
}

// ExtractOptions returns the extraction options.
func (c Config) ExtractOptions() extract.Options {
	return extract.Options{
		Columns: extract.Columns{
			ID:       c.Extract.Columns.ID,
			Question: c.Extract.Columns.Question,
			Answer:   c.Extract.Columns.Answer,
			Expected: c.Extract.Columns.Expected,
		},
		MaxRowsPerSheet: c.Extract.MaxRowsPerSheet,
		ReferencePath:   c.Extract.Reference,
	}
}

// ProviderConfig returns the provider selection for the refiner.
func (c LLMConfig) ProviderConfig() llm.ProviderConfig {
	return llm.ProviderConfig{Name: c.Provider, BaseURL: c.BaseURL, APIKeyEnv: c.APIKeyEnv}
}

// CacheOptions returns the reply cache settings.
func (c LLMConfig) CacheOptions() llm.CacheOptions {
	return llm.CacheOptions{Kind: c.Cache.Kind, RedisURL: c.Cache.RedisURL, TTL: c.Cache.TTL, Size: c.Cache.Size}
}

// RefinerOptions returns refiner settings; the caller supplies the provider.
func (c LLMConfig) RefinerOptions() llm.Options {
	return llm.Options{
		Model:       c.Model,
		MaxItems:    c.MaxItems,
		Concurrency: c.Concurrency,
		Retries:     c.Retries,
		RetryDelay:  c.RetryDelay,
		Timeout:     c.Timeout,
	}
}
