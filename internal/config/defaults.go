package config

import (
	"time"

	"ddqcheck/internal/rules"
)

// Defaults applied by Normalize.
const (
	DefaultOutputDir   = "output"
	DefaultStorePath   = ConfigDirName + "/history.duckdb"
	DefaultServerAddr  = "127.0.0.1:8000"
	DefaultMaxUploadMB = 25
	DefaultWorkers     = 4
	DefaultLLMProvider = "openai"
	DefaultCacheKind   = "none"
	DefaultCacheTTL    = 24 * time.Hour
	DefaultCacheSize   = 512
)

// Default returns a normalized config with every default applied.
func Default() Config {
	cfg := Config{Version: 1}
	Normalize(&cfg)
	return cfg
}

// Normalize fills unset fields with defaults.
func Normalize(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Rules.ForbiddenTokens == nil {
		cfg.Rules.ForbiddenTokens = rules.DefaultForbiddenTokens()
	}
	if cfg.Rules.MinLenDescriptive == nil {
		minLen := rules.DefaultMinLenDescriptive
		cfg.Rules.MinLenDescriptive = &minLen
	}

	columns := &cfg.Extract.Columns
	if columns.ID == 0 {
		columns.ID = 1
	}
	if columns.Question == 0 {
		columns.Question = 2
	}
	if columns.Answer == 0 {
		columns.Answer = 3
	}
	if columns.Expected == 0 {
		columns.Expected = 4
	}

	llm := &cfg.LLM
	if llm.Provider == "" {
		llm.Provider = DefaultLLMProvider
	}
	if llm.MaxItems == 0 {
		llm.MaxItems = 30
	}
	if llm.Concurrency == 0 {
		llm.Concurrency = 4
	}
	if llm.Retries == 0 {
		llm.Retries = 3
	}
	if llm.RetryDelay == 0 {
		llm.RetryDelay = 500 * time.Millisecond
	}
	if llm.Timeout == 0 {
		llm.Timeout = 60 * time.Second
	}
	if llm.Cache.Kind == "" {
		llm.Cache.Kind = DefaultCacheKind
	}
	if llm.Cache.TTL == 0 {
		llm.Cache.TTL = DefaultCacheTTL
	}
	if llm.Cache.Size == 0 {
		llm.Cache.Size = DefaultCacheSize
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = DefaultMaxUploadMB
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Evaluate.Workers == 0 {
		cfg.Evaluate.Workers = DefaultWorkers
	}
}
