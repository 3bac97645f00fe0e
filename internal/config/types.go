package config

import "time"

// Config is the on-disk configuration for ddqcheck.
type Config struct {
	Version  int            `yaml:"version"`
	Rules    RulesConfig    `yaml:"rules"`
	Extract  ExtractConfig  `yaml:"extract"`
	Redact   RedactConfig   `yaml:"redact"`
	LLM      LLMConfig      `yaml:"llm"`
	Output   OutputConfig   `yaml:"output"`
	Store    StoreConfig    `yaml:"store"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Evaluate EvaluateConfig `yaml:"evaluate"`
}

// RulesConfig tunes the rule engine.
type RulesConfig struct {
	ForbiddenTokens   []string           `yaml:"forbidden_tokens"`
	MinLenDescriptive *int               `yaml:"min_len_descriptive"`
	Custom            []CustomRuleConfig `yaml:"custom" validate:"dive"`
}

// CustomRuleConfig declares a CEL rule evaluated after the built-in rules.
type CustomRuleConfig struct {
	Name       string `yaml:"name" validate:"required"`
	Expression string `yaml:"expression" validate:"required"`
	Status     string `yaml:"status" validate:"required,oneof=INCOMPLETE REJECTED NEEDS_EVIDENCE"`
	Reason     string `yaml:"reason" validate:"required"`
}

// ExtractConfig controls how rows are read from input files.
type ExtractConfig struct {
	MaxRowsPerSheet int           `yaml:"max_rows_per_sheet" validate:"gte=0"`
	Reference       string        `yaml:"reference"`
	Columns         ColumnsConfig `yaml:"columns"`
}

// ColumnsConfig maps row fields to 1-based spreadsheet columns.
type ColumnsConfig struct {
	ID       int `yaml:"id" validate:"gte=1"`
	Question int `yaml:"question" validate:"gte=1"`
	Answer   int `yaml:"answer" validate:"gte=1"`
	Expected int `yaml:"expected" validate:"gte=1"`
}

// RedactConfig toggles personal-name redaction before evaluation.
type RedactConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LLMConfig configures the optional refinement pass.
type LLMConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Provider    string        `yaml:"provider" validate:"oneof=openai gemini"`
	Model       string        `yaml:"model"`
	MaxItems    int           `yaml:"max_items" validate:"gte=1"`
	Concurrency int           `yaml:"concurrency" validate:"gte=1"`
	Retries     int           `yaml:"retries" validate:"gte=1"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	Timeout     time.Duration `yaml:"timeout"`
	BaseURL     string        `yaml:"base_url" validate:"omitempty,url"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	Cache       CacheConfig   `yaml:"cache"`
}

// CacheConfig selects where model replies are cached.
type CacheConfig struct {
	Kind     string        `yaml:"kind" validate:"oneof=none memory redis"`
	RedisURL string        `yaml:"redis_url" validate:"required_if=Kind redis"`
	TTL      time.Duration `yaml:"ttl"`
	Size     int           `yaml:"size" validate:"gte=0"`
}

// OutputConfig sets where reports are written.
type OutputConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

// StoreConfig sets the DuckDB run history file. Empty disables persistence.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"required"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadMB    int      `yaml:"max_upload_mb" validate:"gte=1"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// EvaluateConfig sets the rule evaluation fan-out.
type EvaluateConfig struct {
	Workers int `yaml:"workers" validate:"gte=1"`
}
