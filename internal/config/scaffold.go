package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `version: 1

rules:
  # Placeholder answers, matched as case-insensitive substrings in order.
  forbidden_tokens:
    - "n/a"
    - "n.a"
    - "na"
    - "not applicable"
    - "tbd"
    - "to be defined"
    - "later"
    - "unknown"
    - "k.a"
    - "keine angabe"
  min_len_descriptive: 20
  # custom:
  #   - name: no-lorem
  #     expression: 'answer.lowerAscii().contains("lorem ipsum")'
  #     status: REJECTED
  #     reason: "Answer contains filler text."

extract:
  max_rows_per_sheet: 0
  # reference: "model-answers.xlsx"
  columns:
    id: 1
    question: 2
    answer: 3
    expected: 4

redact:
  enabled: false

llm:
  enabled: false
  provider: openai
  model: ""
  max_items: 30
  concurrency: 4
  retries: 3
  retry_delay: 500ms
  timeout: 60s
  # api_key_env: OPENAI_API_KEY
  cache:
    kind: none
    # redis_url: "redis://localhost:6379/0"
    ttl: 24h
    size: 512

output:
  dir: output

store:
  # DuckDB file recording every run; empty disables history.
  path: ".ddqcheck/history.duckdb"

server:
  addr: "127.0.0.1:8000"
  allowed_origins:
    - "*"
  max_upload_mb: 25

logging:
  level: warn
  format: console

evaluate:
  workers: 4
`

// Scaffold writes the default config file, refusing to overwrite one.
func Scaffold(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(configPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", configPath)
		}
		return fmt.Errorf("config file already exists at %q", configPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
