package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads, parses, normalizes, and validates a config file. Relative paths
// in the file resolve against the directory that holds .ddqcheck.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	resolvePaths(&cfg, RepoRootFromConfigPath(path))
	return cfg, nil
}

// Resolve loads the explicit path when given, otherwise searches upward from
// startDir. It returns defaults and an empty path when no config exists.
func Resolve(explicitPath, startDir string) (Config, string, error) {
	if explicitPath != "" {
		cfg, err := Load(explicitPath)
		return cfg, explicitPath, err
	}
	path, err := FindConfigPath(startDir)
	if errors.Is(err, ErrNotFound) {
		return Default(), "", nil
	}
	if err != nil {
		return Config{}, "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}

func resolvePaths(cfg *Config, root string) {
	cfg.Output.Dir = resolveAgainst(root, cfg.Output.Dir)
	cfg.Store.Path = resolveAgainst(root, cfg.Store.Path)
	cfg.Extract.Reference = resolveAgainst(root, cfg.Extract.Reference)
}

func resolveAgainst(root, path string) string {
	if path == "" || filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}
