// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the console.
//
// Configuration is loaded from a single file specified by:
//   - the REMOTECI_CONSOLE_CONFIG environment variable, or
//   - the --config flag passed to the binary
//
// There is no automatic discovery; with neither set, the built-in
// defaults apply. Config files are hand-authored, so both YAML
// (.yaml/.yml) and JSONC (.json/.jsonc, JSON extended with comments
// and trailing commas) are accepted, selected by file extension.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "REMOTECI_CONSOLE_CONFIG"

// Config is the console configuration.
type Config struct {
	// ServerURL is the base URL of the Remote CI server.
	ServerURL string `yaml:"server_url" json:"server_url"`

	// PollSeconds is the auto-refresh interval. The protocol assumes
	// idempotent reads with last-completion-wins rendering, so short
	// intervals are safe but noisy.
	PollSeconds int `yaml:"poll_seconds" json:"poll_seconds"`

	// PageSize is the job history page size.
	PageSize int `yaml:"page_size" json:"page_size"`

	// LogOutput is a file path for JSON log records. Empty disables
	// file logging; records still reach the TUI status bar. The file
	// is size-rotated.
	LogOutput string `yaml:"log_output" json:"log_output"`

	// CredentialPath overrides the session-scoped admin token file.
	// Empty selects the default (runtime dir keyed by login session).
	CredentialPath string `yaml:"credential_path" json:"credential_path"`
}

// Default returns the built-in configuration: local server, the
// 5-second poll cycle, 50-row job pages.
func Default() Config {
	return Config{
		ServerURL:   "http://127.0.0.1:5000",
		PollSeconds: 5,
		PageSize:    50,
	}
}

// PollInterval returns the poll cycle as a duration.
func (configuration Config) PollInterval() time.Duration {
	return time.Duration(configuration.PollSeconds) * time.Second
}

// Load resolves the config file path (explicit flag value first, then
// the environment variable) and parses it over the defaults. An empty
// resolved path returns Default() unchanged.
func Load(flagPath string) (Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvVar)
	}

	configuration := Default()
	if path == "" {
		return configuration, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return configuration, fmt.Errorf("reading config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &configuration); err != nil {
			return configuration, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &configuration); err != nil {
			return configuration, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return configuration, fmt.Errorf("config %s: unsupported extension (want .yaml, .yml, .json, or .jsonc)", path)
	}

	return configuration, configuration.validate(path)
}

// validate rejects values the console cannot run with.
func (configuration Config) validate(path string) error {
	if configuration.ServerURL == "" {
		return fmt.Errorf("config %s: server_url must not be empty", path)
	}
	if configuration.PollSeconds <= 0 {
		return fmt.Errorf("config %s: poll_seconds must be positive, got %d", path, configuration.PollSeconds)
	}
	if configuration.PageSize <= 0 {
		return fmt.Errorf("config %s: page_size must be positive, got %d", path, configuration.PageSize)
	}
	return nil
}
