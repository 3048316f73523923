// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.ServerURL != "http://127.0.0.1:5000" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.PollInterval() != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval())
	}
	if cfg.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.PageSize)
	}
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	orig := os.Getenv(EnvVar)
	defer os.Setenv(EnvVar, orig)
	os.Unsetenv(EnvVar)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	content := "server_url: http://ci.internal:8080\npoll_seconds: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "http://ci.internal:8080" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.PollSeconds != 10 {
		t.Errorf("PollSeconds = %d, want 10", cfg.PollSeconds)
	}
	// Unset fields keep their defaults.
	if cfg.PageSize != 50 {
		t.Errorf("PageSize = %d, want default 50", cfg.PageSize)
	}
}

func TestLoadJSONCWithComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.jsonc")
	content := `{
		// production control plane
		"server_url": "http://ci.prod:5000",
		"page_size": 100, // trailing comma tolerated below
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "http://ci.prod:5000" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", cfg.PageSize)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("poll_seconds: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("negative poll_seconds should fail validation")
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("unsupported extension should be rejected")
	}
}

func TestEnvVarFallback(t *testing.T) {
	orig := os.Getenv(EnvVar)
	defer os.Setenv(EnvVar, orig)

	path := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(path, []byte("server_url: http://from-env:5000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Setenv(EnvVar, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "http://from-env:5000" {
		t.Errorf("ServerURL = %q, want value from env-pointed file", cfg.ServerURL)
	}
}
