// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty server url", func(c *Config) { c.Server.URL = "" }},
		{"malformed server url", func(c *Config) { c.Server.URL = "not a url" }},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }},
		{"zero rate limit", func(c *Config) { c.Server.RateLimit = 0 }},
		{"zero rate burst", func(c *Config) { c.Server.RateBurst = 0 }},
		{"empty realtime url", func(c *Config) { c.Realtime.URL = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"LIBRO_SERVER_URL", "server.url"},
		{"LIBRO_SERVER_RATE_LIMIT", "server.rate_limit"},
		{"LIBRO_LOGGING_LEVEL", "logging.level"},
		{"LIBRO_REALTIME_URL", "realtime.url"},
		{"LIBRO_METRICS_ENABLED", "metrics.enabled"},
	}
	for _, tt := range tests {
		if got := envTransform(tt.input); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  url: http://books.example.com/api
  timeout: 10s
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LIBRO_LOGGING_LEVEL", "warn") // env beats file

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.URL != "http://books.example.com/api" {
		t.Errorf("server.url = %q, want file value", cfg.Server.URL)
	}
	if cfg.Server.Timeout != 10*time.Second {
		t.Errorf("server.timeout = %v, want 10s", cfg.Server.Timeout)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging.level = %q, env should override file", cfg.Logging.Level)
	}
	// Untouched fields keep defaults
	if cfg.Realtime.URL != "ws://localhost:7071" {
		t.Errorf("realtime.url = %q, want default", cfg.Realtime.URL)
	}
}
