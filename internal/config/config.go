// Libro - Library Service Client
// Copyright 2026 Kai-Feng Wei (kfwei)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kfwei/libro

// Package config loads Libro's configuration with Koanf v2 layered sources.
//
// Precedence, highest first:
//  1. Environment variables (LIBRO_ prefix, e.g. LIBRO_SERVER_URL)
//  2. Config file (config.yaml, or the path in LIBRO_CONFIG)
//  3. Built-in defaults
//
// The recommendation deadline (60s) and unread poll period (30s) are design
// constants of the client protocol and deliberately not configurable here.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the Libro client.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Realtime RealtimeConfig `koanf:"realtime"`
	Auth     AuthConfig     `koanf:"auth"`
	Logging  LoggingConfig  `koanf:"logging"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// ServerConfig points at the library service's request/response surface.
type ServerConfig struct {
	// URL is the base URL of the library service API, e.g. http://localhost:7070/api
	URL string `koanf:"url" validate:"required,url"`

	// Timeout bounds each individual request/response call.
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`

	// RateLimit is the sustained outbound request rate per second.
	RateLimit float64 `koanf:"rate_limit" validate:"gt=0"`

	// RateBurst is the outbound request burst size.
	RateBurst int `koanf:"rate_burst" validate:"min=1"`
}

// RealtimeConfig points at the push channel used for task updates.
type RealtimeConfig struct {
	// URL is the websocket endpoint, e.g. ws://localhost:7071
	URL string `koanf:"url" validate:"required"`
}

// AuthConfig carries optional login credentials. When empty the client
// runs anonymously; the catalog is readable without a session.
type AuthConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr" validate:"required_if=Enabled true"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:       "http://localhost:7070/api",
			Timeout:   30 * time.Second,
			RateLimit: 10,
			RateBurst: 20,
		},
		Realtime: RealtimeConfig{
			URL: "ws://localhost:7071",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9109",
		},
	}
}

// Validate checks the configuration using struct tags.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("invalid config: field %s failed %q validation", first.Namespace(), first.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// asValidationErrors is a typed errors.As wrapper kept separate so Validate
// reads linearly.
func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	v, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = v
	return true
}
