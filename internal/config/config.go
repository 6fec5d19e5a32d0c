// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

// Package config loads and validates Pitwall's configuration.
//
// Configuration is loaded via Koanf v2 with layered sources, highest
// priority last:
//
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, /etc/pitwall/config.yaml,
//     or the path in CONFIG_PATH)
//  3. Environment variables
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Pitwall server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Ergast   ErgastConfig   `koanf:"ergast"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// ErgastConfig holds upstream F1 data provider settings.
//
// The default base URL points at the Jolpica mirror of the Ergast API.
// RateLimit is requests per second against the upstream; the public
// endpoint enforces roughly four per second for unauthenticated clients.
type ErgastConfig struct {
	BaseURL   string        `koanf:"base_url" validate:"required,url"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit" validate:"gt=0"`
	Burst     int           `koanf:"burst" validate:"min=1"`
}

// CacheConfig holds the two cache tiers in front of the upstream provider.
//
// Dir is the BadgerDB directory for the persistent session cache; an empty
// Dir disables the disk tier (sessions are then held in memory only).
type CacheConfig struct {
	Dir       string        `koanf:"dir"`
	MemoryTTL time.Duration `koanf:"memory_ttl"`
	// LiveTTL bounds how long the current season's most recent round may be
	// served from cache before being refetched. Completed races never expire.
	LiveTTL time.Duration `koanf:"live_ttl"`
}

// SecurityConfig holds CORS and rate limiting for the HTTP surface.
// The dashboard itself is unauthenticated; these guard the open endpoints.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the configuration for consistency beyond struct tags.
func (c *Config) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}

	if c.Cache.MemoryTTL <= 0 {
		return fmt.Errorf("cache.memory_ttl must be positive, got %s", c.Cache.MemoryTTL)
	}
	if c.Cache.LiveTTL <= 0 {
		return fmt.Errorf("cache.live_ttl must be positive, got %s", c.Cache.LiveTTL)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Ergast.Timeout <= 0 {
		return fmt.Errorf("ergast.timeout must be positive, got %s", c.Ergast.Timeout)
	}

	return nil
}
