// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hjson/hjson-go/v4"
)

// Loader handles configuration file loading.
type Loader struct{}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the configuration from the given path.
func (l *Loader) Load(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Parse HJSON to intermediate map
	var raw map[string]interface{}
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse hjson: %w", err)
	}

	// Convert to JSON and unmarshal to struct (for type safety)
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("convert to json: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config with default values applied.
func (l *Loader) LoadWithDefaults(ctx context.Context, path string) (*Config, error) {
	cfg, err := l.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

// FindConfig searches for a config file in the current directory.
// It looks for logharvester.hjson first, then logharvester.json.
func (l *Loader) FindConfig() (string, error) {
	candidates := []string{
		"logharvester.hjson",
		"logharvester.json",
	}

	for _, name := range candidates {
		path := filepath.Join(".", name)
		if _, err := os.Stat(path); err == nil {
			abs, err := filepath.Abs(path)
			if err != nil {
				return path, nil
			}
			return abs, nil
		}
	}

	return "", fmt.Errorf("config file not found (looked for logharvester.hjson, logharvester.json)")
}

// applyDefaults sets default values for missing config fields, per spec §6's
// configuration-inputs table.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "logharvester.db"
	}
	if cfg.IndexDir == "" {
		cfg.IndexDir = "lucene-indexes"
	}
	if cfg.DiscoveryCadence == 0 {
		cfg.DiscoveryCadence = 15
	}
	if cfg.IngestionCadence == 0 {
		cfg.IngestionCadence = 15
	}
	if cfg.MaxWorkerParallelism == 0 {
		cfg.MaxWorkerParallelism = 8
	}

	for i := range cfg.Watchers {
		if cfg.Watchers[i].JavaTimeZoneId == "" {
			cfg.Watchers[i].JavaTimeZoneId = "UTC"
		}
		if cfg.Watchers[i].RecurDepth == 0 {
			cfg.Watchers[i].RecurDepth = 1
		}
	}
}
