// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package config handles HJSON configuration loading for logharvester.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Version string        `json:"version"`
	Server  ServerConfig  `json:"server"`
	Logging LoggingConfig `json:"logging"`

	DatabasePath          string `json:"database_path"`
	IndexDir              string `json:"index_dir"`
	DiscoveryCadence      int    `json:"discovery_cadence"`      // minutes
	IngestionCadence      int    `json:"ingestion_cadence"`      // minutes
	MaxWorkerParallelism  int    `json:"max_worker_parallelism"` // per-watcher worker cap
	UseDeflateCompression bool   `json:"use_deflate_compression"`
	CacheSshSessions      bool   `json:"cache_ssh_sessions"`

	SshConfigs []SshConfigEntry `json:"ssh_configs"`
	Watchers   []WatcherEntry   `json:"watchers"`
}

// ServerConfig configures the administrative HTTP server.
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level string `json:"level"` // "debug", "info", "warn", "error"
}

// SshConfigEntry seeds an SshConfig row at startup.
type SshConfigEntry struct {
	Name       string `json:"name"`
	ServerHost string `json:"server_host"`
	Port       int    `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

// WatcherEntry seeds a Watcher row at startup.
type WatcherEntry struct {
	Name           string `json:"name"`
	SshConfigName  string `json:"ssh_config_name"`
	WatchDir       string `json:"watch_dir"`
	RecurDepth     int    `json:"recur_depth"`
	FilePrefix     string `json:"file_prefix"`
	FileContains   string `json:"file_contains"`
	FilePostfix    string `json:"file_postfix"`
	ArchivedLogs   bool   `json:"archived_logs"`
	Enabled        bool   `json:"enabled"`
	JavaTimeZoneId string `json:"java_time_zone_id"`
}

// ParseDuration parses a duration string, returning a default if empty.
func ParseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}
