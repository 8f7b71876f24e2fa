// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Version: "1.0",
		Server:  ServerConfig{Port: 8080, Host: "127.0.0.1"},
		Logging: LoggingConfig{Level: "info"},
		SshConfigs: []SshConfigEntry{
			{Name: "s1", ServerHost: "h", Port: 22, Username: "u"},
		},
		Watchers: []WatcherEntry{
			{Name: "w1", SshConfigName: "s1", WatchDir: "/logs", RecurDepth: 1},
		},
	}
}

func TestValidatorAcceptsValidConfig(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Validate(validConfig()))
}

func TestValidatorRejectsBadPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000
	v := NewValidator()
	err := v.Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestValidatorRejectsInvalidLoggingLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	v := NewValidator()
	err := v.Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidatorRejectsDuplicateSshConfigNames(t *testing.T) {
	cfg := validConfig()
	cfg.SshConfigs = append(cfg.SshConfigs, SshConfigEntry{Name: "s1", ServerHost: "h2", Port: 22, Username: "u"})
	v := NewValidator()
	err := v.Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate ssh config name")
}

func TestValidatorRejectsWatcherReferencingUnknownSshConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Watchers[0].SshConfigName = "ghost"
	v := NewValidator()
	err := v.Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "references unknown ssh config")
}

func TestValidatorRejectsDuplicateWatcherNames(t *testing.T) {
	cfg := validConfig()
	cfg.Watchers = append(cfg.Watchers, cfg.Watchers[0])
	v := NewValidator()
	err := v.Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate watcher name")
}

func TestValidatorRejectsMissingWatchDir(t *testing.T) {
	cfg := validConfig()
	cfg.Watchers[0].WatchDir = ""
	v := NewValidator()
	err := v.Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch_dir")
}
