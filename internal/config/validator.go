// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"
)

// Validator validates configuration against schema rules.
type Validator struct{}

// NewValidator creates a new config validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidationError contains multiple validation failures.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single field validation error.
type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	var msgs []string
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(msgs, "; ")
}

// IsEmpty returns true if there are no validation errors.
func (e *ValidationError) IsEmpty() bool {
	return len(e.Errors) == 0
}

// Add adds a field error.
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Validate checks configuration validity.
func (v *Validator) Validate(cfg *Config) error {
	errs := &ValidationError{}

	v.validateServer(cfg, errs)
	v.validateLogging(cfg, errs)
	v.validateSshConfigs(cfg, errs)
	v.validateWatchers(cfg, errs)

	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func (v *Validator) validateServer(cfg *Config, errs *ValidationError) {
	if cfg.Server.Port != 0 {
		if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
			errs.Add("server.port", "must be between 0 and 65535")
		}
	}
}

func (v *Validator) validateLogging(cfg *Config, errs *ValidationError) {
	if cfg.Logging.Level == "" {
		return
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs.Add("logging.level", fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", cfg.Logging.Level))
	}
}

func (v *Validator) validateSshConfigs(cfg *Config, errs *ValidationError) {
	seen := make(map[string]bool)
	for i, c := range cfg.SshConfigs {
		prefix := fmt.Sprintf("ssh_configs[%d]", i)

		if c.Name == "" {
			errs.Add(prefix+".name", "is required")
		} else if seen[c.Name] {
			errs.Add(prefix+".name", fmt.Sprintf("duplicate ssh config name '%s'", c.Name))
		} else {
			seen[c.Name] = true
		}

		if c.ServerHost == "" {
			errs.Add(prefix+".server_host", "is required")
		}
		if c.Port < 0 || c.Port > 65535 {
			errs.Add(prefix+".port", "must be between 0 and 65535")
		}
		if c.Username == "" {
			errs.Add(prefix+".username", "is required")
		}
	}
}

func (v *Validator) validateWatchers(cfg *Config, errs *ValidationError) {
	sshConfigNames := make(map[string]bool)
	for _, c := range cfg.SshConfigs {
		sshConfigNames[c.Name] = true
	}

	seen := make(map[string]bool)
	for i, w := range cfg.Watchers {
		prefix := fmt.Sprintf("watchers[%d]", i)

		if w.Name == "" {
			errs.Add(prefix+".name", "is required")
		} else if seen[w.Name] {
			errs.Add(prefix+".name", fmt.Sprintf("duplicate watcher name '%s'", w.Name))
		} else {
			seen[w.Name] = true
		}

		if w.SshConfigName == "" {
			errs.Add(prefix+".ssh_config_name", "is required")
		} else if !sshConfigNames[w.SshConfigName] {
			errs.Add(prefix+".ssh_config_name", fmt.Sprintf("references unknown ssh config '%s'", w.SshConfigName))
		}

		if w.WatchDir == "" {
			errs.Add(prefix+".watch_dir", "is required")
		}
		if w.RecurDepth < 0 {
			errs.Add(prefix+".recur_depth", "must be non-negative")
		}
	}
}
