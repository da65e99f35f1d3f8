// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the vhub CLI configuration from
// ~/.vhub/config.yaml, with VHUB_* environment overrides.
package config

import (
	"os"
	"path/filepath"
)

// VhubConfig is the root configuration document.
type VhubConfig struct {
	// Backend: where the coordination API lives
	Backend BackendConfig `yaml:"backend"`

	// Auth: local session storage
	Auth AuthConfig `yaml:"auth"`

	// Logging: CLI log destination and verbosity
	Logging LoggingConfig `yaml:"logging"`
}

type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`        // e.g. https://api.example.org
	TimeoutSeconds int    `yaml:"timeout_seconds"` // per-request timeout; no retries
}

type AuthConfig struct {
	// TokenPath is where the bearer token is persisted between runs.
	TokenPath string `yaml:"token_path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Dir   string `yaml:"dir"`   // empty disables file logging
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() VhubConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return VhubConfig{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 30,
		},
		Auth: AuthConfig{
			TokenPath: filepath.Join(home, ".vhub", "token"),
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   filepath.Join(home, ".vhub", "logs"),
		},
	}
}
