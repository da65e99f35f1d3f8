// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the config from ~/.vhub/config.yaml, creating it with
// defaults on first run, then applies environment overrides.
func Load() (VhubConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return VhubConfig{}, fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return LoadFrom(filepath.Join(home, ".vhub", "config.yaml"))
}

// LoadFrom reads the config from an explicit path. Used by Load and by
// tests; the --config flag routes here too.
func LoadFrom(path string) (VhubConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "First run detected, creating config at %s\n", path)
		if err := createDefault(path); err != nil {
			return VhubConfig{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return VhubConfig{}, fmt.Errorf("failed to read the config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return VhubConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets environment variables override the file, so CI and
// one-off invocations don't need to edit YAML.
func applyEnv(cfg *VhubConfig) {
	if v := os.Getenv("VHUB_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("VHUB_TOKEN_PATH"); v != "" {
		cfg.Auth.TokenPath = v
	}
	if v := os.Getenv("VHUB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("VHUB_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
