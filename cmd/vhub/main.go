// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// vhub is the command-line client for the volunteer event coordination
// backend. Volunteers browse and register to events; coordinators
// moderate events and review registrations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/volunteerhub/vhub/cmd/vhub/config"
	"github.com/volunteerhub/vhub/pkg/logging"
	"github.com/volunteerhub/vhub/pkg/ux"
)

var (
	cfg    config.VhubConfig
	logger = logging.Default()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Run handlers print their own errors; this catches flag and
		// usage failures from cobra itself.
		os.Exit(CLIExitError)
	}
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level, err := logging.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return err
		}
		logger = logging.New(logging.Config{
			Level:   level,
			LogDir:  cfg.Logging.Dir,
			Service: "vhub",
			JSON:    cfg.Logging.JSON,
			Quiet:   !verbose,
		})

		if plainOutput || jsonOutput {
			ux.SetPlain(true)
		}
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		logger.Close()
	}
}
