// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cganote/CRISPR-comparison-toolkit/pkg/logging"
)

var (
	config Config
	logger *logging.Logger
)

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		logger.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = LoadConfig(configPath)
		if err != nil {
			return err
		}
		level := config.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		logger = logging.New(logging.Config{
			Level:   logging.ParseLevel(level),
			LogDir:  config.Logging.Dir,
			Service: "cctk",
			JSON:    config.Logging.JSON,
			Quiet:   quiet,
		})
		return nil
	}
}
