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

	"gopkg.in/yaml.v3"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/pairwise"
)

// Config is the toolkit's file configuration. Every field has a
// working default, so config.yaml is optional; CLI flags override
// whatever the file sets.
type Config struct {
	Logging  LoggingConfig      `yaml:"logging"`
	Workers  int                `yaml:"workers"`
	Model    pairwise.CostModel `yaml:"cost_model"`
	Network  NetworkConfig      `yaml:"network"`
	Search   SearchConfig       `yaml:"search"`
	Alphabet AlphabetConfig     `yaml:"alphabet"`
}

// LoggingConfig mirrors pkg/logging.Config for the yaml file.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
	JSON  bool   `yaml:"json"`
}

// NetworkConfig holds network-mode settings.
type NetworkConfig struct {
	// MinShared is the shared-spacer count required for a graph edge.
	MinShared int `yaml:"min_shared"`
}

// SearchConfig holds topology-search settings.
type SearchConfig struct {
	MaxExhaustiveLeaves int  `yaml:"max_exhaustive_leaves"`
	MaxEvaluations      int  `yaml:"max_evaluations"`
	MaxTies             int  `yaml:"max_ties"`
	TimeoutSeconds      int  `yaml:"timeout_seconds"`
	Heuristic           bool `yaml:"heuristic"`
}

// AlphabetConfig holds spacer-identity settings.
type AlphabetConfig struct {
	// SNPTolerance is the per-spacer mismatch budget when grouping
	// near-identical sequences. Zero means exact matching only.
	SNPTolerance int `yaml:"snp_tolerance"`
}

// DefaultConfig returns the configuration used when no config.yaml
// exists.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Model:   pairwise.DefaultCostModel(),
		Network: NetworkConfig{MinShared: 1},
	}
}

// LoadConfig reads a yaml config file. A missing file is not an
// error; the defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Model.Validate()
	if cfg.Network.MinShared <= 0 {
		cfg.Network.MinShared = 1
	}
	return cfg, nil
}
