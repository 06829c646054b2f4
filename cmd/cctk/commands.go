// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"time"

	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath  string
	logLevel    string
	workersFlag int
	quiet       bool

	arrayPath     string
	clusterPath   string
	outputPath    string
	decodeSpacers bool

	minShared      int
	componentsPath string

	treePath   string
	eventsPath string
	statesPath string

	heuristicFlag  bool
	maxTies        int
	maxEvaluations int
	maxExhaustive  int
	searchTimeout  time.Duration
	tiesPath       string

	rootCmd = &cobra.Command{
		Use:   "cctk",
		Short: "Compare CRISPR arrays and infer their evolutionary relationships",
		Long: `cctk takes detected CRISPR arrays (ordered spacer sequences) and infers
how they relate: pairwise event-model distances, spacer-sharing
networks, ancestral state reconstruction on a supplied tree, and
maximum-parsimony topology search.`,
	}

	// --- Distance ---
	distanceCmd = &cobra.Command{
		Use:   "distance",
		Short: "Compute the pairwise distance matrix for a set of arrays",
		RunE:  runDistance, // Defined in cmd_distance.go
	}

	// --- Network ---
	networkCmd = &cobra.Command{
		Use:   "network",
		Short: "Build the spacer-sharing graph over a set of arrays",
		RunE:  runNetwork, // Defined in cmd_network.go
	}

	// --- Constrained reconstruction ---
	constrainCmd = &cobra.Command{
		Use:   "constrain",
		Short: "Reconstruct ancestral array states on a user-supplied tree",
		RunE:  runConstrain, // Defined in cmd_constrain.go
	}

	// --- Topology search ---
	searchCmd = &cobra.Command{
		Use:   "search",
		Short: "Search tree topologies for the maximum-parsimony optimum",
		RunE:  runSearch, // Defined in cmd_search.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"Path to the yaml configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&workersFlag, "workers", 0,
		"Parallelism for matrix fill and candidate scoring (0 = auto)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false,
		"Suppress console log output")

	for _, cmd := range []*cobra.Command{distanceCmd, networkCmd, constrainCmd, searchCmd} {
		cmd.Flags().StringVarP(&arrayPath, "arrays", "a", "",
			"Array file: one line per array, ID then spacer sequences leader-first")
		cmd.Flags().StringVar(&clusterPath, "clusters", "",
			"Optional spacer cluster table (sequence<TAB>cluster)")
		_ = cmd.MarkFlagRequired("arrays")
		rootCmd.AddCommand(cmd)
	}

	distanceCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the matrix TSV here instead of stdout")

	networkCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the edge list TSV here instead of stdout")
	networkCmd.Flags().IntVar(&minShared, "min-shared", 0,
		"Shared-spacer count required for an edge (0 = config value)")
	networkCmd.Flags().StringVar(&componentsPath, "components", "",
		"Also write connected components here, one per line")

	constrainCmd.Flags().StringVarP(&treePath, "tree", "t", "",
		"Newick tree whose leaves match the array IDs")
	_ = constrainCmd.MarkFlagRequired("tree")
	constrainCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the annotated Newick tree here instead of stdout")
	constrainCmd.Flags().StringVar(&eventsPath, "events", "",
		"Also write the per-edge event table TSV here")
	constrainCmd.Flags().StringVar(&statesPath, "states", "",
		"Also write the per-node state table TSV here")
	constrainCmd.Flags().BoolVar(&decodeSpacers, "decode", false,
		"Report spacer sequences instead of numeric IDs in tables")

	searchCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the best annotated Newick tree here instead of stdout")
	searchCmd.Flags().StringVar(&eventsPath, "events", "",
		"Also write the per-edge event table TSV here")
	searchCmd.Flags().StringVar(&statesPath, "states", "",
		"Also write the per-node state table TSV here")
	searchCmd.Flags().StringVar(&tiesPath, "ties", "",
		"Also write every co-optimal tree here, one Newick per line")
	searchCmd.Flags().BoolVar(&decodeSpacers, "decode", false,
		"Report spacer sequences instead of numeric IDs in tables")
	searchCmd.Flags().BoolVar(&heuristicFlag, "heuristic", false,
		"Permit heuristic search beyond the exhaustive leaf ceiling")
	searchCmd.Flags().IntVar(&maxTies, "max-ties", 0,
		"Cap on reported co-optimal topologies (0 = config value)")
	searchCmd.Flags().IntVar(&maxEvaluations, "max-evaluations", 0,
		"Cap on scored topologies (0 = config value)")
	searchCmd.Flags().IntVar(&maxExhaustive, "max-exhaustive", 0,
		"Exhaustive leaf-count ceiling (0 = config value)")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 0,
		"Wall-clock search budget, e.g. 30s or 5m (0 = config value)")
}

// workers resolves the effective parallelism: flag over config.
func workers() int {
	if workersFlag > 0 {
		return workersFlag
	}
	return config.Workers
}
