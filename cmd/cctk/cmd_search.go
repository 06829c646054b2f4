// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/analysis"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/export"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/reconstruct"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/search"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"
)

func runSearch(cmd *cobra.Command, args []string) error {
	arrays, alphabet, err := LoadArrays(arrayPath, clusterPath, config)
	if err != nil {
		return err
	}
	runner, err := analysis.New(analysis.ModeSearch, logger)
	if err != nil {
		return err
	}
	res, err := runner.Run(cmd.Context(), &analysis.Request{
		Arrays:  arrays,
		Model:   config.Model,
		Search:  searchOptions(),
		Workers: workers(),
	})
	if err != nil {
		return err
	}

	result := res.Search
	logger.Info("search summary",
		"cost", result.Cost,
		"exhaustive", result.Exhaustive,
		"budget_exhausted", result.BudgetExhausted,
		"evaluations", result.Evaluations,
		"ties", len(result.Ties))

	var dec export.SequenceDecoder
	if decodeSpacers {
		dec = alphabet
	}
	if err := writeTables(result.Best, result.Assignment, dec); err != nil {
		return err
	}
	if tiesPath != "" {
		err := withOutput(tiesPath, nil, func(w io.Writer) error {
			return writeTies(w, result, arrays)
		})
		if err != nil {
			return err
		}
	}
	return withOutput(outputPath, cmd.OutOrStdout(), func(w io.Writer) error {
		newick, err := export.Newick(result.Best, result.Assignment, config.Model)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, newick)
		return err
	})
}

// searchOptions merges config defaults with flag overrides.
func searchOptions() search.Options {
	opts := search.Options{
		MaxExhaustiveLeaves: config.Search.MaxExhaustiveLeaves,
		MaxEvaluations:      config.Search.MaxEvaluations,
		MaxTies:             config.Search.MaxTies,
		Timeout:             time.Duration(config.Search.TimeoutSeconds) * time.Second,
		Heuristic:           config.Search.Heuristic || heuristicFlag,
	}
	if maxExhaustive > 0 {
		opts.MaxExhaustiveLeaves = maxExhaustive
	}
	if maxEvaluations > 0 {
		opts.MaxEvaluations = maxEvaluations
	}
	if maxTies > 0 {
		opts.MaxTies = maxTies
	}
	if searchTimeout > 0 {
		opts.Timeout = searchTimeout
	}
	return opts
}

// writeTies emits every co-optimal topology as annotated Newick, one
// per line, reconstructing each so branch lengths are populated.
func writeTies(w io.Writer, result *search.Result, arrays map[string]spacer.Array) error {
	for _, tie := range result.Ties {
		asg := result.Assignment
		if tie != result.Best {
			var err error
			asg, err = reconstruct.Reconstruct(tie, arrays, config.Model)
			if err != nil {
				return err
			}
		}
		newick, err := export.Newick(tie, asg, config.Model)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, newick); err != nil {
			return err
		}
	}
	return nil
}
