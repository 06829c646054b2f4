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
	"strings"

	"github.com/spf13/cobra"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/analysis"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/export"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/network"
)

func runNetwork(cmd *cobra.Command, args []string) error {
	arrays, _, err := LoadArrays(arrayPath, clusterPath, config)
	if err != nil {
		return err
	}
	threshold := minShared
	if threshold <= 0 {
		threshold = config.Network.MinShared
	}
	runner, err := analysis.New(analysis.ModeNetwork, logger)
	if err != nil {
		return err
	}
	res, err := runner.Run(cmd.Context(), &analysis.Request{
		Arrays:    arrays,
		Model:     config.Model,
		MinShared: threshold,
		Workers:   workers(),
	})
	if err != nil {
		return err
	}

	if componentsPath != "" {
		err := withOutput(componentsPath, cmd.OutOrStdout(), func(w io.Writer) error {
			return writeComponents(w, res.Graph)
		})
		if err != nil {
			return err
		}
	}
	return withOutput(outputPath, cmd.OutOrStdout(), func(w io.Writer) error {
		return export.EdgeListTSV(w, res.Graph)
	})
}

// writeComponents lists connected components one per line, members
// tab-separated.
func writeComponents(w io.Writer, g *network.Graph) error {
	for _, component := range g.Components() {
		if _, err := fmt.Fprintln(w, strings.Join(component, "\t")); err != nil {
			return err
		}
	}
	return nil
}
