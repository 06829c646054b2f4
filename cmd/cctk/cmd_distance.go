// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/analysis"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/export"
)

func runDistance(cmd *cobra.Command, args []string) error {
	arrays, _, err := LoadArrays(arrayPath, clusterPath, config)
	if err != nil {
		return err
	}
	runner, err := analysis.New(analysis.ModeDistance, logger)
	if err != nil {
		return err
	}
	res, err := runner.Run(cmd.Context(), &analysis.Request{
		Arrays:  arrays,
		Model:   config.Model,
		Workers: workers(),
	})
	if err != nil {
		return err
	}
	return withOutput(outputPath, cmd.OutOrStdout(), func(w io.Writer) error {
		return export.MatrixTSV(w, res.Matrix)
	})
}
