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

	"github.com/spf13/cobra"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/analysis"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/export"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/reconstruct"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/topology"
)

func runConstrain(cmd *cobra.Command, args []string) error {
	arrays, alphabet, err := LoadArrays(arrayPath, clusterPath, config)
	if err != nil {
		return err
	}
	topo, err := ReadTopology(treePath)
	if err != nil {
		return err
	}
	runner, err := analysis.New(analysis.ModeConstrain, logger)
	if err != nil {
		return err
	}
	res, err := runner.Run(cmd.Context(), &analysis.Request{
		Arrays:   arrays,
		Model:    config.Model,
		Topology: topo,
		Workers:  workers(),
	})
	if err != nil {
		return err
	}

	var dec export.SequenceDecoder
	if decodeSpacers {
		dec = alphabet
	}
	if err := writeTables(res.Topology, res.Assignment, dec); err != nil {
		return err
	}
	return withOutput(outputPath, cmd.OutOrStdout(), func(w io.Writer) error {
		newick, err := export.Newick(res.Topology, res.Assignment, config.Model)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, newick)
		return err
	})
}

// writeTables emits the optional event and state tables shared by the
// constrain and search commands.
func writeTables(topo *topology.Topology, asg *reconstruct.Assignment, dec export.SequenceDecoder) error {
	if eventsPath != "" {
		err := withOutput(eventsPath, nil, func(w io.Writer) error {
			return export.EventTable(w, topo, asg, dec)
		})
		if err != nil {
			return err
		}
	}
	if statesPath != "" {
		err := withOutput(statesPath, nil, func(w io.Writer) error {
			return export.StateTable(w, topo, asg, dec)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
