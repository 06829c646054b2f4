// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/topology"
)

// ReadArrays parses an array file produced by upstream detection: one
// array per line, the array ID followed by its spacer sequences in
// leader-to-trailer order, whitespace separated. Blank lines and '#'
// comments are skipped. An ID suffixed with ":rev" marks a
// trailer-first array that Normalize will flip.
func ReadArrays(path string) ([]spacer.RawArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening array file: %w", err)
	}
	defer f.Close()

	var arrays []spacer.RawArray
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s:%d: array %q has no spacers", path, line, fields[0])
		}
		raw := spacer.RawArray{
			ID:          fields[0],
			Spacers:     fields[1:],
			Orientation: spacer.OrientationLeaderFirst,
		}
		if id, ok := strings.CutSuffix(raw.ID, ":rev"); ok {
			raw.ID = id
			raw.Orientation = spacer.OrientationTrailerFirst
		}
		arrays = append(arrays, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading array file: %w", err)
	}
	if len(arrays) == 0 {
		return nil, fmt.Errorf("array file %s has no arrays", path)
	}
	return arrays, nil
}

// ReadClusters parses an externally supplied spacer cluster table: one
// "sequence<TAB>cluster" pair per line. Sequences sharing a cluster
// label get the same SpacerID regardless of sequence identity.
func ReadClusters(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cluster table: %w", err)
	}
	defer f.Close()

	clusters := make(map[string]string)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: want sequence and cluster label", path, line)
		}
		clusters[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cluster table: %w", err)
	}
	return clusters, nil
}

// ReadTopology parses a Newick tree file for constrained mode.
func ReadTopology(path string) (*topology.Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tree file: %w", err)
	}
	defer f.Close()
	return topology.Parse(f)
}

// LoadArrays reads and normalizes the array input for one run: the
// array file, an optional cluster table, and the configured SNP
// tolerance all feed the shared alphabet.
func LoadArrays(arrayPath, clusterPath string, cfg Config) (map[string]spacer.Array, *spacer.Alphabet, error) {
	raw, err := ReadArrays(arrayPath)
	if err != nil {
		return nil, nil, err
	}
	opts := spacer.AlphabetOptions{SNPTolerance: cfg.Alphabet.SNPTolerance}
	if clusterPath != "" {
		opts.Clusters, err = ReadClusters(clusterPath)
		if err != nil {
			return nil, nil, err
		}
	}
	alphabet := spacer.NewAlphabet(opts)
	arrays, err := alphabet.Normalize(raw)
	if err != nil {
		return nil, nil, err
	}
	return arrays, alphabet, nil
}
