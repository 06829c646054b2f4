// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadArrays(t *testing.T) {
	path := writeTemp(t, "arrays.txt", `
# detected arrays
arr1	ATCG	GGCC	TTAA
arr2 ATCG GGCC
arr3:rev TTAA GGCC ATCG
`)

	arrays, err := ReadArrays(path)
	require.NoError(t, err)
	require.Len(t, arrays, 3)

	assert.Equal(t, "arr1", arrays[0].ID)
	assert.Equal(t, []string{"ATCG", "GGCC", "TTAA"}, arrays[0].Spacers)
	assert.Equal(t, spacer.OrientationLeaderFirst, arrays[0].Orientation)

	assert.Equal(t, "arr3", arrays[2].ID)
	assert.Equal(t, spacer.OrientationTrailerFirst, arrays[2].Orientation)
}

func TestReadArrays_Invalid(t *testing.T) {
	t.Run("no spacers", func(t *testing.T) {
		path := writeTemp(t, "bad.txt", "lonely\n")
		_, err := ReadArrays(path)
		assert.ErrorContains(t, err, "no spacers")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeTemp(t, "empty.txt", "# nothing here\n")
		_, err := ReadArrays(path)
		assert.ErrorContains(t, err, "no arrays")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadArrays(filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})
}

func TestReadClusters(t *testing.T) {
	path := writeTemp(t, "clusters.tsv", "ATCG\tc1\nATCC\tc1\nGGGG\tc2\n")

	clusters, err := ReadClusters(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"ATCG": "c1",
		"ATCC": "c1",
		"GGGG": "c2",
	}, clusters)
}

func TestReadTopology(t *testing.T) {
	path := writeTemp(t, "tree.nwk", "((a,b),c);\n")

	topo, err := ReadTopology(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, topo.Leaves())
}

func TestLoadArrays(t *testing.T) {
	path := writeTemp(t, "arrays.txt", "x ATCG GGCC\ny ATCG\n")

	arrays, alphabet, err := LoadArrays(path, "", DefaultConfig())
	require.NoError(t, err)
	require.Len(t, arrays, 2)
	assert.Equal(t, 2, alphabet.Size())
	// Shared first spacer resolves to the same ID in both arrays.
	assert.Equal(t, arrays["x"].Spacers[0], arrays["y"].Spacers[0])
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("values override defaults", func(t *testing.T) {
		path := writeTemp(t, "config.yaml", `
logging:
  level: debug
workers: 4
network:
  min_shared: 3
search:
  heuristic: true
cost_model:
  order_penalty: 0.25
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, 3, cfg.Network.MinShared)
		assert.True(t, cfg.Search.Heuristic)
		assert.Equal(t, 0.25, cfg.Model.OrderPenalty)
		// Unset weights still pick up defaults.
		assert.Equal(t, 1.0, cfg.Model.LossWeight)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeTemp(t, "config.yaml", "workers: [nope\n")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}
