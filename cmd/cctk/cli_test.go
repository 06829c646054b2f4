// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioFile holds the X/Y/Z scenario with strand-distinct spacer
// sequences: X=[s1,s2,s3], Y=[s1,s2], Z=[s4,s2,s3].
const scenarioFile = `X AAAA AACC AGAG
Y AAAA AACC
Z ACGT AACC AGAG
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf strings.Builder
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(append(args,
		"--quiet",
		"--config", filepath.Join(t.TempDir(), "absent.yaml")))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCLI_Distance(t *testing.T) {
	path := writeTemp(t, "arrays.txt", scenarioFile)

	out, err := execute(t, "distance", "-a", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "array\tX\tY\tZ", lines[0])
}

func TestCLI_Network(t *testing.T) {
	path := writeTemp(t, "arrays.txt", scenarioFile)

	out, err := execute(t, "network", "-a", path, "--min-shared", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "source\ttarget\tshared\tscore", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "X\tY\t2\t"), "line: %q", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "X\tZ\t2\t"), "line: %q", lines[2])
}

func TestCLI_Search(t *testing.T) {
	path := writeTemp(t, "arrays.txt", scenarioFile)

	out, err := execute(t, "search", "-a", path)
	require.NoError(t, err)

	newick := strings.TrimSpace(out)
	assert.True(t, strings.HasSuffix(newick, ";"), "output: %q", newick)
	for _, leaf := range []string{"X", "Y", "Z"} {
		assert.Contains(t, newick, leaf)
	}
	assert.Contains(t, newick, "Anc0")
}

func TestCLI_Constrain(t *testing.T) {
	arrays := writeTemp(t, "arrays.txt", scenarioFile)
	tree := writeTemp(t, "tree.nwk", "(X,Y,Z);\n")

	out, err := execute(t, "constrain", "-a", arrays, "-t", tree)
	require.NoError(t, err)
	assert.Contains(t, out, "Anc0")

	t.Run("leaf mismatch", func(t *testing.T) {
		bad := writeTemp(t, "bad.nwk", "(X,Y);\n")
		_, err := execute(t, "constrain", "-a", arrays, "-t", bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Z")
	})
}
