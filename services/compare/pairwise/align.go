// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pairwise

import "github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"

// Gap marks an alignment gap. SpacerID 0 is never assigned to a real
// spacer group, so it is safe as the gap sentinel.
const Gap spacer.SpacerID = 0

// Needleman-Wunsch scoring constants for spacer-unit alignment. The
// large match score relative to the penalties forces shared spacers to
// align whenever their order allows it.
const (
	alignMatch    = 100
	alignMismatch = -1
	alignGap      = -2
)

// Align performs Needleman-Wunsch global alignment of two SpacerID
// sequences and returns both sequences padded with Gap to equal length.
//
// Unlike nucleotide alignment the unit here is a whole spacer: two
// positions either carry the same group ID or they don't. Ties in the
// traceback prefer diagonal moves, then gaps in b, so the result is
// deterministic for identical inputs.
func Align(a, b []spacer.SpacerID) (alignedA, alignedB []spacer.SpacerID) {
	n, m := len(a), len(b)

	grid := make([][]int, m+1)
	for j := range grid {
		grid[j] = make([]int, n+1)
	}
	for i := 0; i <= n; i++ {
		grid[0][i] = alignGap * i
	}
	for j := 0; j <= m; j++ {
		grid[j][0] = alignGap * j
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			score := alignMismatch
			if a[i] == b[j] {
				score = alignMatch
			}
			best := grid[j][i] + score
			if up := grid[j+1][i] + alignGap; up > best {
				best = up
			}
			if left := grid[j][i+1] + alignGap; left > best {
				best = left
			}
			grid[j+1][i+1] = best
		}
	}

	// Trace back from the bottom-right corner.
	revA := make([]spacer.SpacerID, 0, n+m)
	revB := make([]spacer.SpacerID, 0, n+m)
	i, j := n, m
	for i > 0 && j > 0 {
		score := alignMismatch
		if a[i-1] == b[j-1] {
			score = alignMatch
		}
		switch grid[j][i] {
		case grid[j-1][i-1] + score:
			revA = append(revA, a[i-1])
			revB = append(revB, b[j-1])
			i--
			j--
		case grid[j][i-1] + alignGap:
			revA = append(revA, a[i-1])
			revB = append(revB, Gap)
			i--
		default:
			revA = append(revA, Gap)
			revB = append(revB, b[j-1])
			j--
		}
	}
	for i > 0 {
		revA = append(revA, a[i-1])
		revB = append(revB, Gap)
		i--
	}
	for j > 0 {
		revA = append(revA, Gap)
		revB = append(revB, b[j-1])
		j--
	}

	alignedA = make([]spacer.SpacerID, len(revA))
	alignedB = make([]spacer.SpacerID, len(revB))
	for k := range revA {
		alignedA[len(revA)-1-k] = revA[k]
		alignedB[len(revB)-1-k] = revB[k]
	}
	return alignedA, alignedB
}
