// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pairwise

import "github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"

// Record is the pairwise comparison result for one unordered array
// pair. Score and Shared are symmetric in A and B.
type Record struct {
	// A and B are the compared array IDs, in the order given to
	// Distance. Matrix listings normalize to A < B lexically.
	A string
	B string

	// Score is the normalized dissimilarity: |AΔB|/|A∪B| plus the
	// order-conflict penalty. 0 means identical spacer content in
	// consistent order; an empty-vs-empty pair also scores 0.
	Score float64

	// Shared counts distinct SpacerIDs present in both arrays.
	Shared int

	// OrderConflicts counts shared spacer pairs whose relative order
	// differs between the two arrays. Conflicting order is evidence
	// against a simple common-ancestor relationship, so it is surfaced
	// here rather than ignored.
	OrderConflicts int
}

// Distance compares two arrays under the event model.
//
// The base dissimilarity is the Jaccard complement of the two spacer
// sets. Shared spacers appearing in incompatible relative order add
// model.OrderPenalty scaled by the conflicting fraction of shared
// pairs. Duplicated spacers within one array are counted once, at
// their first occurrence.
func Distance(a, b spacer.Array, model CostModel) Record {
	model.Validate()

	posA := firstPositions(a.Spacers)
	posB := firstPositions(b.Spacers)

	union := len(posA)
	var shared []spacer.SpacerID
	for id := range posB {
		if _, ok := posA[id]; ok {
			shared = append(shared, id)
		} else {
			union++
		}
	}

	rec := Record{A: a.ID, B: b.ID, Shared: len(shared)}
	if union == 0 {
		return rec
	}

	symDiff := union - len(shared)
	rec.Score = float64(symDiff) / float64(union)

	if len(shared) > 1 {
		conflicts := 0
		for i := 0; i < len(shared); i++ {
			for j := i + 1; j < len(shared); j++ {
				x, y := shared[i], shared[j]
				inA := posA[x] < posA[y]
				inB := posB[x] < posB[y]
				if inA != inB {
					conflicts++
				}
			}
		}
		rec.OrderConflicts = conflicts
		totalPairs := len(shared) * (len(shared) - 1) / 2
		rec.Score += model.OrderPenalty * float64(conflicts) / float64(totalPairs)
	}
	return rec
}

// firstPositions maps each distinct SpacerID to its first index.
func firstPositions(ids []spacer.SpacerID) map[spacer.SpacerID]int {
	pos := make(map[spacer.SpacerID]int, len(ids))
	for i, id := range ids {
		if _, ok := pos[id]; !ok {
			pos[id] = i
		}
	}
	return pos
}
