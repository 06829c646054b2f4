// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pairwise

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"
)

// maxMatrixWorkers caps parallelism for the matrix fill. The work is
// CPU-bound alignment; more goroutines than cores just thrash.
const maxMatrixWorkers = 8

// DistanceMatrix holds the full pairwise comparison of an array set.
// It is built once, then read-only.
type DistanceMatrix struct {
	ids   []string
	index map[string]int
	cells [][]Record
}

// Matrix computes all pairwise Records for the given arrays.
//
// Rows are filled concurrently; each goroutine writes a disjoint slice
// of cells, so no locking is needed. workers <= 0 selects
// min(GOMAXPROCS, 8). Output ordering is fixed by lexical array-ID
// sort regardless of input map iteration order.
func Matrix(ctx context.Context, arrays map[string]spacer.Array, model CostModel, workers int) (*DistanceMatrix, error) {
	model.Validate()
	if workers <= 0 {
		workers = min(runtime.GOMAXPROCS(0), maxMatrixWorkers)
	}

	ids := make([]string, 0, len(arrays))
	for id := range arrays {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	m := &DistanceMatrix{
		ids:   ids,
		index: make(map[string]int, len(ids)),
		cells: make([][]Record, len(ids)),
	}
	for i, id := range ids {
		m.index[id] = i
		m.cells[i] = make([]Record, len(ids))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range ids {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a := arrays[ids[i]]
			for j := i; j < len(ids); j++ {
				m.cells[i][j] = Distance(a, arrays[ids[j]], model)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Mirror the upper triangle; Record is symmetric by construction.
	for i := range ids {
		for j := 0; j < i; j++ {
			rec := m.cells[j][i]
			m.cells[i][j] = rec
		}
	}
	return m, nil
}

// IDs returns the array identifiers in lexical order.
func (m *DistanceMatrix) IDs() []string {
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// Len returns the number of arrays in the matrix.
func (m *DistanceMatrix) Len() int { return len(m.ids) }

// Record returns the comparison for a pair of array IDs. The second
// return is false when either ID is unknown.
func (m *DistanceMatrix) Record(a, b string) (Record, bool) {
	i, ok := m.index[a]
	if !ok {
		return Record{}, false
	}
	j, ok := m.index[b]
	if !ok {
		return Record{}, false
	}
	return m.cells[i][j], true
}

// Pairs returns every unordered pair record, ordered by (A, B) lexical
// array ID. Each record has A < B.
func (m *DistanceMatrix) Pairs() []Record {
	var out []Record
	for i := range m.ids {
		for j := i + 1; j < len(m.ids); j++ {
			out = append(out, m.cells[i][j])
		}
	}
	return out
}

// Closest returns the pair with the lowest Score. Ties break by (A, B)
// lexical order, so the result is reproducible. Returns false when the
// matrix has fewer than two arrays.
func (m *DistanceMatrix) Closest() (Record, bool) {
	if len(m.ids) < 2 {
		return Record{}, false
	}
	best := m.cells[0][1]
	for i := range m.ids {
		for j := i + 1; j < len(m.ids); j++ {
			if m.cells[i][j].Score < best.Score {
				best = m.cells[i][j]
			}
		}
	}
	return best, true
}
