// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package search

import (
	"runtime"
	"time"
)

// Default search limits.
const (
	// DefaultMaxExhaustiveLeaves is the largest leaf count searched
	// exhaustively: 9 leaves admit 135135 unrooted topologies, ten
	// already admit over two million.
	DefaultMaxExhaustiveLeaves = 9

	// DefaultMaxEvaluations bounds the number of scored topologies.
	DefaultMaxEvaluations = 500000

	// DefaultMaxTies caps how many co-optimal topologies are reported.
	DefaultMaxTies = 5

	// maxSearchWorkers caps scoring parallelism; the work is CPU-bound.
	maxSearchWorkers = 8
)

// Options configures a topology search. The zero value selects all
// defaults via Validate.
type Options struct {
	// MaxExhaustiveLeaves is the leaf-count ceiling for exhaustive
	// enumeration. Above it the search requires Heuristic.
	MaxExhaustiveLeaves int

	// MaxEvaluations bounds the total number of topologies scored. The
	// bound applies to exhaustive enumeration and to hill-climb
	// refinement; stepwise seeding always completes so the leaf set
	// stays intact.
	MaxEvaluations int

	// MaxTies caps the co-optimal topologies retained in the result.
	MaxTies int

	// Timeout bounds wall-clock search time. Zero means no limit.
	// Hitting the timeout stops the search and reports the best
	// topology found so far with BudgetExhausted set.
	Timeout time.Duration

	// Heuristic permits hill-climb search beyond MaxExhaustiveLeaves.
	Heuristic bool

	// Workers is the scoring parallelism; <= 0 selects
	// min(GOMAXPROCS, 8).
	Workers int
}

// Validate fills unset fields with defaults.
func (o *Options) Validate() {
	if o.MaxExhaustiveLeaves <= 0 {
		o.MaxExhaustiveLeaves = DefaultMaxExhaustiveLeaves
	}
	if o.MaxEvaluations <= 0 {
		o.MaxEvaluations = DefaultMaxEvaluations
	}
	if o.MaxTies <= 0 {
		o.MaxTies = DefaultMaxTies
	}
	if o.Workers <= 0 {
		o.Workers = min(runtime.GOMAXPROCS(0), maxSearchWorkers)
	}
}
