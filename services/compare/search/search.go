// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package search finds maximum-parsimony topologies over an array set.
//
// Every candidate topology is scored by the same ancestral
// reconstruction oracle, so costs are comparable across the whole
// search. Small leaf sets are enumerated exhaustively; larger sets
// require an explicit opt-in to heuristic search (stepwise taxon
// addition seeded by pairwise distances, refined by
// nearest-neighbor-interchange hill climbing). The result states
// whether it is an exhaustive optimum or a heuristic local optimum.
package search

import (
	"context"
	"errors"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/pairwise"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/reconstruct"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/topology"
)

// scoreBatchSize is how many enumerated topologies are scored per
// parallel batch. Batches keep memory flat while the reduction stays
// in enumeration order.
const scoreBatchSize = 256

// ====================================================================
// Result
// ====================================================================

// Result is the outcome of one topology search.
type Result struct {
	// Best is the minimum-cost topology found, in canonical rooted
	// form. Among co-optimal topologies it is the one with the
	// smallest canonical serialization.
	Best *topology.Topology

	// Cost is Best's total reconstruction cost.
	Cost float64

	// Assignment is the ancestral reconstruction on Best.
	Assignment *reconstruct.Assignment

	// Ties lists all co-optimal topologies found, Best included,
	// ordered by canonical serialization and capped at
	// Options.MaxTies.
	Ties []*topology.Topology

	// Exhaustive reports whether every topology over the leaf set was
	// scored, making Best a global optimum rather than a heuristic
	// local one.
	Exhaustive bool

	// BudgetExhausted reports that MaxEvaluations or Timeout stopped
	// the search before it finished on its own.
	BudgetExhausted bool

	// Evaluations is the number of topologies scored.
	Evaluations int
}

// ====================================================================
// Entry point
// ====================================================================

// Search finds the minimum-cost topology for the arrays under the
// given cost model.
//
// Zero arrays fail with EmptyInputError. One or two arrays admit a
// single topology, returned directly with its reconstruction. Leaf
// counts up to Options.MaxExhaustiveLeaves are searched exhaustively;
// beyond that the caller must opt into heuristic search or receive
// SearchSpaceTooLargeError.
func Search(ctx context.Context, arrays map[string]spacer.Array, model pairwise.CostModel, opts Options) (*Result, error) {
	opts.Validate()
	model.Validate()
	if len(arrays) == 0 {
		return nil, &EmptyInputError{}
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	ids := make([]string, 0, len(arrays))
	for id := range arrays {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if len(ids) <= 2 {
		return trivial(ids, arrays, model)
	}
	if len(ids) <= opts.MaxExhaustiveLeaves {
		return exhaustive(ctx, ids, arrays, model, opts)
	}
	if !opts.Heuristic {
		return nil, &SearchSpaceTooLargeError{
			Leaves:     len(ids),
			Ceiling:    opts.MaxExhaustiveLeaves,
			Topologies: topology.CountUnrooted(len(ids)),
		}
	}
	return hillClimb(ctx, ids, arrays, model, opts)
}

// trivial handles one or two arrays: a single topology exists, so the
// search degenerates to one reconstruction.
func trivial(ids []string, arrays map[string]spacer.Array, model pairwise.CostModel) (*Result, error) {
	var topo *topology.Topology
	if len(ids) == 1 {
		topo = &topology.Topology{Nodes: []topology.Node{
			{Parent: topology.NoParent, Leaf: ids[0]},
		}}
	} else {
		topo = topology.NewStar(ids)
	}
	asg, err := reconstruct.Reconstruct(topo, arrays, model)
	if err != nil {
		return nil, err
	}
	return &Result{
		Best:        topo,
		Cost:        asg.TotalCost,
		Assignment:  asg,
		Ties:        []*topology.Topology{topo},
		Exhaustive:  true,
		Evaluations: 1,
	}, nil
}

// ====================================================================
// Exhaustive enumeration
// ====================================================================

func exhaustive(ctx context.Context, ids []string, arrays map[string]spacer.Array, model pairwise.CostModel, opts Options) (*Result, error) {
	ties := &tieSet{limit: opts.MaxTies}
	evaluations := 0
	budgetExhausted := false
	batch := make([]*topology.Topology, 0, scoreBatchSize)

	var scoreErr error
	flush := func() bool {
		if len(batch) == 0 {
			return true
		}
		evals, err := scoreAll(ctx, batch, arrays, model, opts.Workers)
		if err != nil {
			scoreErr = err
			return false
		}
		for _, ev := range evals {
			ties.add(ev)
		}
		batch = batch[:0]
		return true
	}

	topology.Enumerate(ids, func(t *topology.Topology) bool {
		if ctx.Err() != nil || evaluations >= opts.MaxEvaluations {
			budgetExhausted = true
			return false
		}
		batch = append(batch, t)
		evaluations++
		if len(batch) < scoreBatchSize {
			return true
		}
		return flush()
	})
	if scoreErr == nil && ctx.Err() == nil {
		flush()
	}
	if scoreErr != nil {
		if !budgetStop(scoreErr) {
			return nil, scoreErr
		}
		budgetExhausted = true
	}
	if !ties.found {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, scoreErr
	}
	return ties.result(evaluations, !budgetExhausted, budgetExhausted), nil
}

// ====================================================================
// Heuristic search
// ====================================================================

func hillClimb(ctx context.Context, ids []string, arrays map[string]spacer.Array, model pairwise.CostModel, opts Options) (*Result, error) {
	matrix, err := pairwise.Matrix(ctx, arrays, model, opts.Workers)
	if err != nil {
		return nil, err
	}
	order := additionOrder(matrix, ids)

	ties := &tieSet{limit: opts.MaxTies}
	evaluations := 0

	// Stepwise addition: grow from the closest pair, inserting each
	// further taxon at its cheapest placement. This phase always
	// completes so the leaf set stays intact; only refinement below
	// honors the evaluation budget.
	current := topology.NewStar(order[:2])
	var currentCost float64
	for next, name := range order[2:] {
		candidates := make([]*topology.Topology, 0, len(current.Nodes)-1)
		for c := 1; c < len(current.Nodes); c++ {
			cand := current.Clone()
			cand.InsertLeaf(c, name)
			candidates = append(candidates, cand)
		}
		evals, err := scoreAll(ctx, candidates, arrays, model, opts.Workers)
		if err != nil {
			return nil, err
		}
		evaluations += len(candidates)

		best := 0
		for i := 1; i < len(evals); i++ {
			if better(evals[i], evals[best]) {
				best = i
			}
		}
		current = evals[best].topo
		currentCost = evals[best].asg.TotalCost

		// Only full-leaf-set topologies are candidates for the result.
		if next == len(order[2:])-1 {
			for _, ev := range evals {
				ties.add(ev)
			}
		}
	}

	// NNI hill climb until no neighbor improves or the budget runs out.
	budgetExhausted := false
	for {
		if ctx.Err() != nil {
			budgetExhausted = true
			break
		}
		var neighbors []*topology.Topology
		current.NNI(func(nb *topology.Topology) bool {
			neighbors = append(neighbors, nb)
			return true
		})
		if evaluations+len(neighbors) > opts.MaxEvaluations {
			neighbors = neighbors[:max(0, opts.MaxEvaluations-evaluations)]
			budgetExhausted = true
		}
		if len(neighbors) == 0 {
			break
		}
		evals, err := scoreAll(ctx, neighbors, arrays, model, opts.Workers)
		if err != nil {
			if budgetStop(err) {
				budgetExhausted = true
				break
			}
			return nil, err
		}
		evaluations += len(neighbors)

		improved := false
		var bestNb evaluation
		for _, ev := range evals {
			ties.add(ev)
			if ev.asg.TotalCost < currentCost && (!improved || better(ev, bestNb)) {
				bestNb, improved = ev, true
			}
		}
		if !improved || budgetExhausted {
			break
		}
		current = bestNb.topo
		currentCost = bestNb.asg.TotalCost
	}

	return ties.result(evaluations, false, budgetExhausted), nil
}

// additionOrder fixes the taxon insertion order for stepwise seeding:
// the globally closest pair first, then repeatedly the unplaced array
// closest to any placed one. Ties break lexically.
func additionOrder(m *pairwise.DistanceMatrix, ids []string) []string {
	closest, _ := m.Closest()
	order := []string{closest.A, closest.B}
	placed := map[string]bool{closest.A: true, closest.B: true}

	for len(order) < len(ids) {
		next := ""
		nextScore := math.Inf(1)
		for _, id := range ids {
			if placed[id] {
				continue
			}
			nearest := math.Inf(1)
			for _, p := range order {
				if rec, ok := m.Record(id, p); ok && rec.Score < nearest {
					nearest = rec.Score
				}
			}
			if nearest < nextScore || (nearest == nextScore && id < next) {
				next, nextScore = id, nearest
			}
		}
		order = append(order, next)
		placed[next] = true
	}
	return order
}

// ====================================================================
// Scoring
// ====================================================================

// evaluation is one scored candidate: the canonical rerooted topology
// and its reconstruction.
type evaluation struct {
	topo *topology.Topology
	asg  *reconstruct.Assignment
}

// scoreAll reconstructs every candidate concurrently. Results are
// returned in candidate order so reductions stay deterministic.
func scoreAll(ctx context.Context, candidates []*topology.Topology, arrays map[string]spacer.Array, model pairwise.CostModel, workers int) ([]evaluation, error) {
	out := make([]evaluation, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range candidates {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rerooted, asg, err := reconstruct.ReconstructUnrooted(candidates[i], arrays, model)
			if err != nil {
				return err
			}
			out[i] = evaluation{topo: rerooted, asg: asg}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// better orders evaluations by cost, then canonical serialization.
func better(a, b evaluation) bool {
	if a.asg.TotalCost != b.asg.TotalCost {
		return a.asg.TotalCost < b.asg.TotalCost
	}
	return a.topo.Canonical() < b.topo.Canonical()
}

// budgetStop reports whether an error is the search budget firing
// rather than a real failure.
func budgetStop(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// ====================================================================
// Tie tracking
// ====================================================================

// tieSet keeps the minimum-cost evaluations seen so far, ordered by
// canonical serialization and capped at limit. The retained set does
// not depend on evaluation order: a new tie displaces the canonically
// largest entry.
type tieSet struct {
	limit   int
	found   bool
	cost    float64
	entries []tieEntry
}

type tieEntry struct {
	canon string
	eval  evaluation
}

func (s *tieSet) add(ev evaluation) {
	cost := ev.asg.TotalCost
	if s.found && cost > s.cost {
		return
	}
	entry := tieEntry{canon: ev.topo.Canonical(), eval: ev}
	if !s.found || cost < s.cost {
		s.found = true
		s.cost = cost
		s.entries = append(s.entries[:0], entry)
		return
	}
	i := sort.Search(len(s.entries), func(k int) bool {
		return s.entries[k].canon >= entry.canon
	})
	if i < len(s.entries) && s.entries[i].canon == entry.canon {
		return
	}
	if i >= s.limit {
		return
	}
	s.entries = append(s.entries, tieEntry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = entry
	if len(s.entries) > s.limit {
		s.entries = s.entries[:s.limit]
	}
}

func (s *tieSet) result(evaluations int, exhaustive, budgetExhausted bool) *Result {
	ties := make([]*topology.Topology, len(s.entries))
	for i, e := range s.entries {
		ties[i] = e.eval.topo
	}
	return &Result{
		Best:            s.entries[0].eval.topo,
		Cost:            s.cost,
		Assignment:      s.entries[0].eval.asg,
		Ties:            ties,
		Exhaustive:      exhaustive,
		BudgetExhausted: budgetExhausted,
		Evaluations:     evaluations,
	}
}
