// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package analysis dispatches one analysis invocation to the right
// inference pipeline.
//
// Each Mode maps to a Runner over the same Request/Result shapes, so
// callers hold one interface value regardless of mode. Every run gets
// a UUID for correlating log records with exported artifacts.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cganote/CRISPR-comparison-toolkit/pkg/logging"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/network"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/pairwise"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/reconstruct"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/search"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/topology"
)

// ====================================================================
// Request / Result
// ====================================================================

// Request carries everything one analysis invocation needs. Arrays
// must already be normalized into a shared alphabet.
type Request struct {
	// Arrays is the normalized array set keyed by array ID.
	Arrays map[string]spacer.Array

	// Model fixes the event weights for the whole run.
	Model pairwise.CostModel

	// Topology is the user-supplied tree for ModeConstrain; ignored by
	// the other modes.
	Topology *topology.Topology

	// Search configures ModeSearch; ignored by the other modes.
	Search search.Options

	// MinShared is the edge threshold for ModeNetwork.
	MinShared int

	// Workers bounds matrix parallelism; <= 0 picks the default.
	Workers int
}

// Result is the artifact bundle of one run. Only the fields the mode
// produces are set.
type Result struct {
	// RunID uniquely identifies this invocation across logs and
	// exported files.
	RunID string

	// Mode is the capability that produced the result.
	Mode Mode

	// Matrix is set by ModeDistance and ModeNetwork.
	Matrix *pairwise.DistanceMatrix

	// Graph is set by ModeNetwork.
	Graph *network.Graph

	// Topology and Assignment are set by ModeConstrain and ModeSearch.
	Topology   *topology.Topology
	Assignment *reconstruct.Assignment

	// Search is set by ModeSearch.
	Search *search.Result
}

// Runner executes one analysis mode.
type Runner interface {
	Run(ctx context.Context, req *Request) (*Result, error)
}

// New returns the Runner for a mode. A nil logger selects the default.
func New(mode Mode, log *logging.Logger) (Runner, error) {
	if log == nil {
		log = logging.Default()
	}
	base := runner{mode: mode, log: log}
	switch mode {
	case ModeDistance:
		return &distanceRunner{runner: base}, nil
	case ModeNetwork:
		return &networkRunner{runner: base}, nil
	case ModeConstrain:
		return &constrainRunner{runner: base}, nil
	case ModeSearch:
		return &searchRunner{runner: base}, nil
	default:
		return nil, ErrUnknownMode
	}
}

// ====================================================================
// Runners
// ====================================================================

type runner struct {
	mode Mode
	log  *logging.Logger
}

// begin validates the shared request invariants and opens the run.
func (r *runner) begin(req *Request) (*Result, error) {
	if len(req.Arrays) == 0 {
		return nil, &search.EmptyInputError{}
	}
	req.Model.Validate()
	res := &Result{RunID: uuid.NewString(), Mode: r.mode}
	r.log.Info("analysis started",
		"mode", r.mode.String(), "run_id", res.RunID, "arrays", len(req.Arrays))
	return res, nil
}

func (r *runner) finish(res *Result, started time.Time) {
	r.log.Info("analysis finished",
		"mode", r.mode.String(), "run_id", res.RunID,
		"duration", time.Since(started).String())
}

type distanceRunner struct{ runner }

func (r *distanceRunner) Run(ctx context.Context, req *Request) (*Result, error) {
	started := time.Now()
	res, err := r.begin(req)
	if err != nil {
		return nil, err
	}
	res.Matrix, err = pairwise.Matrix(ctx, req.Arrays, req.Model, req.Workers)
	if err != nil {
		return nil, err
	}
	r.finish(res, started)
	return res, nil
}

type networkRunner struct{ runner }

func (r *networkRunner) Run(ctx context.Context, req *Request) (*Result, error) {
	started := time.Now()
	res, err := r.begin(req)
	if err != nil {
		return nil, err
	}
	res.Matrix, err = pairwise.Matrix(ctx, req.Arrays, req.Model, req.Workers)
	if err != nil {
		return nil, err
	}
	res.Graph = network.Build(res.Matrix, req.MinShared)
	r.log.Info("sharing graph built",
		"run_id", res.RunID, "min_shared", req.MinShared,
		"edges", len(res.Graph.Edges()), "components", len(res.Graph.Components()))
	r.finish(res, started)
	return res, nil
}

type constrainRunner struct{ runner }

func (r *constrainRunner) Run(ctx context.Context, req *Request) (*Result, error) {
	started := time.Now()
	res, err := r.begin(req)
	if err != nil {
		return nil, err
	}
	if req.Topology == nil {
		return nil, ErrMissingTopology
	}
	res.Topology = req.Topology
	res.Assignment, err = reconstruct.Reconstruct(req.Topology, req.Arrays, req.Model)
	if err != nil {
		return nil, err
	}
	r.log.Info("constrained reconstruction done",
		"run_id", res.RunID, "total_cost", res.Assignment.TotalCost)
	r.finish(res, started)
	return res, nil
}

type searchRunner struct{ runner }

func (r *searchRunner) Run(ctx context.Context, req *Request) (*Result, error) {
	started := time.Now()
	res, err := r.begin(req)
	if err != nil {
		return nil, err
	}
	opts := req.Search
	if opts.Workers <= 0 {
		opts.Workers = req.Workers
	}
	res.Search, err = search.Search(ctx, req.Arrays, req.Model, opts)
	if err != nil {
		return nil, err
	}
	res.Topology = res.Search.Best
	res.Assignment = res.Search.Assignment
	r.log.Info("topology search done",
		"run_id", res.RunID, "cost", res.Search.Cost,
		"evaluations", res.Search.Evaluations,
		"exhaustive", res.Search.Exhaustive,
		"ties", len(res.Search.Ties))
	r.finish(res, started)
	return res, nil
}
