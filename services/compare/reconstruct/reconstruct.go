// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package reconstruct infers ancestral array states on a topology.
//
// This is generalized parsimony specialized for the array-evolution
// event model: internal node states are whole ordered spacer sequences
// rather than single characters, so instead of a Sankoff table over a
// small state alphabet, each internal node proposes a small candidate
// set derived from the union/intersection structure of its children
// and keeps the candidate with the lowest summed edge cost.
//
// The candidate set always contains the order-preserving union of the
// children, so a spacer present in both children is never dropped for
// free: dropping it would force an independent acquisition in each
// child, which costs at least as much as the single loss the union
// candidate charges.
package reconstruct

import (
	"fmt"
	"slices"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/pairwise"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/topology"
)

// Assignment is the result of one reconstruction: a state for every
// node and the inferred events on every edge.
type Assignment struct {
	// States maps every arena node index to its spacer sequence. Leaf
	// states equal the input arrays; internal states are hypothetical
	// ancestors.
	States map[int][]spacer.SpacerID

	// Events maps a child node index to the events inferred on the
	// edge from its parent. The root has no entry.
	Events map[int][]pairwise.Event

	// TotalCost is the summed weighted event cost over all edges.
	TotalCost float64
}

// Reconstruct computes a minimum-cost ancestral state assignment for
// the topology given the observed leaf arrays.
//
// Fails with topology.IncompleteTopologyError when the topology's
// leaves and the array set differ, and with ErrAsymmetricModel when the
// model's event distance is direction-dependent (total cost must not
// depend on the arbitrary rooting of an unrooted topology).
func Reconstruct(topo *topology.Topology, leaves map[string]spacer.Array, model pairwise.CostModel) (*Assignment, error) {
	model.Validate()
	if !model.Symmetric() {
		return nil, fmt.Errorf("%w: acquisition=%v loss=%v ectopic=%v",
			ErrAsymmetricModel,
			model.AcquisitionWeight, model.LossWeight, model.EctopicWeight)
	}

	ids := make([]string, 0, len(leaves))
	for id := range leaves {
		ids = append(ids, id)
	}
	if err := topo.CheckLeaves(ids); err != nil {
		return nil, err
	}

	asg := &Assignment{
		States: make(map[int][]spacer.SpacerID, len(topo.Nodes)),
		Events: make(map[int][]pairwise.Event),
	}

	topo.PostOrder(func(idx int) {
		node := topo.Nodes[idx]
		if node.IsLeaf() {
			asg.States[idx] = slices.Clone(leaves[node.Leaf].Spacers)
			return
		}
		children := make([][]spacer.SpacerID, len(node.Children))
		for i, c := range node.Children {
			children[i] = asg.States[c]
		}
		asg.States[idx] = bestCandidate(children, model)
	})

	for _, edge := range topo.Edges() {
		parent, child := edge[0], edge[1]
		events := pairwise.Events(
			asState(asg.States[parent]), asState(asg.States[child]))
		asg.Events[child] = events
		asg.TotalCost += model.Cost(events)
	}
	return asg, nil
}

// ReconstructUnrooted reconstructs ancestral states for an unrooted
// topology. The topology is first rerooted into its canonical form, so
// every rooting of the same unrooted tree yields the same arena and
// therefore the same total cost. The rerooted topology is returned
// alongside the assignment, whose node indices refer to it.
func ReconstructUnrooted(topo *topology.Topology, leaves map[string]spacer.Array, model pairwise.CostModel) (*topology.Topology, *Assignment, error) {
	rerooted := topo.RerootCanonical()
	asg, err := Reconstruct(rerooted, leaves, model)
	if err != nil {
		return nil, nil, err
	}
	return rerooted, asg, nil
}

// bestCandidate proposes ancestral states from the children's
// reconstructed states and keeps the cheapest.
//
// Ties are resolved reproducibly: the state equal to the most children
// wins, then the state with the fewest spacers, then the smallest
// sequence in SpacerID order.
func bestCandidate(children [][]spacer.SpacerID, model pairwise.CostModel) []spacer.SpacerID {
	candidates := candidateStates(children)

	best := candidates[0]
	bestCost := candidateCost(best, children, model)
	for _, cand := range candidates[1:] {
		cost := candidateCost(cand, children, model)
		if cost < bestCost {
			best, bestCost = cand, cost
			continue
		}
		if cost > bestCost {
			continue
		}
		switch {
		case childMatches(cand, children) > childMatches(best, children):
			best = cand
		case childMatches(cand, children) < childMatches(best, children):
		case len(cand) < len(best):
			best = cand
		case len(cand) > len(best):
		case slices.Compare(cand, best) < 0:
			best = cand
		}
	}
	return slices.Clone(best)
}

// candidateStates builds the deduplicated candidate set: the
// progressive order-preserving union of all children, the ordered
// intersection, and each child's own state.
func candidateStates(children [][]spacer.SpacerID) [][]spacer.SpacerID {
	var candidates [][]spacer.SpacerID
	seen := map[string]bool{}
	add := func(s []spacer.SpacerID) {
		key := fmt.Sprint(s)
		if !seen[key] {
			seen[key] = true
			candidates = append(candidates, s)
		}
	}

	union := slices.Clone(children[0])
	for _, c := range children[1:] {
		union = unionMerge(union, c)
	}
	add(union)
	add(orderedIntersection(children))
	for _, c := range children {
		add(slices.Clone(c))
	}
	return candidates
}

func candidateCost(cand []spacer.SpacerID, children [][]spacer.SpacerID, model pairwise.CostModel) float64 {
	cost := 0.0
	for _, c := range children {
		cost += pairwise.EventCost(asState(cand), asState(c), model)
	}
	return cost
}

func childMatches(cand []spacer.SpacerID, children [][]spacer.SpacerID) int {
	n := 0
	for _, c := range children {
		if slices.Equal(cand, c) {
			n++
		}
	}
	return n
}

// unionMerge interleaves two spacer sequences into the smallest
// sequence containing both as subsequences wherever their shared
// spacers align consistently. Conflicting columns keep a's spacer
// first.
func unionMerge(a, b []spacer.SpacerID) []spacer.SpacerID {
	alignedA, alignedB := pairwise.Align(a, b)
	merged := make([]spacer.SpacerID, 0, len(alignedA))
	for i := range alignedA {
		switch {
		case alignedA[i] == alignedB[i]:
			merged = append(merged, alignedA[i])
		case alignedA[i] == pairwise.Gap:
			merged = append(merged, alignedB[i])
		case alignedB[i] == pairwise.Gap:
			merged = append(merged, alignedA[i])
		default:
			merged = append(merged, alignedA[i], alignedB[i])
		}
	}
	return merged
}

// orderedIntersection returns the spacers present in every child, in
// the first child's order.
func orderedIntersection(children [][]spacer.SpacerID) []spacer.SpacerID {
	var out []spacer.SpacerID
	for _, id := range children[0] {
		inAll := true
		for _, c := range children[1:] {
			if !slices.Contains(c, id) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, id)
		}
	}
	return out
}

// asState wraps a bare spacer sequence in an anonymous Array for the
// pairwise functions, which operate on Array values.
func asState(ids []spacer.SpacerID) spacer.Array {
	return spacer.Array{Spacers: ids}
}
