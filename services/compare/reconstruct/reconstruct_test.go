// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package reconstruct

import (
	"errors"
	"slices"
	"testing"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/pairwise"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/topology"
)

func leafSet(arrays ...spacer.Array) map[string]spacer.Array {
	out := make(map[string]spacer.Array, len(arrays))
	for _, a := range arrays {
		out[a.ID] = a
	}
	return out
}

func arr(id string, ids ...spacer.SpacerID) spacer.Array {
	return spacer.Array{ID: id, Spacers: ids}
}

func TestReconstruct_Scenario(t *testing.T) {
	// X=[s1,s2,s3], Y=[s1,s2], Z=[s4,s2,s3]: the only unrooted 3-leaf
	// topology. Hand-computed optimum: ancestor [s1,s2,s3]; Y loses s3
	// (1 event), Z swaps s1 for s4 at the leader (2 events). Total 3.
	topo := topology.NewStar([]string{"X", "Y", "Z"})
	leaves := leafSet(
		arr("X", 1, 2, 3),
		arr("Y", 1, 2),
		arr("Z", 4, 2, 3),
	)

	asg, err := Reconstruct(topo, leaves, pairwise.DefaultCostModel())
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	if asg.TotalCost != 3 {
		t.Errorf("TotalCost = %v, want 3", asg.TotalCost)
	}
	if got := asg.States[0]; !slices.Equal(got, []spacer.SpacerID{1, 2, 3}) {
		t.Errorf("ancestral state = %v, want [1 2 3]", got)
	}
}

func TestReconstruct_LeafStatesPreserved(t *testing.T) {
	topo := topology.NewStar([]string{"X", "Y", "Z"})
	leaves := leafSet(arr("X", 1, 2), arr("Y", 3), arr("Z", 1))

	asg, err := Reconstruct(topo, leaves, pairwise.DefaultCostModel())
	if err != nil {
		t.Fatal(err)
	}
	for idx, node := range topo.Nodes {
		if !node.IsLeaf() {
			continue
		}
		if !slices.Equal(asg.States[idx], leaves[node.Leaf].Spacers) {
			t.Errorf("leaf %s state = %v, want %v",
				node.Leaf, asg.States[idx], leaves[node.Leaf].Spacers)
		}
	}
}

func TestReconstruct_CostNonNegative(t *testing.T) {
	topo := topology.NewStar([]string{"a", "b"})
	asg, err := Reconstruct(topo, leafSet(arr("a", 1), arr("b", 2)),
		pairwise.DefaultCostModel())
	if err != nil {
		t.Fatal(err)
	}
	if asg.TotalCost < 0 {
		t.Errorf("TotalCost = %v", asg.TotalCost)
	}
}

func TestReconstruct_RerootingInvariant(t *testing.T) {
	leaves := leafSet(
		arr("A", 1, 2, 3),
		arr("B", 1, 2),
		arr("C", 4, 2, 3),
		arr("D", 2, 3),
	)

	// Two rootings of the same unrooted topology AB|CD.
	rootedMiddle := &topology.Topology{Nodes: []topology.Node{
		{Parent: topology.NoParent, Children: []int{1, 4}},
		{Parent: 0, Children: []int{2, 3}},
		{Parent: 1, Leaf: "A"},
		{Parent: 1, Leaf: "B"},
		{Parent: 0, Children: []int{5, 6}},
		{Parent: 4, Leaf: "C"},
		{Parent: 4, Leaf: "D"},
	}}
	rootedAtAB := &topology.Topology{Nodes: []topology.Node{
		{Parent: topology.NoParent, Children: []int{1, 2, 3}},
		{Parent: 0, Leaf: "A"},
		{Parent: 0, Leaf: "B"},
		{Parent: 0, Children: []int{4, 5}},
		{Parent: 3, Leaf: "C"},
		{Parent: 3, Leaf: "D"},
	}}

	model := pairwise.DefaultCostModel()
	firstTopo, first, err := ReconstructUnrooted(rootedMiddle, leaves, model)
	if err != nil {
		t.Fatal(err)
	}
	secondTopo, second, err := ReconstructUnrooted(rootedAtAB, leaves, model)
	if err != nil {
		t.Fatal(err)
	}
	if first.TotalCost != second.TotalCost {
		t.Errorf("rerooting changed cost: %v vs %v", first.TotalCost, second.TotalCost)
	}
	if firstTopo.Canonical() != secondTopo.Canonical() {
		t.Errorf("canonical rootings differ: %q vs %q",
			firstTopo.Canonical(), secondTopo.Canonical())
	}
	for idx := range firstTopo.Nodes {
		if !slices.Equal(first.States[idx], second.States[idx]) {
			t.Errorf("node %d states differ: %v vs %v",
				idx, first.States[idx], second.States[idx])
		}
	}
}

func TestReconstruct_DirectionalityInvariant(t *testing.T) {
	// Spacer 9 is present in both children; the chosen ancestor must
	// retain it (dropping it would cost two independent acquisitions).
	topo := topology.NewStar([]string{"L", "R"})
	leaves := leafSet(arr("L", 9, 1), arr("R", 9, 2))

	asg, err := Reconstruct(topo, leaves, pairwise.DefaultCostModel())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(asg.States[0], 9) {
		t.Errorf("ancestor %v dropped a spacer shared by both children", asg.States[0])
	}
}

func TestReconstruct_EventsPerEdge(t *testing.T) {
	topo := topology.NewStar([]string{"X", "Y", "Z"})
	leaves := leafSet(arr("X", 1, 2, 3), arr("Y", 1, 2), arr("Z", 4, 2, 3))

	asg, err := Reconstruct(topo, leaves, pairwise.DefaultCostModel())
	if err != nil {
		t.Fatal(err)
	}
	// Locate Y's node index and check its single loss event.
	for idx, node := range topo.Nodes {
		if node.Leaf != "Y" {
			continue
		}
		events := asg.Events[idx]
		if len(events) != 1 || events[0].Type != pairwise.EventLoss {
			t.Errorf("edge to Y: events = %v, want one loss", events)
		}
		if !slices.Equal(events[0].Spacers, []spacer.SpacerID{3}) {
			t.Errorf("edge to Y: lost %v, want [3]", events[0].Spacers)
		}
	}
	// The root has no incoming edge.
	if _, ok := asg.Events[0]; ok {
		t.Error("root node has an event list")
	}
}

func TestReconstruct_LeafMismatch(t *testing.T) {
	topo := topology.NewStar([]string{"X", "Y"})
	leaves := leafSet(arr("X", 1), arr("Y", 2), arr("Z", 3))

	_, err := Reconstruct(topo, leaves, pairwise.DefaultCostModel())
	if err == nil {
		t.Fatal("expected IncompleteTopologyError")
	}
	if !errors.Is(err, topology.ErrIncompleteTopology) {
		t.Errorf("error %v does not wrap ErrIncompleteTopology", err)
	}
	var typed *topology.IncompleteTopologyError
	if !errors.As(err, &typed) {
		t.Fatalf("error %T is not IncompleteTopologyError", err)
	}
	if !slices.Equal(typed.Missing, []string{"Z"}) {
		t.Errorf("Missing = %v, want [Z]", typed.Missing)
	}
}

func TestReconstruct_AsymmetricModelRejected(t *testing.T) {
	topo := topology.NewStar([]string{"X", "Y"})
	leaves := leafSet(arr("X", 1), arr("Y", 2))
	model := pairwise.CostModel{
		AcquisitionWeight: 1,
		LossWeight:        3,
		EctopicWeight:     1,
		OrderPenalty:      0.5,
	}

	_, err := Reconstruct(topo, leaves, model)
	if !errors.Is(err, ErrAsymmetricModel) {
		t.Errorf("error = %v, want ErrAsymmetricModel", err)
	}
}
