// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package topology

import (
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestRerootCanonical_SameUnrootedTree(t *testing.T) {
	// Two rootings of the unrooted quartet AB|CD.
	first, err := Parse(strings.NewReader("((A,B),(C,D));"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Parse(strings.NewReader("(A,B,(C,D));"))
	if err != nil {
		t.Fatal(err)
	}

	a := first.RerootCanonical()
	b := second.RerootCanonical()
	if !reflect.DeepEqual(a.Nodes, b.Nodes) {
		t.Errorf("canonical arenas differ:\n%v\n%v", a.Nodes, b.Nodes)
	}
	if got, want := a.Canonical(), "((C,D),A,B);"; got != want {
		t.Errorf("Canonical() = %q, want %q", got, want)
	}
	if got := a.Leaves(); !slices.Equal(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("Leaves() = %v", got)
	}
}

func TestRerootCanonical_SuppressesRootOfDegreeTwo(t *testing.T) {
	rooted, err := Parse(strings.NewReader("((A,B),(C,D));"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rooted.Nodes) != 7 {
		t.Fatalf("parsed arena has %d nodes, want 7", len(rooted.Nodes))
	}

	canon := rooted.RerootCanonical()
	// The binary root is a rooting artifact; the unrooted quartet has
	// two internal nodes and four leaves.
	if len(canon.Nodes) != 6 {
		t.Errorf("canonical arena has %d nodes, want 6", len(canon.Nodes))
	}
	for idx, n := range canon.Nodes {
		if !n.IsLeaf() && len(n.Children) < 2 {
			t.Errorf("node %d has %d children", idx, len(n.Children))
		}
	}
}

func TestRerootCanonical_RootAdjacentToSmallestLeaf(t *testing.T) {
	topo, err := Parse(strings.NewReader("((C,D),(B,(A,E)));"))
	if err != nil {
		t.Fatal(err)
	}
	canon := topo.RerootCanonical()

	// "A" must be a direct child of the root.
	found := false
	for _, c := range canon.Nodes[0].Children {
		if canon.Nodes[c].Leaf == "A" {
			found = true
		}
	}
	if !found {
		t.Errorf("smallest leaf not adjacent to root: %v", canon.Nodes)
	}
}

func TestRerootCanonical_TinyTrees(t *testing.T) {
	two := NewStar([]string{"B", "A"})
	canon := two.RerootCanonical()
	if got := canon.Leaves(); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("Leaves() = %v", got)
	}
	if len(canon.Nodes) != 3 {
		t.Errorf("two-leaf canonical arena has %d nodes, want 3", len(canon.Nodes))
	}
}

func TestRerootCanonical_Idempotent(t *testing.T) {
	topo, err := Parse(strings.NewReader("((A,B),(C,(D,E)));"))
	if err != nil {
		t.Fatal(err)
	}
	once := topo.RerootCanonical()
	twice := once.RerootCanonical()
	if !reflect.DeepEqual(once.Nodes, twice.Nodes) {
		t.Errorf("RerootCanonical not idempotent:\n%v\n%v", once.Nodes, twice.Nodes)
	}
}
