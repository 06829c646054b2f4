// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package topology represents tree topologies over array identifiers.
//
// Trees are stored as an arena of nodes indexed by position, with
// explicit parent/children index lists. There are no shared mutable
// node objects and no pointer cycles; cloning a topology is a flat
// copy of the arena.
//
// An unrooted topology is represented rooted at an internal node,
// usually with a trifurcating root. Rooting is a presentation choice:
// the reconstruction cost model is symmetric, so any rooting of the
// same unrooted tree scores the same.
//
// # Thread Safety
//
// Topology values are plain data. Distinct clones can be mutated from
// distinct goroutines; a single value must not be mutated concurrently.
package topology

import (
	"sort"
	"strings"
)

// NoParent marks the root's parent index.
const NoParent = -1

// Node is one arena slot: a leaf (Leaf != "") or an unlabeled internal
// placeholder.
type Node struct {
	// Parent is the arena index of the parent, or NoParent for root.
	Parent int

	// Children holds arena indices of child nodes, in insertion order.
	Children []int

	// Leaf is the array identifier for leaf nodes, "" for internal.
	Leaf string
}

// IsLeaf reports whether the node is a labeled tip.
func (n Node) IsLeaf() bool { return n.Leaf != "" }

// Topology is a rooted tree arena. Nodes[0] is always the root.
type Topology struct {
	Nodes []Node
}

// NewStar builds the minimal topology over the given leaf names: a
// single root with every leaf attached. For three leaves this is the
// only unrooted topology. Names are attached in the given order.
func NewStar(leaves []string) *Topology {
	t := &Topology{Nodes: []Node{{Parent: NoParent}}}
	for _, name := range leaves {
		t.Nodes = append(t.Nodes, Node{Parent: 0, Leaf: name})
		t.Nodes[0].Children = append(t.Nodes[0].Children, len(t.Nodes)-1)
	}
	return t
}

// Clone returns an independent deep copy.
func (t *Topology) Clone() *Topology {
	nodes := make([]Node, len(t.Nodes))
	for i, n := range t.Nodes {
		children := make([]int, len(n.Children))
		copy(children, n.Children)
		nodes[i] = Node{Parent: n.Parent, Children: children, Leaf: n.Leaf}
	}
	return &Topology{Nodes: nodes}
}

// Leaves returns all leaf labels in lexical order.
func (t *Topology) Leaves() []string {
	var out []string
	for _, n := range t.Nodes {
		if n.IsLeaf() {
			out = append(out, n.Leaf)
		}
	}
	sort.Strings(out)
	return out
}

// LeafCount returns the number of leaves.
func (t *Topology) LeafCount() int {
	count := 0
	for _, n := range t.Nodes {
		if n.IsLeaf() {
			count++
		}
	}
	return count
}

// PostOrder visits every node in post-order: all children before their
// parent, children in stored order.
func (t *Topology) PostOrder(visit func(idx int)) {
	if len(t.Nodes) == 0 {
		return
	}
	t.postOrder(0, visit)
}

func (t *Topology) postOrder(idx int, visit func(idx int)) {
	for _, c := range t.Nodes[idx].Children {
		t.postOrder(c, visit)
	}
	visit(idx)
}

// Edges returns every (parent, child) index pair, parent-first, in a
// deterministic pre-order listing.
func (t *Topology) Edges() [][2]int {
	var out [][2]int
	var walk func(idx int)
	walk = func(idx int) {
		for _, c := range t.Nodes[idx].Children {
			out = append(out, [2]int{idx, c})
			walk(c)
		}
	}
	if len(t.Nodes) > 0 {
		walk(0)
	}
	return out
}

// InsertLeaf attaches a new leaf on the edge above child: a fresh
// internal node takes child's place under its parent, with child and
// the new leaf as its children. Mutates the receiver; clone first when
// the original must survive.
func (t *Topology) InsertLeaf(child int, name string) {
	parent := t.Nodes[child].Parent
	internal := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Parent: parent, Children: []int{child}})
	leaf := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Parent: internal, Leaf: name})
	t.Nodes[internal].Children = append(t.Nodes[internal].Children, leaf)
	t.Nodes[child].Parent = internal
	for i, c := range t.Nodes[parent].Children {
		if c == child {
			t.Nodes[parent].Children[i] = internal
			break
		}
	}
}

// Canonical returns a deterministic serialization of the topology:
// leaves by name, internal nodes as their children's canonical forms
// sorted lexically. Two topologies with the same Canonical string have
// the same rooted shape regardless of child order. Used for the search
// engine's documented tie-break and for duplicate detection.
func (t *Topology) Canonical() string {
	if len(t.Nodes) == 0 {
		return ";"
	}
	return t.canonical(0) + ";"
}

func (t *Topology) canonical(idx int) string {
	n := t.Nodes[idx]
	if n.IsLeaf() {
		return n.Leaf
	}
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		parts = append(parts, t.canonical(c))
	}
	sort.Strings(parts)
	return "(" + strings.Join(parts, ",") + ")"
}
