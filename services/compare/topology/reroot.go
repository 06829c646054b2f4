// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package topology

import "sort"

// RerootCanonical returns the canonical rooted form of the unrooted
// tree underlying the topology.
//
// Degree-2 internal nodes (artifacts of an arbitrary input rooting)
// are suppressed, the root is placed at the internal node adjacent to
// the lexically smallest leaf, and children are ordered by the
// smallest leaf label reachable through them. Any rooting of the same
// unrooted tree therefore produces an identical arena, which is what
// makes reconstruction cost independent of the input rooting.
func (t *Topology) RerootCanonical() *Topology {
	leaves := t.Leaves()
	if len(leaves) <= 2 {
		return NewStar(leaves)
	}

	// Undirected adjacency over the arena.
	adj := make(map[int]map[int]bool, len(t.Nodes))
	link := func(a, b int) {
		if adj[a] == nil {
			adj[a] = make(map[int]bool)
		}
		adj[a][b] = true
	}
	for idx, n := range t.Nodes {
		for _, c := range n.Children {
			link(idx, c)
			link(c, idx)
		}
	}

	// Suppress pass-through internal nodes left over from rooting.
	for idx, n := range t.Nodes {
		if n.IsLeaf() || len(adj[idx]) != 2 {
			continue
		}
		var pair []int
		for other := range adj[idx] {
			pair = append(pair, other)
		}
		delete(adj[pair[0]], idx)
		delete(adj[pair[1]], idx)
		link(pair[0], pair[1])
		link(pair[1], pair[0])
		delete(adj, idx)
	}

	// minLeaf finds the smallest leaf label reachable from `to` when
	// arriving via the edge from -> to.
	var minLeaf func(from, to int) string
	minLeaf = func(from, to int) string {
		if t.Nodes[to].IsLeaf() {
			return t.Nodes[to].Leaf
		}
		best := ""
		for next := range adj[to] {
			if next == from {
				continue
			}
			if label := minLeaf(to, next); best == "" || label < best {
				best = label
			}
		}
		return best
	}

	// The root is the unique neighbor of the smallest leaf.
	smallest := -1
	for idx, n := range t.Nodes {
		if n.IsLeaf() && (smallest == -1 || n.Leaf < t.Nodes[smallest].Leaf) {
			smallest = idx
		}
	}
	var rootOld int
	for neigh := range adj[smallest] {
		rootOld = neigh
	}

	out := &Topology{}
	var build func(old, prev, parent int)
	build = func(old, prev, parent int) {
		idx := len(out.Nodes)
		out.Nodes = append(out.Nodes, Node{Parent: parent, Leaf: t.Nodes[old].Leaf})
		if parent != NoParent {
			out.Nodes[parent].Children = append(out.Nodes[parent].Children, idx)
		}
		var next []int
		for neigh := range adj[old] {
			if neigh != prev {
				next = append(next, neigh)
			}
		}
		sort.Slice(next, func(i, j int) bool {
			return minLeaf(old, next[i]) < minLeaf(old, next[j])
		})
		for _, neigh := range next {
			build(neigh, old, idx)
		}
	}
	build(rootOld, -1, NoParent)
	return out
}
