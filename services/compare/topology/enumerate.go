// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package topology

import (
	"math"
	"sort"
)

// CountUnrooted returns the number of distinct unrooted binary
// topologies over n leaves: (2n-5)!! for n >= 3, otherwise 1. The
// result saturates at math.MaxInt64 to stay comparable.
func CountUnrooted(n int) int64 {
	if n < 3 {
		return 1
	}
	count := int64(1)
	for k := int64(3); k <= int64(n); k++ {
		factor := 2*k - 5
		if factor <= 0 {
			continue
		}
		if count > math.MaxInt64/factor {
			return math.MaxInt64
		}
		count *= factor
	}
	return count
}

// Enumerate generates every unrooted binary topology over the given
// leaf names, represented rooted at a trifurcating internal node, and
// calls visit for each. Enumeration stops early when visit returns
// false.
//
// Construction is stepwise leaf insertion over the lexically sorted
// names, so the generation order is deterministic. Fewer than four
// leaves admit exactly one topology (a star).
func Enumerate(leaves []string, visit func(*Topology) bool) {
	ids := make([]string, len(leaves))
	copy(ids, leaves)
	sort.Strings(ids)

	if len(ids) == 0 {
		return
	}
	if len(ids) <= 3 {
		visit(NewStar(ids))
		return
	}

	var grow func(t *Topology, next int) bool
	grow = func(t *Topology, next int) bool {
		if next == len(ids) {
			return visit(t)
		}
		// Every non-root node subtends exactly one edge of the
		// unrooted tree, so inserting above each of them covers all
		// placements of the next leaf.
		for c := 1; c < len(t.Nodes); c++ {
			grown := t.Clone()
			grown.InsertLeaf(c, ids[next])
			if !grow(grown, next+1) {
				return false
			}
		}
		return true
	}
	grow(NewStar(ids[:3]), 3)
}

// NNI generates the nearest-neighbor-interchange neighborhood of the
// topology and calls visit for each neighbor. Generation stops early
// when visit returns false.
//
// For every internal node with a parent, each child of the node is
// exchanged with each of the node's siblings. A binary internal edge
// contributes its two classic NNI rearrangements.
func (t *Topology) NNI(visit func(*Topology) bool) {
	for v := 1; v < len(t.Nodes); v++ {
		if t.Nodes[v].IsLeaf() {
			continue
		}
		u := t.Nodes[v].Parent
		for _, s := range t.Nodes[u].Children {
			if s == v {
				continue
			}
			for wi := range t.Nodes[v].Children {
				neighbor := t.Clone()
				w := neighbor.Nodes[v].Children[wi]
				// Exchange subtree w (under v) with sibling s (under u).
				neighbor.Nodes[v].Children[wi] = s
				neighbor.Nodes[s].Parent = v
				for si, c := range neighbor.Nodes[u].Children {
					if c == s {
						neighbor.Nodes[u].Children[si] = w
						break
					}
				}
				neighbor.Nodes[w].Parent = u
				if !visit(neighbor) {
					return
				}
			}
		}
	}
}
