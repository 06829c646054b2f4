// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package topology

import (
	"fmt"
	"io"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/evolbioinfo/gotree/tree"
)

// Parse reads a user-supplied Newick topology into the arena
// representation. Branch lengths and internal node labels are
// discarded; only the branching structure and leaf labels survive,
// which is all constrained reconstruction consumes.
func Parse(r io.Reader) (*Topology, error) {
	gt, err := newick.NewParser(r).Parse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNewick, err)
	}
	return FromGotree(gt)
}

// FromGotree converts an already-parsed gotree tree into an arena
// Topology rooted at the gotree root.
func FromGotree(gt *tree.Tree) (*Topology, error) {
	root := gt.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: tree has no root", ErrInvalidNewick)
	}

	t := &Topology{}
	var build func(cur, prev *tree.Node, parent int) error
	build = func(cur, prev *tree.Node, parent int) error {
		idx := len(t.Nodes)
		t.Nodes = append(t.Nodes, Node{Parent: parent})
		if parent != NoParent {
			t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
		}

		childCount := 0
		for _, neigh := range cur.Neigh() {
			if neigh == prev {
				continue
			}
			childCount++
			if err := build(neigh, cur, idx); err != nil {
				return err
			}
		}
		if childCount == 0 {
			if cur.Name() == "" {
				return fmt.Errorf("%w: unlabeled leaf", ErrInvalidNewick)
			}
			t.Nodes[idx].Leaf = cur.Name()
		}
		return nil
	}
	if err := build(root, nil, NoParent); err != nil {
		return nil, err
	}

	if t.LeafCount() < 1 {
		return nil, fmt.Errorf("%w: no leaves", ErrInvalidNewick)
	}
	return t, nil
}
