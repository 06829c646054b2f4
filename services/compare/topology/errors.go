// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package topology

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the topology package.
var (
	// ErrIncompleteTopology indicates a topology whose leaf set does
	// not match the array set it is being used with.
	ErrIncompleteTopology = errors.New("incomplete topology")

	// ErrInvalidNewick indicates unparseable tree input.
	ErrInvalidNewick = errors.New("invalid newick input")
)

// IncompleteTopologyError reports the exact leaf/array set mismatch so
// the caller can diagnose without re-running. Wraps
// ErrIncompleteTopology.
type IncompleteTopologyError struct {
	// Missing lists array IDs absent from the topology's leaves.
	Missing []string

	// Extra lists topology leaves that name no known array, including
	// duplicated leaf labels.
	Extra []string
}

func (e *IncompleteTopologyError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing leaves: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("unknown leaves: %s", strings.Join(e.Extra, ", ")))
	}
	return "incomplete topology: " + strings.Join(parts, "; ")
}

func (e *IncompleteTopologyError) Unwrap() error {
	return ErrIncompleteTopology
}

// CheckLeaves verifies that the topology's leaf labels are exactly the
// given array IDs (a bijection: no duplicates, omissions, or extras).
func (t *Topology) CheckLeaves(arrayIDs []string) error {
	want := make(map[string]bool, len(arrayIDs))
	for _, id := range arrayIDs {
		want[id] = true
	}

	seen := make(map[string]bool)
	var extra []string
	for _, n := range t.Nodes {
		if !n.IsLeaf() {
			continue
		}
		if !want[n.Leaf] || seen[n.Leaf] {
			extra = append(extra, n.Leaf)
			continue
		}
		seen[n.Leaf] = true
	}

	var missing []string
	for _, id := range arrayIDs {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return &IncompleteTopologyError{Missing: missing, Extra: extra}
}
