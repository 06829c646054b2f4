// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import "fmt"

// Mode selects one of the fixed analysis capabilities. The set is
// closed: every mode has a dedicated Runner implementation and New
// rejects anything else.
type Mode int

const (
	// ModeDistance computes the pairwise distance matrix and stops.
	ModeDistance Mode = iota

	// ModeNetwork builds the spacer-sharing graph from the matrix.
	ModeNetwork

	// ModeConstrain reconstructs ancestral states on a user-supplied
	// topology.
	ModeConstrain

	// ModeSearch searches topology space for the parsimony optimum.
	ModeSearch
)

// String returns the mode name used on the CLI and in logs.
func (m Mode) String() string {
	switch m {
	case ModeDistance:
		return "distance"
	case ModeNetwork:
		return "network"
	case ModeConstrain:
		return "constrain"
	case ModeSearch:
		return "search"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a mode name back to its Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "distance":
		return ModeDistance, nil
	case "network":
		return ModeNetwork, nil
	case "constrain":
		return ModeConstrain, nil
	case "search":
		return ModeSearch, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}
