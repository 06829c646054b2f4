// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import "errors"

// Sentinel errors for the analysis package.
var (
	// ErrUnknownMode indicates a mode name outside the fixed set.
	ErrUnknownMode = errors.New("unknown analysis mode")

	// ErrMissingTopology indicates a constrained reconstruction request
	// without a topology.
	ErrMissingTopology = errors.New("constrained mode needs a topology")
)
