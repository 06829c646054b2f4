// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package search

import (
	"errors"
	"fmt"
)

// Sentinel errors for the search package.
var (
	// ErrSearchSpaceTooLarge indicates an exhaustive search request over
	// more leaves than the enforced ceiling permits.
	ErrSearchSpaceTooLarge = errors.New("search space too large")

	// ErrEmptyInput indicates a search over zero arrays.
	ErrEmptyInput = errors.New("no arrays to compare")
)

// SearchSpaceTooLargeError reports how far past the exhaustive ceiling
// a request landed. Callers opt into heuristic search to proceed.
type SearchSpaceTooLargeError struct {
	// Leaves is the number of arrays requested.
	Leaves int

	// Ceiling is the configured exhaustive leaf-count limit.
	Ceiling int

	// Topologies is the unrooted topology count for Leaves, saturated
	// at MaxInt64.
	Topologies int64
}

func (e *SearchSpaceTooLargeError) Error() string {
	return fmt.Sprintf(
		"search space too large: %d leaves admit %d unrooted topologies (exhaustive ceiling %d); enable heuristic search",
		e.Leaves, e.Topologies, e.Ceiling)
}

func (e *SearchSpaceTooLargeError) Unwrap() error { return ErrSearchSpaceTooLarge }

// EmptyInputError reports a search invoked with no arrays at all.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "no arrays to compare: search needs at least one array"
}

func (e *EmptyInputError) Unwrap() error { return ErrEmptyInput }
