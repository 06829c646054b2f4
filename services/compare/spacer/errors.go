// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package spacer

import (
	"errors"
	"fmt"
)

// Sentinel errors for the spacer package.
var (
	// ErrInconsistentAlphabet indicates the upstream clustering maps one
	// spacer sequence to two different identities. This is an input
	// contradiction and is always fatal; it is never resolved silently.
	ErrInconsistentAlphabet = errors.New("inconsistent spacer alphabet")
)

// InconsistentAlphabetError reports a spacer sequence whose identity is
// contradicted by the supplied cluster table. It wraps
// ErrInconsistentAlphabet for errors.Is matching.
type InconsistentAlphabetError struct {
	// ArrayID is the array in which the contradiction surfaced.
	ArrayID string

	// Sequence is the offending spacer sequence (canonical form).
	Sequence string

	// Existing and Conflicting are the two cluster labels (or assigned
	// ID representatives) claiming the sequence.
	Existing    string
	Conflicting string
}

func (e *InconsistentAlphabetError) Error() string {
	return fmt.Sprintf(
		"inconsistent spacer alphabet: array %q sequence %q assigned to both %q and %q",
		e.ArrayID, e.Sequence, e.Existing, e.Conflicting)
}

func (e *InconsistentAlphabetError) Unwrap() error {
	return ErrInconsistentAlphabet
}
