// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package spacer canonicalizes spacer sequences into a shared alphabet.
//
// Upstream array detection hands the toolkit raw arrays: an identifier
// plus an ordered list of spacer sequences. Before any comparison can
// happen, every spacer occurrence that is considered homologous must map
// to the same token. The Alphabet type owns that mapping and is the only
// place in the toolkit that ever looks at nucleotide content; everything
// downstream works on opaque SpacerID values.
//
// # Ownership Model
//
// Arrays returned by Normalize are immutable for the rest of the run.
// The Alphabet keeps the ID-to-representative-sequence table alive so
// exporters can decode IDs back to sequences.
//
// # Thread Safety
//
// Alphabet is NOT safe for concurrent use while Normalize is running.
// After Normalize returns, the Alphabet and all Arrays are read-only and
// safe to share across goroutines.
package spacer

import "slices"

// SpacerID is an opaque token for one distinct spacer group.
//
// Two spacer occurrences carry the same SpacerID iff they are homologous
// under the identity rule the Alphabet was configured with. IDs are
// assigned densely starting at 1; 0 is never a valid ID.
type SpacerID int

// Orientation records whether the leader-to-trailer direction of an
// array was known at detection time.
type Orientation int

const (
	// OrientationUnknown means the detector could not orient the array.
	// Spacer identity falls back to strand-agnostic canonical form.
	OrientationUnknown Orientation = iota

	// OrientationLeaderFirst means spacers are listed newest-first,
	// the storage convention for the whole toolkit.
	OrientationLeaderFirst

	// OrientationTrailerFirst means spacers are listed oldest-first.
	// Normalize reverses such arrays into leader-first order.
	OrientationTrailerFirst
)

// String returns the orientation name used in logs and exports.
func (o Orientation) String() string {
	switch o {
	case OrientationLeaderFirst:
		return "leader-first"
	case OrientationTrailerFirst:
		return "trailer-first"
	default:
		return "unknown"
	}
}

// RawArray is the upstream detection output for one CRISPR locus:
// an identifier and the ordered spacer sequences between its repeats.
type RawArray struct {
	// ID names the array, typically "<assembly>_<locus>".
	ID string

	// Spacers holds the nucleotide sequence of each spacer in locus
	// order. Order is significant and is never silently rearranged.
	Spacers []string

	// Orientation is the detector's leader/trailer call, if any.
	Orientation Orientation
}

// Array is a normalized CRISPR array: an identifier plus an ordered
// sequence of SpacerID tokens, stored leader-first. Arrays are built
// once by Alphabet.Normalize and immutable afterwards.
type Array struct {
	// ID names the array.
	ID string

	// Spacers lists the array's spacer tokens, leader end first.
	Spacers []SpacerID

	// Orientation is the original detector call, kept for reporting.
	// Trailer-first inputs have already been reversed, so Spacers is
	// leader-first regardless of this value (unknown stays as given).
	Orientation Orientation
}

// Len returns the number of spacers in the array.
func (a Array) Len() int { return len(a.Spacers) }

// Equal reports whether two arrays carry the same spacers in the same
// order. Identifiers are not compared.
func (a Array) Equal(b Array) bool {
	return slices.Equal(a.Spacers, b.Spacers)
}

// Clone returns a deep copy of the array's spacer slice. Callers that
// need a mutable working copy (ancestral candidates) must clone first.
func (a Array) Clone() Array {
	return Array{
		ID:          a.ID,
		Spacers:     slices.Clone(a.Spacers),
		Orientation: a.Orientation,
	}
}
