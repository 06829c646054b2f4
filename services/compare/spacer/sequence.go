// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package spacer

import "strings"

var revCompLookup = map[byte]byte{
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C',
	'a': 't', 't': 'a', 'c': 'g', 'g': 'c',
}

// ReverseComplement returns the reverse complement of a nucleotide
// sequence. Characters outside ATCG (ambiguity codes, gaps) are kept
// as-is, only reversed, matching the detector pipelines' behavior.
func ReverseComplement(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := len(s) - 1; i >= 0; i-- {
		if c, ok := revCompLookup[s[i]]; ok {
			b.WriteByte(c)
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// HammingShifted compares two sequences three ways: as given, with the
// first sequence shifted one position left, and with the second shifted
// one position left. Length overhang counts as mismatch. The minimum of
// the three is returned, which tolerates single-indel sequencing slips
// when grouping near-identical spacers.
func HammingShifted(s1, s2 string) int {
	d := hamming(s1, s2)
	if dp := hamming(s1[min(1, len(s1)):], s2); dp < d {
		d = dp
	}
	if dm := hamming(s1, s2[min(1, len(s2)):]); dm < d {
		d = dm
	}
	return d
}

func hamming(s1, s2 string) int {
	dist := 0
	n := max(len(s1), len(s2))
	for i := 0; i < n; i++ {
		if i >= len(s1) || i >= len(s2) || s1[i] != s2[i] {
			dist++
		}
	}
	return dist
}

// canonical returns the strand-agnostic form of a sequence: the
// lexicographically smaller of the uppercased sequence and its reverse
// complement. Used when an array's orientation is unknown so that the
// same spacer read off either strand resolves to one key.
func canonical(s string) string {
	up := strings.ToUpper(s)
	rc := ReverseComplement(up)
	if rc < up {
		return rc
	}
	return up
}
