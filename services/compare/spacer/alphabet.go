// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package spacer

import (
	"fmt"
	"sort"
	"strings"
)

// AlphabetOptions configures spacer identity resolution.
type AlphabetOptions struct {
	// Clusters is an optional externally supplied membership table
	// mapping a spacer sequence to a cluster label. Sequences sharing a
	// label share a SpacerID. When the table contradicts itself (one
	// sequence claimed by two labels), Normalize fails with
	// InconsistentAlphabetError rather than picking a winner.
	Clusters map[string]string

	// SNPTolerance joins a new sequence to an existing spacer group when
	// the shifted hamming distance to the group representative is at or
	// below this many mismatches. 0 disables tolerant matching and
	// requires exact (strand-agnostic) identity. Default: 0.
	SNPTolerance int
}

// Validate clamps invalid option values to their defaults.
func (o *AlphabetOptions) Validate() {
	if o.SNPTolerance < 0 {
		o.SNPTolerance = 0
	}
}

// Alphabet assigns stable SpacerID tokens to spacer sequences.
//
// Identity is resolved in precedence order: cluster table membership,
// exact strand-agnostic match, then SNP-tolerant match against existing
// group representatives. IDs are assigned in first-seen order over the
// arrays sorted by array ID, so the mapping is reproducible regardless
// of input map or slice ordering.
type Alphabet struct {
	opts AlphabetOptions

	byKey      map[string]SpacerID // canonical sequence -> ID
	keyCluster map[string]string   // canonical sequence -> cluster label
	clusterID  map[string]SpacerID // cluster label -> ID
	reps       []string            // reps[id-1] = representative canonical sequence
}

// NewAlphabet creates an empty Alphabet with the given options.
func NewAlphabet(opts AlphabetOptions) *Alphabet {
	opts.Validate()
	return &Alphabet{
		opts:       opts,
		byKey:      make(map[string]SpacerID),
		keyCluster: make(map[string]string),
		clusterID:  make(map[string]SpacerID),
	}
}

// Normalize converts raw detection output into Arrays over a shared
// SpacerID alphabet.
//
// Trailer-first arrays are reversed into leader-first order (and their
// spacers complemented) before identity resolution. The returned map is
// keyed by array ID.
//
// Fails with InconsistentAlphabetError when the cluster table maps one
// sequence to two identities, or with a plain error on duplicate array
// IDs. On failure no partial result is returned.
func (a *Alphabet) Normalize(raw []RawArray) (map[string]Array, error) {
	ordered := make([]RawArray, len(raw))
	copy(ordered, raw)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	out := make(map[string]Array, len(ordered))
	for _, r := range ordered {
		if _, dup := out[r.ID]; dup {
			return nil, fmt.Errorf("duplicate array id %q", r.ID)
		}

		seqs := make([]string, len(r.Spacers))
		copy(seqs, r.Spacers)
		if r.Orientation == OrientationTrailerFirst {
			// Reading direction flips with the strand: reverse the
			// spacer order and complement each sequence.
			for i, j := 0, len(seqs)-1; i < j; i, j = i+1, j-1 {
				seqs[i], seqs[j] = seqs[j], seqs[i]
			}
			for i, s := range seqs {
				seqs[i] = ReverseComplement(s)
			}
		}

		ids := make([]SpacerID, len(seqs))
		for i, s := range seqs {
			id, err := a.resolve(r.ID, s)
			if err != nil {
				return nil, err
			}
			ids[i] = id
		}
		out[r.ID] = Array{ID: r.ID, Spacers: ids, Orientation: r.Orientation}
	}
	return out, nil
}

// resolve maps one spacer sequence to its SpacerID, registering a new
// group if no identity rule claims it.
func (a *Alphabet) resolve(arrayID, seq string) (SpacerID, error) {
	key := canonical(seq)

	label, inTable := a.lookupCluster(seq, key)
	if inTable {
		if prev, seen := a.keyCluster[key]; seen && prev != label {
			return 0, &InconsistentAlphabetError{
				ArrayID:     arrayID,
				Sequence:    key,
				Existing:    prev,
				Conflicting: label,
			}
		}
		if id, ok := a.byKey[key]; ok {
			if want, ok := a.clusterID[label]; ok && want != id {
				return 0, &InconsistentAlphabetError{
					ArrayID:     arrayID,
					Sequence:    key,
					Existing:    a.reps[id-1],
					Conflicting: label,
				}
			}
			a.keyCluster[key] = label
			a.clusterID[label] = id
			return id, nil
		}
		if id, ok := a.clusterID[label]; ok {
			a.byKey[key] = id
			a.keyCluster[key] = label
			return id, nil
		}
		id := a.newGroup(key)
		a.keyCluster[key] = label
		a.clusterID[label] = id
		return id, nil
	}

	if id, ok := a.byKey[key]; ok {
		return id, nil
	}

	if a.opts.SNPTolerance > 0 {
		// Linear scan in ID order keeps tolerant matching deterministic:
		// the lowest-numbered group within tolerance wins.
		for i, rep := range a.reps {
			if HammingShifted(key, rep) <= a.opts.SNPTolerance {
				id := SpacerID(i + 1)
				a.byKey[key] = id
				return id, nil
			}
		}
	}

	return a.newGroup(key), nil
}

func (a *Alphabet) lookupCluster(seq, key string) (string, bool) {
	if a.opts.Clusters == nil {
		return "", false
	}
	if label, ok := a.opts.Clusters[strings.ToUpper(seq)]; ok {
		return label, true
	}
	if label, ok := a.opts.Clusters[key]; ok {
		return label, true
	}
	return "", false
}

func (a *Alphabet) newGroup(key string) SpacerID {
	a.reps = append(a.reps, key)
	id := SpacerID(len(a.reps))
	a.byKey[key] = id
	return id
}

// Sequence returns the representative sequence of a spacer group, or ""
// for an unknown ID. Used by exporters to decode tokens.
func (a *Alphabet) Sequence(id SpacerID) string {
	if id < 1 || int(id) > len(a.reps) {
		return ""
	}
	return a.reps[id-1]
}

// Size returns the number of distinct spacer groups seen so far.
func (a *Alphabet) Size() int { return len(a.reps) }
