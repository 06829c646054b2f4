// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pairwise

import "github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"

// Events infers the minimal edit script transforming parent into child.
//
// The two ID sequences are globally aligned, then maximal runs of
// non-matching columns are interpreted as events: spacers present only
// in the parent within a run form one contiguous loss block; spacers
// present only in the child form one acquisition block, classified as a
// leader-end acquisition when the run is a prefix of the alignment and
// as an ectopic acquisition otherwise. A substitution-like region
// therefore yields one loss plus one acquisition.
func Events(parent, child spacer.Array) []Event {
	alignedP, alignedC := Align(parent.Spacers, child.Spacers)

	var events []Event
	for col := 0; col < len(alignedP); {
		if alignedP[col] == alignedC[col] {
			col++
			continue
		}
		start := col
		var lost, gained []spacer.SpacerID
		for col < len(alignedP) && alignedP[col] != alignedC[col] {
			if alignedP[col] != Gap {
				lost = append(lost, alignedP[col])
			}
			if alignedC[col] != Gap {
				gained = append(gained, alignedC[col])
			}
			col++
		}
		if len(lost) > 0 {
			events = append(events, Event{Type: EventLoss, Spacers: lost})
		}
		if len(gained) > 0 {
			t := EventEctopicAcquisition
			if start == 0 {
				t = EventAcquisition
			}
			events = append(events, Event{Type: t, Spacers: gained})
		}
	}
	return events
}

// EventCost returns the weighted cost of the minimal edit script
// between parent and child under the given model. This is the
// event-counting variant used edge-by-edge during reconstruction, not
// the normalized Distance score.
func EventCost(parent, child spacer.Array, model CostModel) float64 {
	cost := 0.0
	for _, e := range Events(parent, child) {
		cost += model.weight(e.Type)
	}
	return cost
}
