// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pairwise

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"
)

func arr(id string, ids ...spacer.SpacerID) spacer.Array {
	return spacer.Array{ID: id, Spacers: ids}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		name  string
		a, b  []spacer.SpacerID
		wantA []spacer.SpacerID
		wantB []spacer.SpacerID
	}{
		{
			name:  "trailer loss",
			a:     []spacer.SpacerID{1, 2, 3},
			b:     []spacer.SpacerID{1, 2},
			wantA: []spacer.SpacerID{1, 2, 3},
			wantB: []spacer.SpacerID{1, 2, Gap},
		},
		{
			name:  "leader gain",
			a:     []spacer.SpacerID{2, 3},
			b:     []spacer.SpacerID{1, 2, 3},
			wantA: []spacer.SpacerID{Gap, 2, 3},
			wantB: []spacer.SpacerID{1, 2, 3},
		},
		{
			name:  "empty vs empty",
			a:     nil,
			b:     nil,
			wantA: []spacer.SpacerID{},
			wantB: []spacer.SpacerID{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotA, gotB := Align(tt.a, tt.b)
			if !slices.Equal(gotA, tt.wantA) || !slices.Equal(gotB, tt.wantB) {
				t.Errorf("Align() = %v, %v; want %v, %v", gotA, gotB, tt.wantA, tt.wantB)
			}
		})
	}
}

func TestDistance_Properties(t *testing.T) {
	model := DefaultCostModel()
	x := arr("X", 1, 2, 3)
	y := arr("Y", 1, 2)

	t.Run("self distance is zero", func(t *testing.T) {
		rec := Distance(x, x, model)
		if rec.Score != 0 {
			t.Errorf("Score = %v, want 0", rec.Score)
		}
		if rec.Shared != x.Len() {
			t.Errorf("Shared = %d, want %d", rec.Shared, x.Len())
		}
	})

	t.Run("symmetry", func(t *testing.T) {
		fwd := Distance(x, y, model)
		rev := Distance(y, x, model)
		if fwd.Score != rev.Score || fwd.Shared != rev.Shared {
			t.Errorf("asymmetric: %+v vs %+v", fwd, rev)
		}
	})

	t.Run("empty vs empty", func(t *testing.T) {
		rec := Distance(arr("e1"), arr("e2"), model)
		if rec.Score != 0 || rec.Shared != 0 {
			t.Errorf("empty pair: %+v", rec)
		}
	})

	t.Run("empty vs nonempty is maximal", func(t *testing.T) {
		rec := Distance(arr("e"), x, model)
		if rec.Score != 1 {
			t.Errorf("Score = %v, want 1", rec.Score)
		}
	})
}

func TestDistance_Scenario(t *testing.T) {
	// The X/Y/Z reference scenario: X=[s1,s2,s3], Y=[s1,s2], Z=[s4,s2,s3].
	model := DefaultCostModel()
	x := arr("X", 1, 2, 3)
	y := arr("Y", 1, 2)
	z := arr("Z", 4, 2, 3)

	if got := Distance(x, y, model).Shared; got != 2 {
		t.Errorf("shared(X,Y) = %d, want 2", got)
	}
	if got := Distance(x, z, model).Shared; got != 2 {
		t.Errorf("shared(X,Z) = %d, want 2", got)
	}
	if got := Distance(y, z, model).Shared; got != 1 {
		t.Errorf("shared(Y,Z) = %d, want 1", got)
	}

	// X vs Y: symmetric difference {s3}, union {s1,s2,s3}, no conflicts.
	if got := Distance(x, y, model).Score; math.Abs(got-1.0/3.0) > 1e-12 {
		t.Errorf("score(X,Y) = %v, want 1/3", got)
	}
}

func TestDistance_OrderConflict(t *testing.T) {
	model := DefaultCostModel()
	a := arr("a", 1, 2, 3)
	b := arr("b", 3, 2, 1)

	rec := Distance(a, b, model)
	// All three shared pairs are inverted.
	if rec.OrderConflicts != 3 {
		t.Errorf("OrderConflicts = %d, want 3", rec.OrderConflicts)
	}
	// Identical sets, so base dissimilarity is 0 and only the order
	// penalty remains: 0.5 * 3/3.
	if math.Abs(rec.Score-model.OrderPenalty) > 1e-12 {
		t.Errorf("Score = %v, want %v", rec.Score, model.OrderPenalty)
	}
}

func TestEvents(t *testing.T) {
	tests := []struct {
		name   string
		parent spacer.Array
		child  spacer.Array
		want   []Event
	}{
		{
			name:   "trailer loss",
			parent: arr("p", 1, 2, 3),
			child:  arr("c", 1, 2),
			want:   []Event{{Type: EventLoss, Spacers: []spacer.SpacerID{3}}},
		},
		{
			name:   "leader acquisition block",
			parent: arr("p", 3, 4),
			child:  arr("c", 1, 2, 3, 4),
			want:   []Event{{Type: EventAcquisition, Spacers: []spacer.SpacerID{1, 2}}},
		},
		{
			name:   "internal gain is ectopic",
			parent: arr("p", 1, 4),
			child:  arr("c", 1, 2, 3, 4),
			want:   []Event{{Type: EventEctopicAcquisition, Spacers: []spacer.SpacerID{2, 3}}},
		},
		{
			name:   "substitution at leader",
			parent: arr("p", 1, 2, 3),
			child:  arr("c", 4, 2, 3),
			want: []Event{
				{Type: EventLoss, Spacers: []spacer.SpacerID{1}},
				{Type: EventAcquisition, Spacers: []spacer.SpacerID{4}},
			},
		},
		{
			name:   "identical",
			parent: arr("p", 1, 2),
			child:  arr("c", 1, 2),
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Events(tt.parent, tt.child)
			if len(got) != len(tt.want) {
				t.Fatalf("Events() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i].Type != tt.want[i].Type ||
					!slices.Equal(got[i].Spacers, tt.want[i].Spacers) {
					t.Errorf("event %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEventCost_Symmetric(t *testing.T) {
	model := DefaultCostModel()
	if !model.Symmetric() {
		t.Fatal("default model must be symmetric")
	}
	pairs := [][2]spacer.Array{
		{arr("a", 1, 2, 3), arr("b", 1, 2)},
		{arr("a", 1, 2, 3), arr("b", 4, 2, 3)},
		{arr("a", 1, 4), arr("b", 1, 2, 3, 4)},
		{arr("a"), arr("b", 1, 2)},
	}
	for _, p := range pairs {
		fwd := EventCost(p[0], p[1], model)
		rev := EventCost(p[1], p[0], model)
		if fwd != rev {
			t.Errorf("EventCost(%v, %v): %v forward, %v reverse",
				p[0].Spacers, p[1].Spacers, fwd, rev)
		}
	}
}

func TestMatrix(t *testing.T) {
	model := DefaultCostModel()
	arrays := map[string]spacer.Array{
		"X": arr("X", 1, 2, 3),
		"Y": arr("Y", 1, 2),
		"Z": arr("Z", 4, 2, 3),
	}

	m, err := Matrix(context.Background(), arrays, model, 2)
	if err != nil {
		t.Fatalf("Matrix() error = %v", err)
	}

	if got := m.IDs(); !slices.Equal(got, []string{"X", "Y", "Z"}) {
		t.Errorf("IDs() = %v", got)
	}

	pairs := m.Pairs()
	if len(pairs) != 3 {
		t.Fatalf("Pairs() returned %d records", len(pairs))
	}
	// Listing order is fixed: (X,Y), (X,Z), (Y,Z).
	wantOrder := [][2]string{{"X", "Y"}, {"X", "Z"}, {"Y", "Z"}}
	for i, w := range wantOrder {
		if pairs[i].A != w[0] || pairs[i].B != w[1] {
			t.Errorf("pair %d = (%s,%s), want (%s,%s)",
				i, pairs[i].A, pairs[i].B, w[0], w[1])
		}
	}

	rec, ok := m.Record("Y", "X")
	if !ok {
		t.Fatal("Record(Y, X) not found")
	}
	if rec.Shared != 2 {
		t.Errorf("Record(Y, X).Shared = %d, want 2", rec.Shared)
	}

	if _, ok := m.Record("X", "missing"); ok {
		t.Error("Record() found a missing ID")
	}

	closest, ok := m.Closest()
	if !ok {
		t.Fatal("Closest() not ok")
	}
	// X-Y scores 1/3; X-Z and Y-Z score higher.
	if closest.A != "X" || closest.B != "Y" {
		t.Errorf("Closest() = (%s,%s), want (X,Y)", closest.A, closest.B)
	}
}

func TestMatrix_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	arrays := map[string]spacer.Array{
		"a": arr("a", 1), "b": arr("b", 2), "c": arr("c", 3), "d": arr("d", 4),
	}
	if _, err := Matrix(ctx, arrays, DefaultCostModel(), 1); err == nil {
		t.Error("expected error from cancelled context")
	}
}
