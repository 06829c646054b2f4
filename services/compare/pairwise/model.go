// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package pairwise implements the array-evolution event model.
//
// Arrays evolve by acquiring spacers at the leader end and losing
// contiguous or isolated spacers anywhere. Given two arrays as ordered
// SpacerID sequences, this package computes:
//
//   - a normalized dissimilarity score (Jaccard complement over the
//     spacer sets, plus an order-inconsistency penalty),
//   - the shared-spacer count used by the network builder,
//   - a minimal edit script of acquisition/loss events and its cost,
//     used edge-by-edge by ancestral reconstruction.
//
// All functions are pure; the only shared state is the read-only
// CostModel, so everything here is safe for concurrent use.
package pairwise

import (
	"fmt"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"
)

// Default cost-model constants.
//
// Every event class costs 1 by default, which
// keeps the per-edge event distance symmetric and therefore makes total
// tree cost independent of rooting. The order-inconsistency penalty only
// affects the normalized distance score, never event counting.
const (
	// DefaultAcquisitionWeight is the cost of one leader-end
	// acquisition block.
	DefaultAcquisitionWeight = 1.0

	// DefaultLossWeight is the cost of one contiguous loss block.
	DefaultLossWeight = 1.0

	// DefaultEctopicWeight is the cost of one acquisition block away
	// from the leader end. Such gains are rare in nature; raising this
	// weight biases distance scoring against them but breaks the
	// symmetry tree modes rely on.
	DefaultEctopicWeight = 1.0

	// DefaultOrderPenalty scales the order-conflict fraction added to
	// the normalized distance score.
	DefaultOrderPenalty = 0.5
)

// CostModel fixes the weights of the array-evolution event classes.
type CostModel struct {
	// AcquisitionWeight is charged per leader-end acquisition block.
	AcquisitionWeight float64 `yaml:"acquisition_weight"`

	// LossWeight is charged per contiguous loss block.
	LossWeight float64 `yaml:"loss_weight"`

	// EctopicWeight is charged per non-leader acquisition block.
	EctopicWeight float64 `yaml:"ectopic_weight"`

	// OrderPenalty scales the penalty for shared spacers appearing in
	// incompatible relative order. Applies to Distance only.
	OrderPenalty float64 `yaml:"order_penalty"`
}

// Validate replaces non-positive weights with their defaults. A zero
// OrderPenalty is valid (penalty disabled); negative values are reset.
func (m *CostModel) Validate() {
	if m.AcquisitionWeight <= 0 {
		m.AcquisitionWeight = DefaultAcquisitionWeight
	}
	if m.LossWeight <= 0 {
		m.LossWeight = DefaultLossWeight
	}
	if m.EctopicWeight <= 0 {
		m.EctopicWeight = DefaultEctopicWeight
	}
	if m.OrderPenalty < 0 {
		m.OrderPenalty = DefaultOrderPenalty
	}
}

// DefaultCostModel returns the documented default weighting.
func DefaultCostModel() CostModel {
	return CostModel{
		AcquisitionWeight: DefaultAcquisitionWeight,
		LossWeight:        DefaultLossWeight,
		EctopicWeight:     DefaultEctopicWeight,
		OrderPenalty:      DefaultOrderPenalty,
	}
}

// Symmetric reports whether the event distance induced by this model is
// symmetric. Tree reconstruction requires a symmetric model so that the
// total cost does not depend on where the topology is rooted.
func (m CostModel) Symmetric() bool {
	return m.AcquisitionWeight == m.LossWeight && m.EctopicWeight == m.LossWeight
}

// EventType classifies one inferred change on a tree edge.
type EventType int

const (
	// EventAcquisition is a gain of one or more contiguous spacers at
	// the leader end, the canonical CRISPR acquisition mechanism.
	EventAcquisition EventType = iota

	// EventEctopicAcquisition is a gain away from the leader end.
	EventEctopicAcquisition

	// EventLoss is a deletion of one contiguous run of spacers.
	EventLoss
)

// String returns the event type name used in exports.
func (t EventType) String() string {
	switch t {
	case EventAcquisition:
		return "acquisition"
	case EventEctopicAcquisition:
		return "ectopic_acquisition"
	case EventLoss:
		return "loss"
	default:
		return "unknown"
	}
}

// Event is one inferred change transforming a parent array into a child
// array: a block of spacers gained or lost together.
type Event struct {
	// Type classifies the change.
	Type EventType

	// Spacers lists the affected SpacerIDs in array order.
	Spacers []spacer.SpacerID
}

func (e Event) String() string {
	return fmt.Sprintf("%s%v", e.Type, e.Spacers)
}

// weight returns the model cost of a single event.
func (m CostModel) weight(t EventType) float64 {
	switch t {
	case EventAcquisition:
		return m.AcquisitionWeight
	case EventEctopicAcquisition:
		return m.EctopicWeight
	default:
		return m.LossWeight
	}
}

// Cost sums the weighted cost of an event list.
func (m CostModel) Cost(events []Event) float64 {
	total := 0.0
	for _, e := range events {
		total += m.weight(e.Type)
	}
	return total
}
