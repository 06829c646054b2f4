// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package export serializes inference results for downstream tooling.
//
// Trees leave as annotated Newick, everything else as TSV. This is
// pure formatting over already-computed structures; nothing here runs
// inference.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/evolbioinfo/gotree/tree"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/network"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/pairwise"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/reconstruct"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/spacer"
	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/topology"
)

// SequenceDecoder maps SpacerIDs back to representative sequences for
// human-readable output. *spacer.Alphabet satisfies it; a nil decoder
// leaves numeric IDs in place.
type SequenceDecoder interface {
	Sequence(id spacer.SpacerID) string
}

// ====================================================================
// Newick
// ====================================================================

// Newick serializes a reconstructed topology as annotated Newick text.
// Leaves carry their array IDs, internal nodes are labeled Anc<idx> by
// arena index, and each branch length is the weighted event cost of
// that edge under the model.
func Newick(topo *topology.Topology, asg *reconstruct.Assignment, model pairwise.CostModel) (string, error) {
	model.Validate()

	t := tree.NewTree()
	nodes := make([]*tree.Node, len(topo.Nodes))
	for idx, n := range topo.Nodes {
		gn := t.NewNode()
		if n.IsLeaf() {
			gn.SetName(n.Leaf)
		} else {
			gn.SetName(NodeName(topo, idx))
		}
		nodes[idx] = gn
	}
	t.SetRoot(nodes[0])
	for _, e := range topo.Edges() {
		edge := t.ConnectNodes(nodes[e[0]], nodes[e[1]])
		edge.SetLength(model.Cost(asg.Events[e[1]]))
	}
	return t.Newick(), nil
}

// NodeName returns the exported label of an arena node: the array ID
// for leaves, Anc<idx> for internal nodes.
func NodeName(topo *topology.Topology, idx int) string {
	if n := topo.Nodes[idx]; n.IsLeaf() {
		return n.Leaf
	}
	return "Anc" + strconv.Itoa(idx)
}

// ====================================================================
// Tables
// ====================================================================

// EventTable writes the per-edge event list as TSV: one row per event
// with parent label, child label, event type and the affected spacers.
func EventTable(w io.Writer, topo *topology.Topology, asg *reconstruct.Assignment, dec SequenceDecoder) error {
	if _, err := fmt.Fprintln(w, "parent\tchild\tevent\tspacers"); err != nil {
		return err
	}
	for _, e := range topo.Edges() {
		parent, child := NodeName(topo, e[0]), NodeName(topo, e[1])
		for _, ev := range asg.Events[e[1]] {
			_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				parent, child, ev.Type, spacerList(ev.Spacers, dec))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// StateTable writes every node's assigned array state as TSV: node
// label and the ordered spacer sequence.
func StateTable(w io.Writer, topo *topology.Topology, asg *reconstruct.Assignment, dec SequenceDecoder) error {
	if _, err := fmt.Fprintln(w, "node\tstate"); err != nil {
		return err
	}
	for idx := range topo.Nodes {
		_, err := fmt.Fprintf(w, "%s\t%s\n",
			NodeName(topo, idx), spacerList(asg.States[idx], dec))
		if err != nil {
			return err
		}
	}
	return nil
}

// MatrixTSV writes the full pairwise score matrix, rows and columns in
// the matrix's lexical ID order.
func MatrixTSV(w io.Writer, m *pairwise.DistanceMatrix) error {
	ids := m.IDs()
	if _, err := fmt.Fprintln(w, "array\t"+strings.Join(ids, "\t")); err != nil {
		return err
	}
	for _, a := range ids {
		cells := make([]string, 0, len(ids)+1)
		cells = append(cells, a)
		for _, b := range ids {
			rec, _ := m.Record(a, b)
			cells = append(cells, strconv.FormatFloat(rec.Score, 'g', -1, 64))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// EdgeListTSV writes the sharing graph's edge list: source, target,
// shared-spacer count and distance score per edge.
func EdgeListTSV(w io.Writer, g *network.Graph) error {
	if _, err := fmt.Fprintln(w, "source\ttarget\tshared\tscore"); err != nil {
		return err
	}
	for _, e := range g.Edges() {
		_, err := fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			e.A, e.B, e.Shared, strconv.FormatFloat(e.Score, 'g', -1, 64))
		if err != nil {
			return err
		}
	}
	return nil
}

// spacerList joins spacer IDs with commas, decoded to representative
// sequences when a decoder is available.
func spacerList(ids []spacer.SpacerID, dec SequenceDecoder) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		if dec != nil {
			if seq := dec.Sequence(id); seq != "" {
				parts[i] = seq
				continue
			}
		}
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, ",")
}
