// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package network builds the spacer-sharing graph over a set of arrays.
//
// Nodes are array identifiers and an edge connects two arrays whose
// shared-spacer count reaches a caller-chosen threshold. The graph is a
// thin, fully deterministic view over the pairwise distance matrix:
// node and edge listings are sorted, and connected components are
// derived on demand rather than stored, since they change whenever the
// threshold does.
package network

import (
	"sort"

	"github.com/cganote/CRISPR-comparison-toolkit/services/compare/pairwise"
)

// ====================================================================
// Types
// ====================================================================

// Edge is one spacer-sharing relationship. A and B are array IDs with
// A < B lexically.
type Edge struct {
	A      string
	B      string
	Shared int
	Score  float64
}

// Graph is an undirected spacer-sharing graph. Construct with Build;
// the zero value is empty.
type Graph struct {
	nodes     []string
	adjacency map[string][]string
	edges     []Edge
	minShared int
}

// ====================================================================
// Construction
// ====================================================================

// Build derives the sharing graph from a pairwise distance matrix.
// Every array in the matrix becomes a node, including arrays that end
// up isolated. An edge is added for each pair whose shared-spacer
// count is at least minShared; the edge keeps both the count and the
// pair's distance score.
func Build(m *pairwise.DistanceMatrix, minShared int) *Graph {
	g := &Graph{
		nodes:     m.IDs(),
		adjacency: make(map[string][]string, m.Len()),
		minShared: minShared,
	}
	for _, rec := range m.Pairs() {
		if rec.Shared < minShared {
			continue
		}
		g.edges = append(g.edges, Edge{
			A:      rec.A,
			B:      rec.B,
			Shared: rec.Shared,
			Score:  rec.Score,
		})
		g.adjacency[rec.A] = append(g.adjacency[rec.A], rec.B)
		g.adjacency[rec.B] = append(g.adjacency[rec.B], rec.A)
	}
	for id := range g.adjacency {
		sort.Strings(g.adjacency[id])
	}
	return g
}

// ====================================================================
// Queries
// ====================================================================

// Nodes returns all array IDs in lexical order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns all edges ordered by (A, B).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Neighbors returns the sorted adjacency list of one node. Unknown
// nodes and isolated nodes both yield an empty list.
func (g *Graph) Neighbors(id string) []string {
	adj := g.adjacency[id]
	out := make([]string, len(adj))
	copy(out, adj)
	return out
}

// Degree returns the number of edges incident to a node.
func (g *Graph) Degree(id string) int {
	return len(g.adjacency[id])
}

// MinShared returns the threshold the graph was built with.
func (g *Graph) MinShared() int {
	return g.minShared
}

// Components computes the connected components. Each component is
// sorted lexically and the component list is ordered by each
// component's smallest member. Isolated nodes form singleton
// components.
func (g *Graph) Components() [][]string {
	visited := make(map[string]bool, len(g.nodes))
	var components [][]string

	for _, start := range g.nodes {
		if visited[start] {
			continue
		}
		var component []string
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			component = append(component, node)
			for _, next := range g.adjacency[node] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		sort.Strings(component)
		components = append(components, component)
	}
	return components
}
