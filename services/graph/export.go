// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph exports an analysis tree as a knowledge graph for
// visualization: folders as ellipses, files as boxes, "contains"
// edges between them. Two output forms are supported: Graphviz DOT,
// renderable with any dot toolchain, and a JSON adjacency list for
// programmatic consumers. Both assign node identifiers in depth-first
// order, so repeated exports of the same tree are byte-identical.
package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/AleutianAI/reposage/services/analyzer"
)

// GraphNode is one node of the JSON adjacency form.
type GraphNode struct {
	ID        int    `json:"id"`
	Label     string `json:"label"`
	Path      string `json:"path"`
	Kind      string `json:"kind"` // "file" or "folder"
	Language  string `json:"language,omitempty"`
	Functions int    `json:"functions,omitempty"`
	Classes   int    `json:"classes,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GraphEdge is one containment edge of the JSON adjacency form.
type GraphEdge struct {
	From     int    `json:"from"`
	To       int    `json:"to"`
	Relation string `json:"relation"`
}

// Graph is the JSON adjacency form of an analysis tree.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Build converts a tree into its adjacency form. Identifiers follow
// the same depth-first numbering as WriteDOT, so the two outputs of
// one tree describe the same graph.
func Build(root analyzer.Node) Graph {
	g := Graph{Nodes: []GraphNode{}, Edges: []GraphEdge{}}
	var visit func(n analyzer.Node, parent int)
	visit = func(n analyzer.Node, parent int) {
		id := len(g.Nodes)
		switch node := n.(type) {
		case *analyzer.FileNode:
			g.Nodes = append(g.Nodes, GraphNode{
				ID:        id,
				Label:     filepath.Base(node.Path),
				Path:      node.Path,
				Kind:      "file",
				Language:  node.Language,
				Functions: len(node.Functions),
				Classes:   len(node.Classes),
				Error:     node.Err,
			})
		case *analyzer.FolderNode:
			g.Nodes = append(g.Nodes, GraphNode{
				ID:    id,
				Label: filepath.Base(node.Path),
				Path:  node.Path,
				Kind:  "folder",
			})
		}
		if parent >= 0 {
			g.Edges = append(g.Edges, GraphEdge{From: parent, To: id, Relation: "contains"})
		}
		if folder, ok := n.(*analyzer.FolderNode); ok {
			for _, child := range folder.Children {
				visit(child, id)
			}
		}
	}
	visit(root, -1)
	return g
}

// WriteJSON renders the tree rooted at root as an indented JSON
// adjacency list.
func WriteJSON(w io.Writer, root analyzer.Node) error {
	data, err := json.MarshalIndent(Build(root), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteDOT renders the tree rooted at node as a Graphviz digraph.
//
// Node identifiers are assigned in depth-first order, so repeated
// exports of the same tree are byte-identical.
func WriteDOT(w io.Writer, root analyzer.Node) error {
	var b strings.Builder
	b.WriteString("digraph repository {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  bgcolor=\"#0d1117\";\n")
	b.WriteString("  node [fontcolor=white, color=white];\n")
	b.WriteString("  edge [color=\"#888888\", fontcolor=\"#888888\"];\n")

	counter := 0
	var visit func(n analyzer.Node, parent int)
	visit = func(n analyzer.Node, parent int) {
		id := counter
		counter++
		switch node := n.(type) {
		case *analyzer.FileNode:
			label := filepath.Base(node.Path)
			tooltip := fmt.Sprintf("Lang: %s, Functions: %d, Classes: %d",
				node.Language, len(node.Functions), len(node.Classes))
			if node.Failed() {
				tooltip = "Error: " + node.Err
			}
			fmt.Fprintf(&b, "  n%d [label=%q, shape=box, color=\"#1f77b4\", tooltip=%q];\n",
				id, label, tooltip)
		case *analyzer.FolderNode:
			fmt.Fprintf(&b, "  n%d [label=%q, shape=ellipse, color=\"#ff7f0e\"];\n",
				id, filepath.Base(node.Path))
		}
		if parent >= 0 {
			fmt.Fprintf(&b, "  n%d -> n%d [label=\"contains\"];\n", parent, id)
		}
		if folder, ok := n.(*analyzer.FolderNode); ok {
			for _, child := range folder.Children {
				visit(child, id)
			}
		}
	}
	visit(root, -1)

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
