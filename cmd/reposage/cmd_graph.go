// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/reposage/services/analyzer"
	"github.com/AleutianAI/reposage/services/graph"
)

func newGraphCommand() *cobra.Command {
	var (
		flagIn     string
		flagOut    string
		flagFormat string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export a saved analysis as a knowledge graph",
		Long: "Graph reads the JSON tree written by 'analyze' and emits the " +
			"repository structure as a graph: Graphviz DOT (render with e.g. " +
			"'dot -Tsvg') or a JSON adjacency list for programmatic use.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(flagIn, flagOut, flagFormat)
		},
	}

	cmd.Flags().StringVar(&flagIn, "in", "repo_analysis.json", "Analysis JSON produced by the analyze command")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file (default repo_graph.dot or repo_graph.json per format)")
	cmd.Flags().StringVar(&flagFormat, "format", "dot", "Output format: dot or json")
	return cmd
}

func runGraph(in, out, format string) error {
	if format != "dot" && format != "json" {
		return fmt.Errorf("unknown graph format %q (want dot or json)", format)
	}
	if out == "" {
		out = "repo_graph." + format
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("reading analysis %s: %w", in, err)
	}
	root, err := analyzer.DecodeNode(data)
	if err != nil {
		return fmt.Errorf("decoding analysis %s: %w", in, err)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	if format == "json" {
		err = graph.WriteJSON(f, root)
	} else {
		err = graph.WriteDOT(f, root)
	}
	if err != nil {
		return fmt.Errorf("writing %s graph: %w", format, err)
	}
	fmt.Printf("Graph written to %s\n", out)
	return nil
}
