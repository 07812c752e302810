// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package analyzer implements the recursive repository analysis engine.
//
// The analyzer walks a filesystem tree rooted at a repository path,
// producing one node per file or folder. Files are read, classified by
// language, mined for declared functions/classes/dependencies, and
// summarized by an external language-model oracle. Folders are reduced
// bottom-up: every child is analyzed concurrently, the results are
// joined in enumeration order, and the oracle combines the child
// summaries into the folder's own summary.
//
// # Failure Isolation
//
// Per-file read errors, parser failures, and oracle failures are all
// recovered locally: the affected node carries an error marker and the
// walk continues. Only a missing or unreadable root aborts an analysis.
//
// # Thread Safety
//
// A Walker is safe for concurrent use; each Walk call owns the tree it
// builds and nothing mutates a node after its branch completes.
package analyzer

import (
	"path/filepath"
	"slices"
	"strings"
)

// LanguageUnknown is the label assigned to unmapped file extensions.
const LanguageUnknown = "Unknown"

// Node is the result of analyzing one filesystem entry. It is a tagged
// union decided once at dispatch time from a filesystem type check:
// every Node is either a *FileNode or a *FolderNode.
type Node interface {
	// NodePath returns the absolute path of the analyzed entry.
	NodePath() string

	// Description returns the basename plus the node's best available
	// one-line description, used when reducing a parent folder.
	Description() string

	isNode()
}

// FileNode is the analysis of a single file. It is always a leaf.
//
// Err is mutually exclusive with the analytical fields: on a read
// failure the node carries only Path and Err.
type FileNode struct {
	Path           string   `json:"file_path"`
	Language       string   `json:"language,omitempty"`
	Functions      []string `json:"functions,omitempty"`
	Classes        []string `json:"classes,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
	Goal           string   `json:"goal,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	ContentSnippet string   `json:"content_snippet,omitempty"`
	Err            string   `json:"error,omitempty"`
}

// FolderNode is the analysis of a directory. Children appear in the
// same order the directory was enumerated, never completion order.
type FolderNode struct {
	Path     string `json:"folder_path"`
	Children []Node `json:"children"`
	Summary  string `json:"summary,omitempty"`
}

func (n *FileNode) isNode()   {}
func (n *FolderNode) isNode() {}

// NodePath returns the absolute path of the analyzed file.
func (n *FileNode) NodePath() string { return n.Path }

// NodePath returns the absolute path of the analyzed folder.
func (n *FolderNode) NodePath() string { return n.Path }

// Description returns "basename: goal" for a healthy file, or the error
// marker for a failed one. The goal is preferred over the multi-sentence
// summary to keep folder reduction prompts bounded.
func (n *FileNode) Description() string {
	base := filepath.Base(n.Path)
	switch {
	case n.Err != "":
		return base + ": unreadable (" + n.Err + ")"
	case n.Goal != "":
		return base + ": " + n.Goal
	default:
		return base + ": " + n.Summary
	}
}

// Description returns "basename: summary" for the folder.
func (n *FolderNode) Description() string {
	return filepath.Base(n.Path) + ": " + n.Summary
}

// Failed reports whether the file could not be read.
func (n *FileNode) Failed() bool { return n.Err != "" }

// Attributes holds the statically extracted declarations of one file.
// All three slices are sorted and deduplicated (set semantics).
type Attributes struct {
	Functions    []string
	Classes      []string
	Dependencies []string
}

// sortedSet deduplicates and sorts extraction results so that the scan
// order of the source never leaks into the output.
func sortedSet(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
