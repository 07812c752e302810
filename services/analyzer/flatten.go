// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analyzer

// Document is one flattened entry of an analysis tree, ready for the
// indexing collaborator. Document order is the stable depth-first
// order of the tree, which itself preserves filesystem enumeration
// order.
type Document struct {
	Path    string `json:"path"`
	Goal    string `json:"goal,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// FlattenFiles converts a tree into a document per FileNode, recursing
// through folders without contributing a document for the folder
// itself. Error-carrying files are skipped; they have no summarized
// content to index. This is the chat-indexing flattening mode.
func FlattenFiles(root Node) []Document {
	var docs []Document
	flatten(root, false, &docs)
	return docs
}

// FlattenAll converts a tree into one document per node, folders
// included. Folder documents carry the reduced summary and no goal.
// This is the full-attributes flattening mode.
func FlattenAll(root Node) []Document {
	var docs []Document
	flatten(root, true, &docs)
	return docs
}

func flatten(node Node, includeFolders bool, docs *[]Document) {
	switch n := node.(type) {
	case *FileNode:
		if n.Failed() {
			return
		}
		*docs = append(*docs, Document{Path: n.Path, Goal: n.Goal, Summary: n.Summary})
	case *FolderNode:
		if includeFolders {
			*docs = append(*docs, Document{Path: n.Path, Summary: n.Summary})
		}
		for _, child := range n.Children {
			flatten(child, includeFolders, docs)
		}
	}
}
