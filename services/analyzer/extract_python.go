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

import (
	"context"
	"errors"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// errParseFailed is returned internally when the precise parse cannot
// be trusted; the caller falls back to heuristic extraction.
var errParseFailed = errors.New("precise parse failed")

// extractPython parses Python source with tree-sitter and collects
// function definitions, class definitions, and imports from the whole
// tree, nested scopes included.
//
// A parser error or an errored syntax tree returns errParseFailed so
// the caller can fall back to pattern-based extraction; this function
// never surfaces a failure beyond that sentinel.
func (e *Extractor) extractPython(ctx context.Context, content string) (Attributes, error) {
	src := []byte(content)

	// Parsers are not safe for concurrent use; extraction runs from
	// many walker goroutines, so each call owns its parser.
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return Attributes{}, errParseFailed
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return Attributes{}, errParseFailed
	}

	var functions, classes, imports []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "function_definition":
			if name := n.ChildByFieldName("name"); name != nil {
				functions = append(functions, name.Content(src))
			}
		case "class_definition":
			if name := n.ChildByFieldName("name"); name != nil {
				classes = append(classes, name.Content(src))
			}
		case "import_statement":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				imports = append(imports, importedName(n.NamedChild(i), src)...)
			}
		case "import_from_statement":
			if module := n.ChildByFieldName("module_name"); module != nil {
				imports = append(imports, module.Content(src))
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(root)

	return Attributes{
		Functions:    sortedSet(functions),
		Classes:      sortedSet(classes),
		Dependencies: sortedSet(imports),
	}, nil
}

// importedName resolves one child of an import_statement to the module
// name it binds: either a bare dotted_name or the name side of an
// aliased_import ("import numpy as np" records "numpy").
func importedName(n *sitter.Node, src []byte) []string {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "dotted_name":
		return []string{n.Content(src)}
	case "aliased_import":
		if name := n.ChildByFieldName("name"); name != nil {
			return []string{name.Content(src)}
		}
	}
	return nil
}
