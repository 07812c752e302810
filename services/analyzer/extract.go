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
	"log/slog"
	"regexp"
	"strings"
)

// languageFamily selects the extraction strategy for a language label.
type languageFamily int

const (
	familyPython languageFamily = iota
	familyJSLike
	familyMarkup
	familyGeneric
)

// familyOf maps a classifier label to its extraction family.
func familyOf(language string) languageFamily {
	switch language {
	case "Python":
		return familyPython
	case "JavaScript", "TypeScript", "React (JavaScript)", "React (TypeScript)":
		return familyJSLike
	case "HTML", "CSS":
		return familyMarkup
	default:
		return familyGeneric
	}
}

// Declaration patterns per family. The JS-like and generic sets cover
// the common function/class/import keywords of C-like languages; the
// markup set extracts structural class attributes and linked resources
// instead of declarations.
var (
	pyFuncPattern   = regexp.MustCompile(`(?m)^\s*(?:async\s+)?def\s+([a-zA-Z_][a-zA-Z0-9_]*)`)
	pyClassPattern  = regexp.MustCompile(`(?m)^\s*class\s+([a-zA-Z_][a-zA-Z0-9_]*)`)
	pyImportPattern = regexp.MustCompile(`(?m)^\s*(?:import|from)\s+([a-zA-Z0-9_.]+)`)

	jsFuncPattern   = regexp.MustCompile(`(?:function\s+|const\s+|let\s+|async\s+function\s+|export\s+function\s+)([a-zA-Z_][a-zA-Z0-9_]*)`)
	jsClassPattern  = regexp.MustCompile(`(?:class|export\s+class)\s+([A-Z][A-Za-z0-9_]*)`)
	jsImportPattern = regexp.MustCompile(`import\s+(?:[\w{}*,\s]+from\s+)?["']([a-zA-Z0-9_\-./@]+)["']`)

	markupClassPattern = regexp.MustCompile(`class\s*=\s*["']([^"']+)["']`)
	markupLinkPattern  = regexp.MustCompile(`<link\s+[^>]*href=["']([^"']+)["']`)

	genericFuncPattern   = regexp.MustCompile(`(?:\bdef|\bfunction|\bproc|\bfunc|\bfn)\s+(?:\([^)]*\)\s+)?([a-zA-Z_][a-zA-Z0-9_]*)`)
	genericClassPattern  = regexp.MustCompile(`(?:\bclass|\bstruct|\btype)\s+([A-Z][A-Za-z0-9_]*)`)
	genericImportPattern = regexp.MustCompile(`(?:\bimport|\binclude|\brequire)\s+["<]?([a-zA-Z0-9_./\-]+)[">]?`)
)

// Extractor statically extracts function names, class names, and
// import/dependency identifiers from file content.
//
// Python is parsed precisely with tree-sitter; a parse that produces an
// errored tree falls back to the Python heuristic patterns. All other
// recognized families use pattern rules tuned for that family's common
// declaration syntax. The fallback contract is hard: extraction never
// returns an error and never aborts the walk.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor builds an Extractor. A nil logger falls back to
// slog.Default().
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract returns the declared attributes of content in the given
// language. Results are sorted, deduplicated sets: extraction order
// never leaks into the output.
func (e *Extractor) Extract(ctx context.Context, content, language string) Attributes {
	switch familyOf(language) {
	case familyPython:
		attrs, err := e.extractPython(ctx, content)
		if err == nil {
			return attrs
		}
		e.logger.Debug("precise parse failed, using heuristics", "language", language, "error", err)
		return Attributes{
			Functions:    sortedSet(captures(pyFuncPattern, content)),
			Classes:      sortedSet(captures(pyClassPattern, content)),
			Dependencies: sortedSet(captures(pyImportPattern, content)),
		}
	case familyJSLike:
		return Attributes{
			Functions:    sortedSet(captures(jsFuncPattern, content)),
			Classes:      sortedSet(captures(jsClassPattern, content)),
			Dependencies: sortedSet(captures(jsImportPattern, content)),
		}
	case familyMarkup:
		// Markup has no functions in the conventional sense; class
		// attributes and linked resources take their place.
		return Attributes{
			Functions:    []string{},
			Classes:      sortedSet(splitClassAttrs(captures(markupClassPattern, content))),
			Dependencies: sortedSet(captures(markupLinkPattern, content)),
		}
	default:
		return Attributes{
			Functions:    sortedSet(captures(genericFuncPattern, content)),
			Classes:      sortedSet(captures(genericClassPattern, content)),
			Dependencies: sortedSet(captures(genericImportPattern, content)),
		}
	}
}

// captures returns the first capture group of every match.
func captures(re *regexp.Regexp, content string) []string {
	matches := re.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 1 {
			out = append(out, m[1])
		}
	}
	return out
}

// splitClassAttrs splits space-separated HTML class attribute values
// into individual class names.
func splitClassAttrs(attrs []string) []string {
	var out []string
	for _, attr := range attrs {
		out = append(out, strings.Fields(attr)...)
	}
	return out
}
