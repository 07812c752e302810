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
	"path/filepath"
	"strings"
)

// defaultLanguageMap maps file extensions (lowercase, with dot) to
// language labels. Overridable from configuration; unmapped extensions
// classify as LanguageUnknown rather than failing.
var defaultLanguageMap = map[string]string{
	".py":    "Python",
	".js":    "JavaScript",
	".ts":    "TypeScript",
	".jsx":   "React (JavaScript)",
	".tsx":   "React (TypeScript)",
	".go":    "Go",
	".java":  "Java",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".hpp":   "C++",
	".cs":    "C#",
	".rs":    "Rust",
	".rb":    "Ruby",
	".php":   "PHP",
	".kt":    "Kotlin",
	".swift": "Swift",
	".scala": "Scala",
	".html":  "HTML",
	".htm":   "HTML",
	".css":   "CSS",
	".sh":    "Shell",
	".sql":   "SQL",
	".md":    "Markdown",
	".txt":   "Text",
	".json":  "JSON",
	".yml":   "YAML",
	".yaml":  "YAML",
	".toml":  "TOML",
	".xml":   "XML",
}

// Classifier maps a file path's extension to a language label.
//
// Classification is a pure function of the extension (case-insensitive)
// against a lookup table supplied at construction time.
type Classifier struct {
	table map[string]string
}

// NewClassifier builds a Classifier from the given extension table.
// Keys are normalized to lowercase with a leading dot. A nil or empty
// table falls back to the built-in default map.
func NewClassifier(table map[string]string) *Classifier {
	if len(table) == 0 {
		return &Classifier{table: defaultLanguageMap}
	}
	normalized := make(map[string]string, len(table))
	for ext, label := range table {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || label == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[ext] = label
	}
	return &Classifier{table: normalized}
}

// Classify returns the language label for the path's extension, or
// LanguageUnknown for unmapped or missing extensions. Never fails.
func (c *Classifier) Classify(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if label, ok := c.table[ext]; ok {
		return label
	}
	return LanguageUnknown
}
