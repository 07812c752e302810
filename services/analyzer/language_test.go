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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Defaults(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		path string
		want string
	}{
		{"main.py", "Python"},
		{"/abs/path/app.js", "JavaScript"},
		{"component.tsx", "React (TypeScript)"},
		{"component.jsx", "React (JavaScript)"},
		{"server.go", "Go"},
		{"style.css", "CSS"},
		{"INDEX.HTML", "HTML"},
		{"README.md", "Markdown"},
		{"config.yaml", "YAML"},
		{"Makefile", LanguageUnknown},
		{"archive.tar.gz", LanguageUnknown},
		{"noext", LanguageUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.path))
		})
	}
}

func TestClassifier_CustomTable(t *testing.T) {
	c := NewClassifier(map[string]string{
		".zig": "Zig",
		"ex":   "Elixir", // missing dot is normalized
		".PY":  "Python", // key case is normalized
	})

	assert.Equal(t, "Zig", c.Classify("build.zig"))
	assert.Equal(t, "Elixir", c.Classify("app.ex"))
	assert.Equal(t, "Python", c.Classify("script.py"))
	// A custom table replaces the defaults entirely.
	assert.Equal(t, LanguageUnknown, c.Classify("app.js"))
}
