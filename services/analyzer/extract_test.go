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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Python(t *testing.T) {
	e := NewExtractor(nil)
	ctx := context.Background()

	t.Run("precise parse", func(t *testing.T) {
		src := `import os
from collections import OrderedDict
import numpy as np

class Pipeline:
    def run(self):
        pass

async def fetch_all():
    pass

def helper():
    pass
`
		attrs := e.Extract(ctx, src, "Python")
		assert.Equal(t, []string{"fetch_all", "helper", "run"}, attrs.Functions)
		assert.Equal(t, []string{"Pipeline"}, attrs.Classes)
		assert.Equal(t, []string{"collections", "numpy", "os"}, attrs.Dependencies)
	})

	t.Run("broken source falls back to heuristics", func(t *testing.T) {
		// Unterminated string makes the precise parse error out; the
		// pattern fallback still finds the well-formed declarations.
		src := "import json\n\ndef salvageable():\n    pass\n\nx = \"unterminated\n"
		attrs := e.Extract(ctx, src, "Python")
		assert.Contains(t, attrs.Functions, "salvageable")
		assert.Contains(t, attrs.Dependencies, "json")
	})

	t.Run("deterministic across declaration order", func(t *testing.T) {
		decls := []string{"def zeta(): pass", "def alpha(): pass", "class Mid: pass"}
		forward := e.Extract(ctx, strings.Join(decls, "\n"), "Python")
		reversed := e.Extract(ctx, decls[2]+"\n"+decls[1]+"\n"+decls[0], "Python")
		assert.Equal(t, forward.Functions, reversed.Functions)
		assert.Equal(t, forward.Classes, reversed.Classes)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		src := "import os\nimport os\n\ndef f(): pass\n\ndef f(): pass\n"
		attrs := e.Extract(ctx, src, "Python")
		assert.Equal(t, []string{"f"}, attrs.Functions)
		assert.Equal(t, []string{"os"}, attrs.Dependencies)
	})
}

func TestExtractor_JavaScript(t *testing.T) {
	e := NewExtractor(nil)
	src := `import React from 'react'
import { api } from './lib/api'

export class Widget extends React.Component {}

function render() {}
const handler = () => {}
`
	attrs := e.Extract(context.Background(), src, "JavaScript")
	assert.Contains(t, attrs.Functions, "render")
	assert.Contains(t, attrs.Functions, "handler")
	assert.Equal(t, []string{"Widget"}, attrs.Classes)
	assert.Equal(t, []string{"./lib/api", "react"}, attrs.Dependencies)
}

func TestExtractor_HTML(t *testing.T) {
	e := NewExtractor(nil)
	src := `<html><head>
<link rel="stylesheet" href="styles/main.css">
</head>
<body class="dark layout">
<div class="layout card"></div>
</body></html>`
	attrs := e.Extract(context.Background(), src, "HTML")
	assert.Empty(t, attrs.Functions)
	assert.Equal(t, []string{"card", "dark", "layout"}, attrs.Classes)
	assert.Equal(t, []string{"styles/main.css"}, attrs.Dependencies)
}

func TestExtractor_GenericFamily(t *testing.T) {
	e := NewExtractor(nil)
	src := `package demo

import "fmt"

type Server struct {}

func (s *Server) Start() {}
func helper() {}
`
	attrs := e.Extract(context.Background(), src, "Go")
	assert.Contains(t, attrs.Functions, "helper")
	assert.Contains(t, attrs.Classes, "Server")
	assert.Contains(t, attrs.Dependencies, "fmt")
}

func TestExtractor_UnknownLanguageNeverPanics(t *testing.T) {
	e := NewExtractor(nil)
	attrs := e.Extract(context.Background(), "arbitrary\x00binary\xffcontent", LanguageUnknown)
	require.NotNil(t, attrs.Functions)
	require.NotNil(t, attrs.Classes)
	require.NotNil(t, attrs.Dependencies)
}

func TestFamilyOf(t *testing.T) {
	assert.Equal(t, familyPython, familyOf("Python"))
	assert.Equal(t, familyJSLike, familyOf("TypeScript"))
	assert.Equal(t, familyJSLike, familyOf("React (JavaScript)"))
	assert.Equal(t, familyMarkup, familyOf("CSS"))
	assert.Equal(t, familyGeneric, familyOf("Rust"))
	assert.Equal(t, familyGeneric, familyOf(LanguageUnknown))
}
