// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package oracle adapts language-model backends into the summarization
// oracle consumed by the analyzer and the RAG chat chain.
//
// The package separates two layers: LLMClient is a thin text-in,
// text-out backend interface (OpenAI and Ollama implementations are
// provided), and Summarizer composes an LLMClient with configurable
// prompt templates and a bounded retry policy into the file/folder
// summarization operations.
package oracle

import "context"

// GenerationParams tunes a single generation request. Nil fields leave
// the backend's defaults in place.
type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// LLMClient defines the standard interface for any LLM backend.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}
