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
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	"github.com/AleutianAI/reposage/pkg/config"
	"github.com/AleutianAI/reposage/services/index"
	"github.com/AleutianAI/reposage/services/oracle"
)

// buildLLM constructs the generation backend named by the config.
func buildLLM(cfg config.Config) (oracle.LLMClient, error) {
	switch cfg.Oracle.Backend {
	case "", "openai":
		return oracle.NewOpenAIClient()
	case "ollama":
		return oracle.NewOllamaClient()
	default:
		return nil, fmt.Errorf("unknown oracle backend %q (want openai or ollama)", cfg.Oracle.Backend)
	}
}

// buildSummarizer wires the configured LLM into a Summarizer with any
// prompt overrides from the config file.
func buildSummarizer(cfg config.Config, llm oracle.LLMClient, logger *slog.Logger) (*oracle.Summarizer, error) {
	oc := oracle.DefaultConfig()
	if cfg.Oracle.GoalPrompt != "" {
		oc.GoalTemplate = cfg.Oracle.GoalPrompt
	}
	if cfg.Oracle.SummaryPrompt != "" {
		oc.SummaryTemplate = cfg.Oracle.SummaryPrompt
	}
	if cfg.Oracle.FolderPrompt != "" {
		oc.FolderTemplate = cfg.Oracle.FolderPrompt
	}
	if cfg.Oracle.RetryAttempts > 0 {
		oc.RetryAttempts = cfg.Oracle.RetryAttempts
	}
	if cfg.Oracle.RetryBackoff > 0 {
		oc.RetryBackoff = cfg.Oracle.RetryBackoff.Std()
	}
	return oracle.NewSummarizer(llm, oc, logger)
}

// buildIndexer connects to Weaviate and wraps it in an Indexer.
//
// The embedder must be an OpenAI client; Ollama generation backends
// still embed through OpenAI, matching the retrieval stack the index
// schema was built for.
func buildIndexer(cfg config.Config, llm oracle.LLMClient, logger *slog.Logger) (*index.Indexer, error) {
	embedder, ok := llm.(index.Embedder)
	if !ok {
		client, err := oracle.NewOpenAIClient()
		if err != nil {
			return nil, fmt.Errorf("indexing requires an embedding backend: %w", err)
		}
		embedder = client
	}
	wc, err := weaviate.NewClient(weaviate.Config{
		Host:   cfg.Index.Host,
		Scheme: cfg.Index.Scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("creating weaviate client: %w", err)
	}
	return index.NewIndexer(wc, embedder, logger)
}
