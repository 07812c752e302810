// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package chat answers natural-language questions about an analyzed
// repository via retrieval-augmented generation: retrieve the nearest
// analysis documents, quote them into the RAG prompt, and generate.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/AleutianAI/reposage/services/analyzer"
	"github.com/AleutianAI/reposage/services/oracle"
)

// DefaultRAGTemplate is the retrieval-augmented answer prompt, in Go
// template format. Receives {{.context}} and {{.question}}.
const DefaultRAGTemplate = "You are an expert software engineer analyzing a GitHub repository.\n" +
	"Use the provided repository context to answer the user's question clearly and concisely.\n\n" +
	"Repository Context:\n{{.context}}\n\n" +
	"User Question: {{.question}}\n\n" +
	"Your answer:"

// Sentinel errors for the chat package.
var (
	// ErrNilLLMClient indicates the chain was built without a backend.
	ErrNilLLMClient = errors.New("llm client must not be nil")

	// ErrNilRetriever indicates no retriever was supplied.
	ErrNilRetriever = errors.New("retriever must not be nil")

	// ErrEmptyQuestion indicates an empty question was asked.
	ErrEmptyQuestion = errors.New("question must not be empty")
)

// Retriever returns the documents most relevant to a query. Satisfied
// by the index service.
type Retriever interface {
	Search(ctx context.Context, query, repoID string, limit int) ([]analyzer.Document, error)
}

// Config configures a Chain.
type Config struct {
	// RAGTemplate overrides the answer prompt. Empty takes the default.
	RAGTemplate string

	// TopK is how many documents are retrieved per question.
	// Default: 5
	TopK int

	// RepoID restricts retrieval to one analyzed repository.
	// Empty searches across all indexed repositories.
	RepoID string

	// Temperature for answer generation. Default: 0
	Temperature float32
}

// applyDefaults fills in zero values with defaults.
func (c *Config) applyDefaults() {
	if c.RAGTemplate == "" {
		c.RAGTemplate = DefaultRAGTemplate
	}
	if c.TopK == 0 {
		c.TopK = 5
	}
}

// Chain is the RAG question-answering chain.
type Chain struct {
	llm       oracle.LLMClient
	retriever Retriever
	tmpl      prompts.PromptTemplate
	config    Config
	logger    *slog.Logger
}

// NewChain creates a Chain.
func NewChain(llm oracle.LLMClient, retriever Retriever, cfg Config, logger *slog.Logger) (*Chain, error) {
	if llm == nil {
		return nil, ErrNilLLMClient
	}
	if retriever == nil {
		return nil, ErrNilRetriever
	}
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		llm:       llm,
		retriever: retriever,
		tmpl:      prompts.NewPromptTemplate(cfg.RAGTemplate, []string{"context", "question"}),
		config:    cfg,
		logger:    logger,
	}, nil
}

// Ask answers one question about the indexed repository.
//
// Description:
//
//	Retrieves the TopK nearest documents, renders them into the RAG
//	prompt, and generates the answer. The retrieved documents are
//	returned alongside the answer so callers can cite sources.
//
// Inputs:
//
//	ctx - Context for cancellation
//	question - The user's question
//
// Outputs:
//
//	string - The generated answer
//	[]analyzer.Document - The documents used as context
//	error - Non-nil if retrieval or generation fails
func (c *Chain) Ask(ctx context.Context, question string) (string, []analyzer.Document, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil, ErrEmptyQuestion
	}

	docs, err := c.retriever.Search(ctx, question, c.config.RepoID, c.config.TopK)
	if err != nil {
		return "", nil, fmt.Errorf("retrieving context: %w", err)
	}
	c.logger.Debug("retrieved context", "question", question, "documents", len(docs))

	prompt, err := c.tmpl.Format(map[string]any{
		"context":  renderContext(docs),
		"question": question,
	})
	if err != nil {
		return "", nil, fmt.Errorf("formatting RAG prompt: %w", err)
	}

	answer, err := c.llm.Generate(ctx, prompt, oracle.GenerationParams{Temperature: &c.config.Temperature})
	if err != nil {
		return "", nil, fmt.Errorf("generating answer: %w", err)
	}
	return answer, docs, nil
}

// renderContext formats retrieved documents for the prompt, one block
// per document in retrieval order.
func renderContext(docs []analyzer.Document) string {
	if len(docs) == 0 {
		return "(no matching repository context found)"
	}
	blocks := make([]string, len(docs))
	for i, doc := range docs {
		blocks[i] = fmt.Sprintf("%s\n%s\n%s", doc.Path, doc.Goal, doc.Summary)
	}
	return strings.Join(blocks, "\n---\n")
}
