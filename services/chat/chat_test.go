// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/reposage/services/analyzer"
	"github.com/AleutianAI/reposage/services/oracle"
)

type fakeRetriever struct {
	docs      []analyzer.Document
	err       error
	lastQuery string
	lastRepo  string
	lastLimit int
}

func (f *fakeRetriever) Search(ctx context.Context, query, repoID string, limit int) ([]analyzer.Document, error) {
	f.lastQuery = query
	f.lastRepo = repoID
	f.lastLimit = limit
	return f.docs, f.err
}

type fakeLLM struct {
	lastPrompt string
	answer     string
	err        error
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, params oracle.GenerationParams) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func TestNewChain(t *testing.T) {
	t.Run("nil llm rejected", func(t *testing.T) {
		_, err := NewChain(nil, &fakeRetriever{}, Config{}, nil)
		assert.ErrorIs(t, err, ErrNilLLMClient)
	})

	t.Run("nil retriever rejected", func(t *testing.T) {
		_, err := NewChain(&fakeLLM{}, nil, Config{}, nil)
		assert.ErrorIs(t, err, ErrNilRetriever)
	})
}

func TestChain_Ask(t *testing.T) {
	retriever := &fakeRetriever{docs: []analyzer.Document{
		{Path: "/repo/a.py", Goal: "entry point", Summary: "runs the app"},
		{Path: "/repo/b.py", Goal: "helpers", Summary: "shared utilities"},
	}}
	llm := &fakeLLM{answer: "It is a web app."}
	chain, err := NewChain(llm, retriever, Config{RepoID: "myrepo-abc", TopK: 3}, nil)
	require.NoError(t, err)

	answer, docs, err := chain.Ask(context.Background(), "What is this repo?")
	require.NoError(t, err)
	assert.Equal(t, "It is a web app.", answer)
	assert.Len(t, docs, 2)

	// Retrieval was scoped by the configured repo and limit.
	assert.Equal(t, "What is this repo?", retriever.lastQuery)
	assert.Equal(t, "myrepo-abc", retriever.lastRepo)
	assert.Equal(t, 3, retriever.lastLimit)

	// The prompt embeds the retrieved blocks and the question.
	assert.Contains(t, llm.lastPrompt, "/repo/a.py")
	assert.Contains(t, llm.lastPrompt, "shared utilities")
	assert.Contains(t, llm.lastPrompt, "What is this repo?")
}

func TestChain_Ask_EmptyQuestion(t *testing.T) {
	chain, err := NewChain(&fakeLLM{}, &fakeRetriever{}, Config{}, nil)
	require.NoError(t, err)

	_, _, err = chain.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestChain_Ask_NoContext(t *testing.T) {
	llm := &fakeLLM{answer: "I don't know."}
	chain, err := NewChain(llm, &fakeRetriever{}, Config{}, nil)
	require.NoError(t, err)

	answer, docs, err := chain.Ask(context.Background(), "Anything?")
	require.NoError(t, err)
	assert.Equal(t, "I don't know.", answer)
	assert.Empty(t, docs)
	assert.Contains(t, llm.lastPrompt, "(no matching repository context found)")
}

func TestChain_Ask_RetrievalFailure(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("weaviate down")}
	chain, err := NewChain(&fakeLLM{}, retriever, Config{}, nil)
	require.NoError(t, err)

	_, _, err = chain.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieving context")
}

func TestChain_Ask_GenerationFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("model offline")}
	chain, err := NewChain(llm, &fakeRetriever{}, Config{}, nil)
	require.NoError(t, err)

	_, _, err = chain.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating answer")
}

func TestRenderContext(t *testing.T) {
	docs := []analyzer.Document{
		{Path: "/a", Goal: "g1", Summary: "s1"},
		{Path: "/b", Goal: "g2", Summary: "s2"},
	}
	out := renderContext(docs)
	assert.Equal(t, "/a\ng1\ns1\n---\n/b\ng2\ns2", out)
}
