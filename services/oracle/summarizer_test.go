// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package oracle

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM is a scriptable LLMClient. Responses are keyed by a substring
// of the prompt; errs fail the first n calls.
type fakeLLM struct {
	mu      sync.Mutex
	prompts []string
	failN   int
	err     error
	reply   func(prompt string) string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.failN > 0 {
		f.failN--
		return "", f.err
	}
	if f.reply != nil {
		return f.reply(prompt), nil
	}
	return "generated", nil
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func TestNewSummarizer(t *testing.T) {
	t.Run("nil llm rejected", func(t *testing.T) {
		_, err := NewSummarizer(nil, DefaultConfig(), nil)
		assert.ErrorIs(t, err, ErrNilLLMClient)
	})

	t.Run("defaults applied", func(t *testing.T) {
		s, err := NewSummarizer(&fakeLLM{}, Config{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, s.config.RetryAttempts)
		assert.Equal(t, 500*time.Millisecond, s.config.RetryBackoff)
	})
}

func TestSummarizer_SummarizeFile(t *testing.T) {
	llm := &fakeLLM{reply: func(prompt string) string {
		if strings.Contains(prompt, "primary goal") {
			return "the goal"
		}
		return "the summary"
	}}
	s, err := NewSummarizer(llm, DefaultConfig(), nil)
	require.NoError(t, err)

	goal, summary, err := s.SummarizeFile(context.Background(), "main.py", "def main(): pass")
	require.NoError(t, err)
	assert.Equal(t, "the goal", goal)
	assert.Equal(t, "the summary", summary)

	// Both prompts interpolated filename and content.
	require.Equal(t, 2, llm.callCount())
	for _, p := range llm.prompts {
		assert.Contains(t, p, "main.py")
		assert.Contains(t, p, "def main(): pass")
	}
}

func TestSummarizer_SummarizeFolder(t *testing.T) {
	llm := &fakeLLM{reply: func(string) string { return "folder rollup" }}
	s, err := NewSummarizer(llm, DefaultConfig(), nil)
	require.NoError(t, err)

	out, err := s.SummarizeFolder(context.Background(), "services", "a.py: does a\nb.py: does b")
	require.NoError(t, err)
	assert.Equal(t, "folder rollup", out)

	require.Equal(t, 1, llm.callCount())
	assert.Contains(t, llm.prompts[0], "services")
	assert.Contains(t, llm.prompts[0], "a.py: does a")
}

func TestSummarizer_CustomTemplates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GoalTemplate = "GOAL {{.filename}}"
	cfg.SummaryTemplate = "SUMMARY {{.filename}}"
	cfg.FolderTemplate = "FOLDER {{.folder_name}} :: {{.child_summaries}}"

	llm := &fakeLLM{reply: func(p string) string { return p }}
	s, err := NewSummarizer(llm, cfg, nil)
	require.NoError(t, err)

	goal, summary, err := s.SummarizeFile(context.Background(), "x.py", "code")
	require.NoError(t, err)
	assert.Equal(t, "GOAL x.py", goal)
	assert.Equal(t, "SUMMARY x.py", summary)

	out, err := s.SummarizeFolder(context.Background(), "pkg", "kids")
	require.NoError(t, err)
	assert.Equal(t, "FOLDER pkg :: kids", out)
}

func TestSummarizer_RetryRecoversTransientFailure(t *testing.T) {
	llm := &fakeLLM{failN: 1, err: errors.New("transient"), reply: func(string) string { return "recovered" }}
	cfg := DefaultConfig()
	cfg.RetryBackoff = time.Millisecond
	s, err := NewSummarizer(llm, cfg, nil)
	require.NoError(t, err)

	out, err := s.SummarizeFolder(context.Background(), "f", "kids")
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, 2, llm.callCount())
}

func TestSummarizer_RetriesAreBounded(t *testing.T) {
	llm := &fakeLLM{failN: 10, err: errors.New("persistent")}
	cfg := DefaultConfig()
	cfg.RetryAttempts = 2
	cfg.RetryBackoff = time.Millisecond
	s, err := NewSummarizer(llm, cfg, nil)
	require.NoError(t, err)

	_, err = s.SummarizeFolder(context.Background(), "f", "kids")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistent")
	assert.Equal(t, 3, llm.callCount(), "initial attempt plus two retries")
}

func TestSummarizer_NoRetryOnCancellation(t *testing.T) {
	llm := &fakeLLM{failN: 10, err: context.Canceled}
	cfg := DefaultConfig()
	cfg.RetryAttempts = 5
	cfg.RetryBackoff = time.Millisecond
	s, err := NewSummarizer(llm, cfg, nil)
	require.NoError(t, err)

	_, err = s.SummarizeFolder(context.Background(), "f", "kids")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, llm.callCount(), "cancellation must not be retried")
}
