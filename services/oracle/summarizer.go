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
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/prompts"
	"golang.org/x/sync/errgroup"
)

// Sentinel errors for the oracle package.
var (
	// ErrNilLLMClient indicates the summarizer was built without a backend.
	ErrNilLLMClient = errors.New("llm client must not be nil")
)

// Config configures a Summarizer.
type Config struct {
	// GoalTemplate, SummaryTemplate, and FolderTemplate are prompt
	// templates in Go template format. Empty fields take the package
	// defaults. Goal and summary templates receive {{.filename}} and
	// {{.content}}; the folder template receives {{.folder_name}} and
	// {{.child_summaries}}.
	GoalTemplate    string
	SummaryTemplate string
	FolderTemplate  string

	// RetryAttempts is how many times a failed generation is retried
	// before the error is surfaced to the caller. One retry absorbs
	// transient API failures without stalling a large walk on a
	// persistently failing backend.
	// Default: 1
	RetryAttempts int

	// RetryBackoff is the pause before each retry.
	// Default: 500ms
	RetryBackoff time.Duration

	// Temperature for all summarization calls. Summaries should be
	// deterministic, so this defaults to 0.
	Temperature float32
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		GoalTemplate:    DefaultGoalTemplate,
		SummaryTemplate: DefaultSummaryTemplate,
		FolderTemplate:  DefaultFolderTemplate,
		RetryAttempts:   1,
		RetryBackoff:    500 * time.Millisecond,
	}
}

// applyDefaults fills in zero values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.GoalTemplate == "" {
		c.GoalTemplate = defaults.GoalTemplate
	}
	if c.SummaryTemplate == "" {
		c.SummaryTemplate = defaults.SummaryTemplate
	}
	if c.FolderTemplate == "" {
		c.FolderTemplate = defaults.FolderTemplate
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = defaults.RetryAttempts
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = defaults.RetryBackoff
	}
}

// Summarizer composes an LLMClient with prompt templates into the
// summarization oracle the walker consumes.
//
// Both operations are idempotent for identical input and safe for
// concurrent use; rate limiting and retries are handled here, never by
// the walker.
type Summarizer struct {
	llm         LLMClient
	goalTmpl    prompts.PromptTemplate
	summaryTmpl prompts.PromptTemplate
	folderTmpl  prompts.PromptTemplate
	config      Config
	logger      *slog.Logger
}

// NewSummarizer creates a Summarizer.
//
// Description:
//
//	Compiles the three prompt templates and wires the backend. The
//	summarizer is constructed per analysis run and injected into the
//	walker; nothing here is process-global.
//
// Inputs:
//
//	llm - Text generation backend. Must not be nil.
//	cfg - Summarizer configuration (zero values take defaults).
//	logger - Structured logger. Nil falls back to slog.Default().
//
// Outputs:
//
//	*Summarizer - The configured summarizer
//	error - Non-nil if llm is nil
func NewSummarizer(llm LLMClient, cfg Config, logger *slog.Logger) (*Summarizer, error) {
	if llm == nil {
		return nil, ErrNilLLMClient
	}
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		llm:         llm,
		goalTmpl:    prompts.NewPromptTemplate(cfg.GoalTemplate, []string{"filename", "content"}),
		summaryTmpl: prompts.NewPromptTemplate(cfg.SummaryTemplate, []string{"filename", "content"}),
		folderTmpl:  prompts.NewPromptTemplate(cfg.FolderTemplate, []string{"folder_name", "child_summaries"}),
		config:      cfg,
		logger:      logger,
	}, nil
}

// SummarizeFile produces the goal and summary for one file. The two
// generations run concurrently; both must complete for a nil error.
func (s *Summarizer) SummarizeFile(ctx context.Context, filename, content string) (string, string, error) {
	values := map[string]any{"filename": filename, "content": content}

	goalPrompt, err := s.goalTmpl.Format(values)
	if err != nil {
		return "", "", fmt.Errorf("formatting goal prompt: %w", err)
	}
	summaryPrompt, err := s.summaryTmpl.Format(values)
	if err != nil {
		return "", "", fmt.Errorf("formatting summary prompt: %w", err)
	}

	var goal, summary string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var genErr error
		goal, genErr = s.generateWithRetry(gctx, goalPrompt)
		return genErr
	})
	g.Go(func() error {
		var genErr error
		summary, genErr = s.generateWithRetry(gctx, summaryPrompt)
		return genErr
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return goal, summary, nil
}

// SummarizeFolder reduces child descriptions into one folder summary.
func (s *Summarizer) SummarizeFolder(ctx context.Context, folderName, childDescriptions string) (string, error) {
	prompt, err := s.folderTmpl.Format(map[string]any{
		"folder_name":     folderName,
		"child_summaries": childDescriptions,
	})
	if err != nil {
		return "", fmt.Errorf("formatting folder prompt: %w", err)
	}
	return s.generateWithRetry(ctx, prompt)
}

// generateWithRetry issues one generation with the configured bounded
// retry. Context cancellation is never retried.
func (s *Summarizer) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	params := GenerationParams{Temperature: &s.config.Temperature}

	var lastErr error
	for attempt := 0; attempt <= s.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			s.logger.Warn("retrying generation", "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(s.config.RetryBackoff):
			}
		}
		out, err := s.llm.Generate(ctx, prompt, params)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
	}
	return "", lastErr
}
