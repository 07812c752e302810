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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Oracle is the external summarization capability the walker depends
// on. Both operations are idempotent given identical input and may be
// invoked concurrently for sibling nodes; any backpressure or retry
// policy lives behind this interface, not in the walker.
type Oracle interface {
	// SummarizeFile produces a one-sentence goal and a multi-sentence
	// summary for a file's truncated content.
	SummarizeFile(ctx context.Context, filename, content string) (goal, summary string, err error)

	// SummarizeFolder combines child descriptions (basename plus
	// description, one per line, in enumeration order) into a folder
	// summary.
	SummarizeFolder(ctx context.Context, folderName, childDescriptions string) (string, error)
}

// Cache is the optional resumability layer consulted before invoking
// the oracle for a file, and written after each successful analysis.
// A lookup hits only when the stored entry matches the file's current
// content.
type Cache interface {
	Lookup(path string, content []byte) (*FileNode, bool)
	Store(path string, content []byte, node *FileNode) error
}

// Walker performs the recursive repository analysis.
//
// Per-node lifecycle: files move Pending → Reading → Extracting →
// Summarizing → Done, or Pending → Reading → Failed on a read error;
// folders move Pending → Expanding → AwaitingChildren → Reducing →
// Done. A folder's children all run concurrently and are joined before
// the folder reduces: a strict barrier, never a race. Children appear
// in enumeration order regardless of completion order, which keeps
// folder summaries and downstream document indices reproducible.
type Walker struct {
	classifier *Classifier
	extractor  *Extractor
	filter     *AccessFilter
	oracle     Oracle
	cache      Cache
	sem        *semaphore.Weighted
	config     Config
	logger     *slog.Logger

	// readFile is the file read hook, injectable for failure testing.
	readFile func(string) ([]byte, error)
}

// NewWalker creates a Walker.
//
// Description:
//
//	Wires the classifier, extractor, and access filter from the config
//	and validates the oracle dependency. The cache is optional; pass
//	nil to disable resumability.
//
// Inputs:
//
//	oracle - Summarization oracle. Must not be nil.
//	cache - Optional resumable cache, may be nil.
//	cfg - Walker configuration (zero values take defaults).
//	logger - Structured logger. Nil falls back to slog.Default().
//
// Outputs:
//
//	*Walker - The configured walker
//	error - Non-nil if the oracle is nil or the config is invalid
func NewWalker(oracle Oracle, cache Cache, cfg Config, logger *slog.Logger) (*Walker, error) {
	if oracle == nil {
		return nil, ErrNilOracle
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid walker config: %w", err)
	}
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{
		classifier: NewClassifier(cfg.LanguageMap),
		extractor:  NewExtractor(logger),
		filter:     NewAccessFilter(cfg.ExcludedDirs, logger),
		oracle:     oracle,
		cache:      cache,
		sem:        semaphore.NewWeighted(cfg.MaxConcurrentSummaries),
		config:     cfg,
		logger:     logger,
		readFile:   os.ReadFile,
	}, nil
}

// Walk analyzes the tree rooted at root and returns its Node.
//
// Description:
//
//	Resolves the root to an absolute path and verifies it exists and
//	is readable; this is the only failure that aborts an analysis.
//	Every other failure mode (unreadable files, oracle errors, parse
//	failures) is recovered locally and recorded on the affected node,
//	so a completed tree reflects every reachable entry exactly once.
//
// Inputs:
//
//	ctx - Context threaded through file reads and oracle calls
//	root - Path to the materialized repository root
//
// Outputs:
//
//	Node - The analysis tree (a *FolderNode for a directory root,
//	       a *FileNode for a file root)
//	error - ErrRootNotFound / ErrRootUnreadable wrapped with the path
func (w *Walker) Walk(ctx context.Context, root string) (Node, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrEmptyRoot
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %q: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, abs)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRootUnreadable, abs, err)
	}
	if info.IsDir() {
		if _, err := os.ReadDir(abs); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRootUnreadable, abs, err)
		}
	}

	w.logger.Info("starting analysis", "root", abs)
	node := w.walk(ctx, abs, info.IsDir())
	w.logger.Info("analysis complete", "root", abs)
	return node, nil
}

// walk dispatches one filesystem entry to the file or folder branch.
// The variant is decided here, once, from the filesystem type check.
func (w *Walker) walk(ctx context.Context, path string, isDir bool) Node {
	if isDir {
		return w.analyzeFolder(ctx, path)
	}
	return w.analyzeFile(ctx, path)
}

// analyzeFile runs the full file branch: read, classify, extract,
// truncate, summarize, assemble. A read failure terminates the branch
// with an error-only node; an oracle failure substitutes error markers
// for goal and summary while keeping the extracted attributes. Neither
// propagates to the parent's reduction.
func (w *Walker) analyzeFile(ctx context.Context, path string) *FileNode {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return &FileNode{Path: path, Err: err.Error()}
	}
	defer w.sem.Release(1)

	raw, err := w.readFile(path)
	if err != nil {
		w.logger.Warn("file read failed", "path", path, "error", err)
		return &FileNode{Path: path, Err: err.Error()}
	}

	if w.cache != nil {
		if cached, ok := w.cache.Lookup(path, raw); ok {
			w.logger.Debug("cache hit", "path", path)
			return cached
		}
	}

	// Permissive decode: invalid UTF-8 sequences are dropped rather
	// than failing the read.
	content := strings.ToValidUTF8(string(raw), "")
	language := w.classifier.Classify(path)
	attrs := w.extractor.Extract(ctx, content, language)

	node := &FileNode{
		Path:           path,
		Language:       language,
		Functions:      attrs.Functions,
		Classes:        attrs.Classes,
		Dependencies:   attrs.Dependencies,
		ContentSnippet: truncate(content, w.config.SnippetBytes),
	}

	goal, summary, err := w.oracle.SummarizeFile(ctx, filepath.Base(path), truncate(content, w.config.OracleBytes))
	if err != nil {
		w.logger.Warn("file summarization failed", "path", path, "error", err)
		marker := summarizationErrorMarker(err)
		node.Goal = marker
		node.Summary = marker
		return node
	}
	node.Goal = goal
	node.Summary = summary

	if w.cache != nil {
		if err := w.cache.Store(path, raw, node); err != nil {
			w.logger.Warn("cache store failed", "path", path, "error", err)
		}
	}
	return node
}

// analyzeFolder runs the folder branch: enumerate, filter, fan out one
// task per surviving child, join all of them, then reduce. The folder
// node is produced only after every child branch reached a terminal
// state; a settled child may itself carry an error.
func (w *Walker) analyzeFolder(ctx context.Context, path string) *FolderNode {
	entries, err := os.ReadDir(path)
	if err != nil {
		// The root was probed in Walk; a mid-walk enumeration failure
		// (permission change, deletion) degrades to an empty folder.
		w.logger.Warn("cannot enumerate directory", "path", path, "error", err)
		entries = nil
	}

	type childEntry struct {
		path  string
		isDir bool
	}
	var eligible []childEntry
	for _, entry := range entries {
		childPath := filepath.Join(path, entry.Name())
		if !w.filter.IsEligible(entry.Name(), childPath, entry.IsDir()) {
			continue
		}
		eligible = append(eligible, childEntry{path: childPath, isDir: entry.IsDir()})
	}

	// Fan-out/join: one task per child, reassembled by index so the
	// children sequence preserves enumeration order regardless of
	// which child finishes first.
	children := make([]Node, len(eligible))
	var g errgroup.Group
	for i, child := range eligible {
		g.Go(func() error {
			children[i] = w.walk(ctx, child.path, child.isDir)
			return nil
		})
	}
	_ = g.Wait() // barrier join; children report failures via their nodes

	node := &FolderNode{Path: path, Children: children}

	if len(children) == 0 {
		node.Summary = w.config.EmptyFolderSummary
		return node
	}

	descriptions := make([]string, len(children))
	for i, child := range children {
		descriptions[i] = child.Description()
	}

	if err := w.sem.Acquire(ctx, 1); err != nil {
		node.Summary = summarizationErrorMarker(err)
		return node
	}
	defer w.sem.Release(1)

	summary, err := w.oracle.SummarizeFolder(ctx, filepath.Base(path), strings.Join(descriptions, "\n"))
	if err != nil {
		w.logger.Warn("folder summarization failed", "path", path, "error", err)
		node.Summary = summarizationErrorMarker(err)
		return node
	}
	node.Summary = summary
	return node
}

// summarizationErrorMarker formats the in-tree marker substituted for
// a summary when the oracle fails.
func summarizationErrorMarker(err error) string {
	return fmt.Sprintf("[summarization failed: %v]", err)
}

// truncate returns a prefix of s at most n bytes long, backing off a
// few bytes when the cut would split a multi-byte rune.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
