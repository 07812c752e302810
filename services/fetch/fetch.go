// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package fetch materializes the repository to analyze: either a
// shallow git clone of a remote URL into a temporary directory, or a
// validated local path. The analyzer only ever sees a readable root;
// working-copy lifecycle stops at read access.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Sentinel errors for the fetch package.
var (
	// ErrEmptySource indicates an empty URL or path.
	ErrEmptySource = errors.New("repository source must not be empty")

	// ErrNotADirectory indicates a local source that is not a directory.
	ErrNotADirectory = errors.New("local repository path is not a directory")
)

// Result describes a materialized repository.
type Result struct {
	// Root is the readable repository root handed to the analyzer.
	Root string

	// Cleanup removes the temporary clone. A no-op for local paths.
	Cleanup func()
}

// IsRemote reports whether source looks like a git URL rather than a
// local path.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "ssh://")
}

// Materialize resolves source into a readable repository root.
//
// Description:
//
//	Remote sources are shallow-cloned (depth 1) into a fresh temporary
//	directory; local sources are validated to exist and be
//	directories. The returned Cleanup must be called when analysis is
//	done; for local paths it is a no-op.
//
// Inputs:
//
//	ctx - Context used to cancel a running clone
//	source - Git URL or local directory path
//	logger - Structured logger. Nil falls back to slog.Default().
//
// Outputs:
//
//	*Result - Root path plus cleanup hook
//	error - Non-nil if the clone fails or the local path is invalid
func Materialize(ctx context.Context, source string, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmptySource
	}

	if !IsRemote(source) {
		info, err := os.Stat(source)
		if err != nil {
			return nil, fmt.Errorf("resolving local repository %q: %w", source, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrNotADirectory, source)
		}
		return &Result{Root: source, Cleanup: func() {}}, nil
	}

	dir, err := os.MkdirTemp("", "reposage-clone-*")
	if err != nil {
		return nil, fmt.Errorf("creating clone directory: %w", err)
	}

	logger.Info("cloning repository", "url", source, "dir", dir)
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", source, dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("git clone failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	logger.Info("repository cloned", "dir", dir)

	return &Result{
		Root:    dir,
		Cleanup: func() { os.RemoveAll(dir) },
	}, nil
}
