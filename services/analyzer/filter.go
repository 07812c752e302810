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
	"log/slog"
	"os"
)

// defaultExcludedDirs are directory names never descended into:
// version-control metadata, dependency caches, virtual environments,
// and build artifacts.
var defaultExcludedDirs = []string{
	".git",
	".hg",
	".svn",
	"node_modules",
	"vendor",
	"venv",
	".venv",
	"env",
	"__pycache__",
	".pytest_cache",
	".mypy_cache",
	"dist",
	"build",
	"target",
	".idea",
	".vscode",
	".tox",
	".cache",
}

// AccessFilter decides which directory entries are eligible for
// analysis. It excludes a fixed set of directory names and any entry
// the process cannot read, logging a skip diagnostic instead of
// failing the walk.
//
// Eligibility is checked exactly once per entry, before recursion for
// that entry is scheduled.
type AccessFilter struct {
	excluded map[string]struct{}
	logger   *slog.Logger
}

// NewAccessFilter builds an AccessFilter. A nil or empty exclusion list
// falls back to the built-in default set; a nil logger falls back to
// slog.Default().
func NewAccessFilter(excluded []string, logger *slog.Logger) *AccessFilter {
	if len(excluded) == 0 {
		excluded = defaultExcludedDirs
	}
	if logger == nil {
		logger = slog.Default()
	}
	set := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		set[name] = struct{}{}
	}
	return &AccessFilter{excluded: set, logger: logger}
}

// IsEligible reports whether the entry should be analyzed.
//
// Description:
//
//	Returns false for excluded directory names and for entries that
//	fail a read-access probe. Skips are logged at Warn level with the
//	reason; they never abort the walk.
//
// Inputs:
//
//	name - The entry's basename
//	path - The entry's absolute path
//	isDir - Whether the entry is a directory
//
// Outputs:
//
//	bool - true when the walker should recurse into / read the entry
func (f *AccessFilter) IsEligible(name, path string, isDir bool) bool {
	if isDir {
		if _, excluded := f.excluded[name]; excluded {
			f.logger.Debug("skipping excluded directory", "path", path)
			return false
		}
	}
	// Read-access probe. os.Open checks permission for both files and
	// directories without reading any content.
	probe, err := os.Open(path)
	if err != nil {
		f.logger.Warn("skipping unreadable entry", "path", path, "error", err)
		return false
	}
	probe.Close()
	return true
}
