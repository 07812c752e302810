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

import "errors"

// Config configures a Walker.
type Config struct {
	// SnippetBytes caps the content snippet stored on a FileNode.
	// Default: 2000
	SnippetBytes int

	// OracleBytes caps the content sent to the summarization oracle.
	// Always at least SnippetBytes in practice; the two caps are
	// independent so snippets stay small while the oracle sees more.
	// Default: 4000
	OracleBytes int

	// MaxConcurrentSummaries bounds simultaneous file analyses and
	// folder reductions. The fan-out itself is structured per folder;
	// this cap keeps a large repository from issuing thousands of
	// oracle calls at once.
	// Default: 8
	MaxConcurrentSummaries int64

	// EmptyFolderSummary is the fixed summary assigned to a folder
	// with no eligible children. The oracle is not invoked for empty
	// folders.
	// Default: "Empty folder with no analyzable entries."
	EmptyFolderSummary string

	// LanguageMap overrides the extension to language-label table.
	// Nil or empty uses the built-in default map.
	LanguageMap map[string]string

	// ExcludedDirs overrides the directory-name exclusion set.
	// Nil or empty uses the built-in default set.
	ExcludedDirs []string
}

// DefaultConfig returns sensible defaults for interactive use.
func DefaultConfig() Config {
	return Config{
		SnippetBytes:           2000,
		OracleBytes:            4000,
		MaxConcurrentSummaries: 8,
		EmptyFolderSummary:     "Empty folder with no analyzable entries.",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SnippetBytes < 0 {
		return errors.New("snippet_bytes must be non-negative")
	}
	if c.OracleBytes < 0 {
		return errors.New("oracle_bytes must be non-negative")
	}
	if c.MaxConcurrentSummaries < 0 {
		return errors.New("max_concurrent_summaries must be non-negative")
	}
	return nil
}

// applyDefaults fills in zero values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.SnippetBytes == 0 {
		c.SnippetBytes = defaults.SnippetBytes
	}
	if c.OracleBytes == 0 {
		c.OracleBytes = defaults.OracleBytes
	}
	if c.MaxConcurrentSummaries == 0 {
		c.MaxConcurrentSummaries = defaults.MaxConcurrentSummaries
	}
	if c.EmptyFolderSummary == "" {
		c.EmptyFolderSummary = defaults.EmptyFolderSummary
	}
}
