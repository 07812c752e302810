// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache provides the resumable analysis cache.
//
// The cache maps file paths to previously computed file analyses so a
// re-run skips the oracle for unchanged files. Entries are validated
// by content hash: a path whose bytes changed since the cached run is
// a miss and triggers re-analysis.
//
// Storage is BadgerDB, an embedded key-value store with low-latency
// local access. The cache is external to the walker proper; the walker
// only sees the analyzer.Cache interface.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/reposage/services/analyzer"
)

// Sentinel errors for the cache package.
var (
	// ErrEmptyPath indicates the database path is empty.
	ErrEmptyPath = errors.New("cache path must not be empty")
)

// Config holds configuration for the analysis cache.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	// Cached summaries are cheap to recompute, so this defaults off.
	SyncWrites bool

	// Logger for cache operations. Nil disables BadgerDB's internal
	// logging and uses slog.Default() for cache-level messages.
	Logger *slog.Logger
}

// entry is the stored representation of one cached file analysis.
type entry struct {
	ContentHash string             `json:"content_hash"`
	Node        *analyzer.FileNode `json:"node"`
}

// AnalysisCache is a BadgerDB-backed analyzer.Cache implementation.
//
// Thread Safety: safe for concurrent use; BadgerDB transactions give
// each Lookup/Store call a consistent view.
type AnalysisCache struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open opens (creating as needed) the analysis cache.
//
// Description:
//
//	Opens a BadgerDB instance at cfg.Path, or in memory when
//	cfg.InMemory is set. Callers own the returned cache and must
//	Close() it when the run finishes.
//
// Inputs:
//
//	cfg - Cache configuration
//
// Outputs:
//
//	*AnalysisCache - The opened cache
//	error - Non-nil if the path is empty or BadgerDB fails to open
func Open(cfg Config) (*AnalysisCache, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, ErrEmptyPath
	}

	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening analysis cache: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisCache{db: db, logger: logger}, nil
}

// Lookup returns the cached analysis for path if the stored content
// hash matches the current content. A corrupt or stale entry is a
// miss, never an error; the walker simply re-analyzes.
func (c *AnalysisCache) Lookup(path string, content []byte) (*analyzer.FileNode, bool) {
	var stored entry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(path))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Warn("cache lookup failed", "path", path, "error", err)
		}
		return nil, false
	}
	if stored.Node == nil || stored.ContentHash != hashContent(content) {
		return nil, false
	}
	return stored.Node, true
}

// Store records a successful file analysis keyed by path.
func (c *AnalysisCache) Store(path string, content []byte, node *analyzer.FileNode) error {
	payload, err := json.Marshal(entry{
		ContentHash: hashContent(content),
		Node:        node,
	})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(path), payload)
	})
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (c *AnalysisCache) Close() error {
	return c.db.Close()
}

// hashContent returns the hex SHA-256 of the file content.
func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
