// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "openai", cfg.Oracle.Backend)
	assert.Equal(t, "localhost:8080", cfg.Index.Host)
	assert.Equal(t, "http", cfg.Index.Scheme)
	assert.Equal(t, 5, cfg.Chat.TopK)
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging: ["), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("file layers over defaults", func(t *testing.T) {
		raw := `
logging:
  level: debug
analyzer:
  snippet_bytes: 1234
  language_map:
    .zig: Zig
oracle:
  backend: ollama
  retry_attempts: 3
  retry_backoff: 2s
index:
  host: weaviate.internal:8080
`
		path := filepath.Join(t.TempDir(), "reposage.yaml")
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, 1234, cfg.Analyzer.SnippetBytes)
		assert.Equal(t, map[string]string{".zig": "Zig"}, cfg.Analyzer.LanguageMap)
		assert.Equal(t, "ollama", cfg.Oracle.Backend)
		assert.Equal(t, 3, cfg.Oracle.RetryAttempts)
		assert.Equal(t, 2*time.Second, cfg.Oracle.RetryBackoff.Std())
		assert.Equal(t, "weaviate.internal:8080", cfg.Index.Host)

		// Keys absent from the file keep their defaults.
		assert.Equal(t, "http", cfg.Index.Scheme)
		assert.Equal(t, 5, cfg.Chat.TopK)
	})
}
