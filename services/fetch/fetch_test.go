// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package fetch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	remote := []string{
		"https://github.com/org/repo",
		"http://git.internal/repo.git",
		"git@github.com:org/repo.git",
		"ssh://git@host/repo.git",
	}
	for _, s := range remote {
		assert.True(t, IsRemote(s), s)
	}

	local := []string{"/abs/path", "./relative", "repo", "C:/repo"}
	for _, s := range local {
		assert.False(t, IsRemote(s), s)
	}
}

func TestMaterialize_LocalPath(t *testing.T) {
	dir := t.TempDir()
	res, err := Materialize(context.Background(), dir, nil)
	require.NoError(t, err)
	assert.Equal(t, dir, res.Root)

	// Cleanup for a local path must not delete anything.
	res.Cleanup()
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestMaterialize_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty source", func(t *testing.T) {
		_, err := Materialize(ctx, "  ", nil)
		assert.ErrorIs(t, err, ErrEmptySource)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Materialize(ctx, filepath.Join(t.TempDir(), "nope"), nil)
		assert.Error(t, err)
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		_, err := Materialize(ctx, path, nil)
		assert.ErrorIs(t, err, ErrNotADirectory)
	})
}
