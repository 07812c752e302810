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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNode_RoundTrip(t *testing.T) {
	original := testTree()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	node, err := DecodeNode(data)
	require.NoError(t, err)

	folder, ok := node.(*FolderNode)
	require.True(t, ok)
	assert.Equal(t, "/repo", folder.Path)
	assert.Equal(t, "root summary", folder.Summary)
	require.Len(t, folder.Children, 3)

	file, ok := folder.Children[0].(*FileNode)
	require.True(t, ok)
	assert.Equal(t, "/repo/a.py", file.Path)
	assert.Equal(t, "goal a", file.Goal)

	broken, ok := folder.Children[1].(*FileNode)
	require.True(t, ok)
	assert.True(t, broken.Failed())

	sub, ok := folder.Children[2].(*FolderNode)
	require.True(t, ok)
	require.Len(t, sub.Children, 1)
	assert.Equal(t, "/repo/sub/b.js", sub.Children[0].NodePath())
}

func TestDecodeNode_FileVariant(t *testing.T) {
	data := []byte(`{"file_path": "/repo/x.py", "language": "Python", "goal": "g"}`)
	node, err := DecodeNode(data)
	require.NoError(t, err)
	file, ok := node.(*FileNode)
	require.True(t, ok)
	assert.Equal(t, "Python", file.Language)
}

func TestDecodeNode_Invalid(t *testing.T) {
	t.Run("neither variant key", func(t *testing.T) {
		_, err := DecodeNode([]byte(`{"summary": "anonymous"}`))
		assert.Error(t, err)
	})
	t.Run("malformed json", func(t *testing.T) {
		_, err := DecodeNode([]byte(`{`))
		assert.Error(t, err)
	})
	t.Run("malformed child", func(t *testing.T) {
		_, err := DecodeNode([]byte(`{"folder_path": "/r", "children": [{"summary": "no key"}]}`))
		assert.Error(t, err)
	})
}
