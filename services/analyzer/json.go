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
	"fmt"
)

// DecodeNode parses one serialized node, file or folder. The variant
// is identified by which path key the object carries; this only exists
// at the serialization boundary - inside a run the variant is fixed at
// dispatch time.
func DecodeNode(data []byte) (Node, error) {
	var probe struct {
		FolderPath *string `json:"folder_path"`
		FilePath   *string `json:"file_path"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decoding node: %w", err)
	}
	switch {
	case probe.FolderPath != nil:
		var n FolderNode
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("decoding folder node: %w", err)
		}
		return &n, nil
	case probe.FilePath != nil:
		var n FileNode
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("decoding file node: %w", err)
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("decoding node: neither file_path nor folder_path present")
	}
}

// UnmarshalJSON decodes a folder node, recursively resolving each
// child's concrete variant.
func (n *FolderNode) UnmarshalJSON(data []byte) error {
	var raw struct {
		Path     string            `json:"folder_path"`
		Summary  string            `json:"summary"`
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Path = raw.Path
	n.Summary = raw.Summary
	n.Children = make([]Node, len(raw.Children))
	for i, childRaw := range raw.Children {
		child, err := DecodeNode(childRaw)
		if err != nil {
			return err
		}
		n.Children[i] = child
	}
	return nil
}
