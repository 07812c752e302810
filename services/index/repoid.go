// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package index

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
)

// RepoID derives a deterministic repository identifier from a source
// URL or local path: the repository basename plus a short hash of the
// full source, so distinct clones of same-named repositories stay
// isolated.
func RepoID(source string) string {
	source = strings.TrimRight(strings.TrimSpace(source), "/")
	base := strings.TrimSuffix(path.Base(source), ".git")
	if base == "" || base == "." {
		base = "repo"
	}
	sum := sha256.Sum256([]byte(source))
	return base + "-" + hex.EncodeToString(sum[:])[:12]
}
