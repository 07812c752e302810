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

// Sentinel errors for the analyzer package.
//
// Only root-level failures are surfaced to the caller; every other
// failure mode is recovered locally and recorded on the affected node.
var (
	// ErrRootNotFound indicates the analysis root does not exist.
	ErrRootNotFound = errors.New("analysis root does not exist")

	// ErrRootUnreadable indicates the analysis root cannot be read.
	ErrRootUnreadable = errors.New("analysis root is not readable")

	// ErrEmptyRoot indicates an empty root path was supplied.
	ErrEmptyRoot = errors.New("analysis root must not be empty")

	// ErrNilOracle indicates the walker was constructed without an oracle.
	ErrNilOracle = errors.New("summarization oracle must not be nil")
)
