// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package oracle

// Default prompt templates, in Go template format. All three are
// overridable from configuration; the walker never sees prompt text.

// DefaultGoalTemplate produces the one-sentence goal of a file.
const DefaultGoalTemplate = "Analyze the code below from the file `{{.filename}}` and state its " +
	"primary goal in exactly one concise sentence. Answer with the " +
	"sentence only, no preamble.\n\n" +
	"CODE:\n{{.content}}"

// DefaultSummaryTemplate produces the multi-sentence functional
// summary of a file.
const DefaultSummaryTemplate = "Analyze the code below from the file `{{.filename}}` and summarize its " +
	"functional behavior in a concise technical explanation.\n\n" +
	"Focus on what the code does, not a plain text paraphrase.\n\n" +
	"Explain:\n" +
	"1. The main purpose of the file.\n" +
	"2. Key functions/classes and their roles.\n" +
	"3. Important dependencies or integrations.\n" +
	"4. How data or control flows through it.\n" +
	"5. If applicable, what the file exports or how it's used by other modules.\n\n" +
	"Return your answer as a short, structured developer summary (3-6 sentences maximum).\n\n" +
	"CODE:\n{{.content}}"

// DefaultFolderTemplate reduces child summaries into a folder summary.
const DefaultFolderTemplate = "You are analyzing a codebase folder named `{{.folder_name}}`.\n\n" +
	"Here are summaries of its contents:\n{{.child_summaries}}\n\n" +
	"Combine them into a cohesive technical summary describing:\n" +
	"- The overall purpose of this folder.\n" +
	"- How its files interact or depend on one another.\n" +
	"- What part of a larger application this folder likely represents " +
	"(e.g., frontend, backend, utils, data processing, etc.).\n\n" +
	"Return your output as a clear, concise developer-oriented summary paragraph."
