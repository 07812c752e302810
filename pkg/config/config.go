// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the reposage YAML configuration file.
//
// Everything in the file is optional; a missing file or empty section
// falls back to built-in defaults. Secrets (API keys) are never read
// from the file - the LLM clients take those from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of the reposage configuration file.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Index    IndexConfig    `yaml:"index"`
	Chat     ChatConfig     `yaml:"chat"`
}

// LoggingConfig mirrors pkg/logging.Config.
type LoggingConfig struct {
	Level  string `yaml:"level"`   // debug|info|warn|error
	LogDir string `yaml:"log_dir"` // empty disables file logging
	JSON   bool   `yaml:"json"`
}

// AnalyzerConfig configures the walker.
type AnalyzerConfig struct {
	// LanguageMap overrides the extension to language-label table.
	LanguageMap map[string]string `yaml:"language_map"`

	// ExcludedDirs overrides the directory exclusion set.
	ExcludedDirs []string `yaml:"excluded_dirs"`

	// SnippetBytes caps the stored content snippet.
	SnippetBytes int `yaml:"snippet_bytes"`

	// OracleBytes caps content sent to the oracle.
	OracleBytes int `yaml:"oracle_bytes"`

	// MaxConcurrentSummaries bounds simultaneous oracle work.
	MaxConcurrentSummaries int64 `yaml:"max_concurrent_summaries"`
}

// OracleConfig selects and tunes the summarization backend.
type OracleConfig struct {
	// Backend is "openai" or "ollama". Default: "openai".
	Backend string `yaml:"backend"`

	// Prompt template overrides, Go template format.
	GoalPrompt    string `yaml:"goal_prompt"`
	SummaryPrompt string `yaml:"summary_prompt"`
	FolderPrompt  string `yaml:"folder_prompt"`
	RAGPrompt     string `yaml:"rag_prompt"`

	// RetryAttempts is the bounded retry count for failed generations.
	RetryAttempts int `yaml:"retry_attempts"`

	// RetryBackoff is the pause before each retry (e.g. "500ms").
	RetryBackoff Duration `yaml:"retry_backoff"`
}

// Duration wraps time.Duration so YAML values can be written in the
// usual "500ms" / "2s" notation.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// IndexConfig configures the Weaviate connection.
type IndexConfig struct {
	// Host is the Weaviate host:port. Default: "localhost:8080".
	Host string `yaml:"host"`

	// Scheme is "http" or "https". Default: "http".
	Scheme string `yaml:"scheme"`
}

// ChatConfig configures the RAG chain.
type ChatConfig struct {
	// TopK documents retrieved per question. Default: 5.
	TopK int `yaml:"top_k"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Oracle:  OracleConfig{Backend: "openai"},
		Index:   IndexConfig{Host: "localhost:8080", Scheme: "http"},
		Chat:    ChatConfig{TopK: 5},
	}
}

// Load reads the configuration file at path, layered over Default().
//
// An empty path returns Default() unchanged; a missing file is an
// error, since the user asked for a specific file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
