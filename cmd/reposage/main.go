// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command reposage analyzes a source repository with a language model
// and answers questions about it.
//
// Usage:
//
//	reposage analyze https://github.com/org/repo
//	reposage analyze ./local/checkout --index
//	reposage chat "What does this repository do?"
//	reposage serve --port 8080
//	reposage graph --in repo_analysis.json --out repo_graph.dot
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/reposage/pkg/config"
	"github.com/AleutianAI/reposage/pkg/logging"
)

var (
	flagConfig string
	flagDebug  bool
	flagLogDir string
)

func main() {
	root := &cobra.Command{
		Use:   "reposage",
		Short: "LLM-powered repository analysis and chat",
		Long: "reposage recursively summarizes a repository's files and folders " +
			"with a language model, indexes the result into Weaviate, and " +
			"answers questions about the codebase via retrieval-augmented " +
			"generation.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogDir, "log-dir", "", "Directory for JSON log files")

	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newChatCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newGraphCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig layers the optional config file over defaults and applies
// global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagLogDir != "" {
		cfg.Logging.LogDir = flagLogDir
	}
	return cfg, nil
}

// newLogger builds the process logger for one command invocation.
func newLogger(cfg config.Config, service string) *logging.Logger {
	level := logging.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.LogDir,
		Service: service,
		JSON:    cfg.Logging.JSON,
	})
}
