// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/reposage/services/analyzer"
	"github.com/AleutianAI/reposage/services/cache"
	"github.com/AleutianAI/reposage/services/fetch"
	"github.com/AleutianAI/reposage/services/index"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		flagOut         string
		flagCacheDir    string
		flagConcurrency int64
		flagIndex       bool
		flagFull        bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <repo-url-or-path>",
		Short: "Recursively summarize a repository",
		Long: "Analyze walks the repository tree, extracting structure from " +
			"each source file and asking the language model for a goal and " +
			"summary per file and a rollup summary per folder. The full " +
			"annotated tree is written as JSON. With --index, flattened " +
			"documents are also embedded and pushed into Weaviate for chat.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0], flagOut, flagCacheDir, flagConcurrency, flagIndex, flagFull)
		},
	}

	cmd.Flags().StringVar(&flagOut, "out", "repo_analysis.json", "Output file for the annotated tree")
	cmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "BadgerDB directory for resumable analysis (empty disables caching)")
	cmd.Flags().Int64Var(&flagConcurrency, "concurrency", 0, "Max concurrent summarizations (0 uses the config default)")
	cmd.Flags().BoolVar(&flagIndex, "index", false, "Embed and index the results into Weaviate")
	cmd.Flags().BoolVar(&flagFull, "full", false, "Index folder rollups as well as files")

	return cmd
}

func runAnalyze(source, out, cacheDir string, concurrency int64, doIndex, full bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, "reposage")
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := fetch.Materialize(ctx, source, log.Slog())
	if err != nil {
		return err
	}
	defer repo.Cleanup()

	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	summarizer, err := buildSummarizer(cfg, llm, log.Slog())
	if err != nil {
		return err
	}

	ac := analyzer.DefaultConfig()
	if len(cfg.Analyzer.LanguageMap) > 0 {
		ac.LanguageMap = cfg.Analyzer.LanguageMap
	}
	if len(cfg.Analyzer.ExcludedDirs) > 0 {
		ac.ExcludedDirs = cfg.Analyzer.ExcludedDirs
	}
	if cfg.Analyzer.SnippetBytes > 0 {
		ac.SnippetBytes = cfg.Analyzer.SnippetBytes
	}
	if cfg.Analyzer.OracleBytes > 0 {
		ac.OracleBytes = cfg.Analyzer.OracleBytes
	}
	if cfg.Analyzer.MaxConcurrentSummaries > 0 {
		ac.MaxConcurrentSummaries = cfg.Analyzer.MaxConcurrentSummaries
	}
	if concurrency > 0 {
		ac.MaxConcurrentSummaries = concurrency
	}

	var walkerCache analyzer.Cache
	if cacheDir != "" {
		ca, err := cache.Open(cache.Config{Path: cacheDir, Logger: log.Slog()})
		if err != nil {
			return fmt.Errorf("opening analysis cache: %w", err)
		}
		defer ca.Close()
		walkerCache = ca
	}

	walker, err := analyzer.NewWalker(summarizer, walkerCache, ac, log.Slog())
	if err != nil {
		return err
	}

	log.Info("starting analysis", "source", source, "root", repo.Root)
	tree, err := walker.Walk(ctx, repo.Root)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding analysis tree: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	log.Info("analysis written", "path", out)

	if !doIndex {
		return nil
	}

	var docs []analyzer.Document
	if full {
		docs = analyzer.FlattenAll(tree)
	} else {
		docs = analyzer.FlattenFiles(tree)
	}
	indexer, err := buildIndexer(cfg, llm, log.Slog())
	if err != nil {
		return err
	}
	if err := indexer.EnsureSchema(ctx); err != nil {
		return err
	}
	repoID := index.RepoID(source)
	n, err := indexer.Index(ctx, docs, repoID)
	if err != nil {
		return err
	}
	log.Info("documents indexed", "count", n, "repo_id", repoID)
	fmt.Printf("Indexed %d documents under repo ID %s\n", n, repoID)
	return nil
}
