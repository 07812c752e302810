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
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/reposage/services/analyzer"
	"github.com/AleutianAI/reposage/services/chat"
	"github.com/AleutianAI/reposage/services/index"
	"github.com/AleutianAI/reposage/services/server"
)

func newServeCommand() *cobra.Command {
	var (
		flagPort int
		flagRepo string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis and chat HTTP API",
		Long: "Serve exposes repository analysis and RAG chat over HTTP.\n\n" +
			"Example requests:\n\n" +
			"  curl http://localhost:8080/v1/reposage/health\n" +
			"  curl -X POST http://localhost:8080/v1/reposage/analyze \\\n" +
			"    -H \"Content-Type: application/json\" \\\n" +
			"    -d '{\"path\": \"/path/to/repo\"}'\n" +
			"  curl -X POST http://localhost:8080/v1/reposage/chat \\\n" +
			"    -H \"Content-Type: application/json\" \\\n" +
			"    -d '{\"question\": \"What does this repo do?\"}'",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flagPort, flagRepo)
		},
	}

	cmd.Flags().IntVar(&flagPort, "port", 8080, "Port to listen on")
	cmd.Flags().StringVar(&flagRepo, "repo", "", "Repo source to scope chat retrieval to")
	return cmd
}

func runServe(port int, repo string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, "reposage-server")
	defer log.Close()

	if flagDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

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
	walker, err := analyzer.NewWalker(summarizer, nil, ac, log.Slog())
	if err != nil {
		return err
	}

	// Chat is best-effort: if the vector store is unreachable the
	// server still serves analysis.
	var chatter server.Chatter
	if indexer, err := buildIndexer(cfg, llm, log.Slog()); err != nil {
		log.Warn("chat disabled, vector store unavailable", "error", err)
	} else {
		cc := chat.Config{RAGTemplate: cfg.Oracle.RAGPrompt, TopK: cfg.Chat.TopK}
		if repo != "" {
			cc.RepoID = index.RepoID(repo)
		}
		chain, err := chat.NewChain(llm, indexer, cc, log.Slog())
		if err != nil {
			return err
		}
		chatter = chain
	}

	svc := server.NewService(walker, chatter, log.Slog())
	handlers := server.NewHandlers(svc)

	router := gin.New()
	router.Use(gin.Recovery())
	if flagDebug {
		router.Use(gin.Logger())
	}
	v1 := router.Group("/v1")
	server.RegisterRoutes(v1, handlers)

	addr := fmt.Sprintf(":%d", port)
	log.Info("starting reposage server", "addr", addr)
	return router.Run(addr)
}
