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
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/reposage/services/chat"
	"github.com/AleutianAI/reposage/services/index"
)

func newChatCommand() *cobra.Command {
	var (
		flagRepo    string
		flagTopK    int
		flagSources bool
	)

	cmd := &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask questions about an analyzed repository",
		Long: "Chat answers questions using retrieval-augmented generation " +
			"over documents previously pushed with 'analyze --index'. With a " +
			"question argument it answers once and exits; without one it " +
			"starts an interactive loop.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := ""
			if len(args) == 1 {
				question = args[0]
			}
			return runChat(question, flagRepo, flagTopK, flagSources)
		},
	}

	cmd.Flags().StringVar(&flagRepo, "repo", "", "Repo source (URL or path) to scope retrieval to; empty searches everything")
	cmd.Flags().IntVar(&flagTopK, "top-k", 0, "Documents retrieved per question (0 uses the config default)")
	cmd.Flags().BoolVar(&flagSources, "sources", false, "Print the retrieved document paths with each answer")
	return cmd
}

func runChat(question, repo string, topK int, showSources bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, "reposage-chat")
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	indexer, err := buildIndexer(cfg, llm, log.Slog())
	if err != nil {
		return err
	}

	cc := chat.Config{RAGTemplate: cfg.Oracle.RAGPrompt}
	if cfg.Chat.TopK > 0 {
		cc.TopK = cfg.Chat.TopK
	}
	if topK > 0 {
		cc.TopK = topK
	}
	if repo != "" {
		cc.RepoID = index.RepoID(repo)
	}
	chain, err := chat.NewChain(llm, indexer, cc, log.Slog())
	if err != nil {
		return err
	}

	if question != "" {
		return answerOnce(ctx, chain, question, showSources)
	}

	fmt.Println("Ask questions about the indexed repository. Type 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if err := answerOnce(ctx, chain, line, showSources); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
}

func answerOnce(ctx context.Context, chain *chat.Chain, question string, showSources bool) error {
	answer, docs, err := chain.Ask(ctx, question)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	if showSources && len(docs) > 0 {
		fmt.Println("\nSources:")
		for _, d := range docs {
			fmt.Printf("  - %s\n", d.Path)
		}
	}
	return nil
}
