// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package server exposes repository analysis and RAG chat over HTTP.
//
// Routes (under the version group passed to RegisterRoutes):
//
//	GET  /reposage/health  - liveness probe
//	POST /reposage/analyze - analyze a local path, returns the tree
//	POST /reposage/chat    - answer a question about the indexed repo
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/reposage/services/analyzer"
)

// Analyzer runs one repository analysis. Satisfied by *analyzer.Walker.
type Analyzer interface {
	Walk(ctx context.Context, root string) (analyzer.Node, error)
}

// Chatter answers questions about the indexed repository. Satisfied by
// *chat.Chain.
type Chatter interface {
	Ask(ctx context.Context, question string) (string, []analyzer.Document, error)
}

// Service coordinates the HTTP surface's dependencies.
//
// The chatter is optional: a nil chatter serves analysis only and
// reports chat as unavailable.
type Service struct {
	analyzer Analyzer
	chatter  Chatter
	logger   *slog.Logger
}

// NewService creates a Service.
func NewService(a Analyzer, c Chatter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{analyzer: a, chatter: c, logger: logger}
}

// Handlers holds the gin handler set for one Service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates the handler set.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// RegisterRoutes attaches the reposage routes to a router group.
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	g := rg.Group("/reposage")
	g.GET("/health", h.Health)
	g.POST("/analyze", h.Analyze)
	g.POST("/chat", h.Chat)
}

type analyzeRequest struct {
	Path string `json:"path" binding:"required"`
}

type analyzeResponse struct {
	Tree      analyzer.Node       `json:"tree"`
	Documents []analyzer.Document `json:"documents"`
}

type chatRequest struct {
	Question string `json:"question" binding:"required"`
}

type chatResponse struct {
	Answer  string              `json:"answer"`
	Sources []analyzer.Document `json:"sources,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Analyze runs a full analysis of a local repository path and returns
// the tree plus its chat-mode flattening.
func (h *Handlers) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	tree, err := h.svc.analyzer.Walk(c.Request.Context(), req.Path)
	if err != nil {
		h.svc.logger.Error("analysis failed", "path", req.Path, "error", err)
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, analyzeResponse{
		Tree:      tree,
		Documents: analyzer.FlattenFiles(tree),
	})
}

// Chat answers one question through the RAG chain.
func (h *Handlers) Chat(c *gin.Context) {
	if h.svc.chatter == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "chat is not configured on this server"})
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	answer, sources, err := h.svc.chatter.Ask(c.Request.Context(), req.Question)
	if err != nil {
		h.svc.logger.Error("chat failed", "error", err)
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, chatResponse{Answer: answer, Sources: sources})
}
