// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/reposage/services/analyzer"
)

type fakeAnalyzer struct {
	node analyzer.Node
	err  error
}

func (f *fakeAnalyzer) Walk(ctx context.Context, root string) (analyzer.Node, error) {
	return f.node, f.err
}

type fakeChatter struct {
	answer string
	docs   []analyzer.Document
	err    error
}

func (f *fakeChatter) Ask(ctx context.Context, question string) (string, []analyzer.Document, error) {
	return f.answer, f.docs, f.err
}

func newTestRouter(a Analyzer, c Chatter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := NewService(a, c, nil)
	v1 := router.Group("/v1")
	RegisterRoutes(v1, NewHandlers(svc))
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_Health(t *testing.T) {
	router := newTestRouter(&fakeAnalyzer{}, nil)
	rec := doJSON(router, http.MethodGet, "/v1/reposage/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestHandlers_Analyze(t *testing.T) {
	tree := &analyzer.FolderNode{
		Path:    "/repo",
		Summary: "root summary",
		Children: []analyzer.Node{
			&analyzer.FileNode{Path: "/repo/a.py", Goal: "goal a", Summary: "summary a"},
		},
	}
	router := newTestRouter(&fakeAnalyzer{node: tree}, nil)

	rec := doJSON(router, http.MethodPost, "/v1/reposage/analyze", gin.H{"path": "/repo"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tree      json.RawMessage     `json:"tree"`
		Documents []analyzer.Document `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	node, err := analyzer.DecodeNode(resp.Tree)
	require.NoError(t, err)
	assert.Equal(t, "/repo", node.NodePath())

	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "/repo/a.py", resp.Documents[0].Path)
}

func TestHandlers_Analyze_BadRequest(t *testing.T) {
	router := newTestRouter(&fakeAnalyzer{}, nil)
	rec := doJSON(router, http.MethodPost, "/v1/reposage/analyze", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_Analyze_WalkFailure(t *testing.T) {
	router := newTestRouter(&fakeAnalyzer{err: errors.New("root not found")}, nil)
	rec := doJSON(router, http.MethodPost, "/v1/reposage/analyze", gin.H{"path": "/missing"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "root not found")
}

func TestHandlers_Chat(t *testing.T) {
	chatter := &fakeChatter{
		answer: "A web application.",
		docs:   []analyzer.Document{{Path: "/repo/a.py", Goal: "g"}},
	}
	router := newTestRouter(&fakeAnalyzer{}, chatter)

	rec := doJSON(router, http.MethodPost, "/v1/reposage/chat", gin.H{"question": "What is this?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "A web application.", resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "/repo/a.py", resp.Sources[0].Path)
}

func TestHandlers_Chat_Unconfigured(t *testing.T) {
	router := newTestRouter(&fakeAnalyzer{}, nil)
	rec := doJSON(router, http.MethodPost, "/v1/reposage/chat", gin.H{"question": "q"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlers_Chat_ChainFailure(t *testing.T) {
	router := newTestRouter(&fakeAnalyzer{}, &fakeChatter{err: errors.New("weaviate unreachable")})
	rec := doJSON(router, http.MethodPost, "/v1/reposage/chat", gin.H{"question": "q"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
