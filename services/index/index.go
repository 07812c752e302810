// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package index stores flattened analysis documents in Weaviate and
// retrieves them by vector similarity for the RAG chat chain.
//
// Vectors are computed client-side through the Embedder interface (the
// OpenAI embeddings API in production), so the Weaviate class uses no
// server-side vectorizer. Each repository's documents are isolated by
// a repoId property, letting one Weaviate instance hold many analyzed
// repositories.
package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/AleutianAI/reposage/services/analyzer"
)

// RepoDocumentClassName is the Weaviate class holding analysis documents.
const RepoDocumentClassName = "RepoDocument"

// BatchSize is the number of documents imported per batch.
const BatchSize = 100

// Sentinel errors for the index package.
var (
	// ErrNilClient indicates the Weaviate client is nil.
	ErrNilClient = errors.New("weaviate client must not be nil")

	// ErrNilEmbedder indicates no embedder was supplied.
	ErrNilEmbedder = errors.New("embedder must not be nil")
)

// Embedder computes embedding vectors for document texts.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// RepoDocumentSchema returns the Weaviate schema for the RepoDocument
// class. Vectorizer is "none": vectors are supplied at import time.
func RepoDocumentSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       RepoDocumentClassName,
		Description: "Flattened repository analysis documents (path, goal, summary)",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{
				Name:            "path",
				DataType:        []string{"text"},
				Description:     "Absolute path of the analyzed file or folder",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:         "goal",
				DataType:     []string{"text"},
				Description:  "One-sentence goal of the file",
				Tokenization: "word",
			},
			{
				Name:         "summary",
				DataType:     []string{"text"},
				Description:  "Multi-sentence functional summary",
				Tokenization: "word",
			},
			{
				Name:            "repoId",
				DataType:        []string{"text"},
				Description:     "Repository identifier for multi-repo isolation",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
		},
	}
}

// Indexer writes and searches analysis documents in Weaviate.
type Indexer struct {
	client   *weaviate.Client
	embedder Embedder
	logger   *slog.Logger
}

// NewIndexer creates an Indexer.
func NewIndexer(client *weaviate.Client, embedder Embedder, logger *slog.Logger) (*Indexer, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if embedder == nil {
		return nil, ErrNilEmbedder
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{client: client, embedder: embedder, logger: logger}, nil
}

// EnsureSchema creates the RepoDocument class if it doesn't exist.
// Idempotent.
func (ix *Indexer) EnsureSchema(ctx context.Context) error {
	_, err := ix.client.Schema().ClassGetter().WithClassName(RepoDocumentClassName).Do(ctx)
	if err == nil {
		ix.logger.Debug("RepoDocument schema already exists")
		return nil
	}
	ix.logger.Info("Creating RepoDocument schema")
	if err := ix.client.Schema().ClassCreator().WithClass(RepoDocumentSchema()).Do(ctx); err != nil {
		return fmt.Errorf("creating RepoDocument schema: %w", err)
	}
	return nil
}

// Index embeds and batch-imports the documents under the given repoId.
//
// Description:
//
//	Documents are embedded and imported in batches. Earlier batches
//	stay imported if a later batch fails; re-running Index for the
//	same repoId after a DeleteRepo is the recovery path.
//
// Inputs:
//
//	ctx - Context for cancellation
//	docs - Flattened analysis documents
//	repoID - Repository identifier stamped on every document
//
// Outputs:
//
//	int - Number of documents successfully indexed
//	error - Non-nil if embedding or a batch import fails
func (ix *Indexer) Index(ctx context.Context, docs []analyzer.Document, repoID string) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	indexed := 0
	for start := 0; start < len(docs); start += BatchSize {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}
		end := min(start+BatchSize, len(docs))
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = documentText(doc)
		}
		vectors, err := ix.embedder.Embed(ctx, texts)
		if err != nil {
			return indexed, fmt.Errorf("embedding batch: %w", err)
		}

		objects := make([]*models.Object, len(batch))
		for i, doc := range batch {
			objects[i] = &models.Object{
				Class:  RepoDocumentClassName,
				Vector: vectors[i],
				Properties: map[string]any{
					"path":    doc.Path,
					"goal":    doc.Goal,
					"summary": doc.Summary,
					"repoId":  repoID,
				},
			}
		}

		result, err := ix.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
		if err != nil {
			return indexed, fmt.Errorf("batch import failed: %w", err)
		}
		for _, obj := range result {
			if obj.Result != nil && obj.Result.Errors == nil {
				indexed++
			}
		}
		ix.logger.Info("Indexed batch", "count", len(batch), "total_indexed", indexed)
	}
	return indexed, nil
}

// Search returns the limit documents nearest to the query, restricted
// to repoID when non-empty.
func (ix *Indexer) Search(ctx context.Context, query, repoID string, limit int) ([]analyzer.Document, error) {
	if limit <= 0 {
		limit = 5
	}

	vectors, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	builder := ix.client.GraphQL().Get().
		WithClassName(RepoDocumentClassName).
		WithFields(
			graphql.Field{Name: "path"},
			graphql.Field{Name: "goal"},
			graphql.Field{Name: "summary"},
		).
		WithNearVector(ix.client.GraphQL().NearVectorArgBuilder().WithVector(vectors[0])).
		WithLimit(limit)

	if repoID != "" {
		builder = builder.WithWhere(filters.Where().
			WithPath([]string{"repoId"}).
			WithOperator(filters.Equal).
			WithValueString(repoID))
	}

	resp, err := builder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate search failed: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("weaviate search failed: %s", resp.Errors[0].Message)
	}
	return parseDocuments(resp)
}

// DeleteRepo removes every document of a repository, making room for a
// re-index after re-analysis.
func (ix *Indexer) DeleteRepo(ctx context.Context, repoID string) error {
	_, err := ix.client.Batch().ObjectsBatchDeleter().
		WithClassName(RepoDocumentClassName).
		WithWhere(filters.Where().
			WithPath([]string{"repoId"}).
			WithOperator(filters.Equal).
			WithValueString(repoID)).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("deleting repo documents: %w", err)
	}
	return nil
}

// documentText is the embedded representation of a document: path,
// goal, and summary joined the way the chat chain quotes them back.
func documentText(doc analyzer.Document) string {
	return doc.Path + "\n" + doc.Goal + "\n" + doc.Summary
}

// parseDocuments unpacks a GraphQL Get response into documents.
func parseDocuments(resp *models.GraphQLResponse) ([]analyzer.Document, error) {
	get, ok := resp.Data["Get"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected weaviate response shape: missing Get")
	}
	items, ok := get[RepoDocumentClassName].([]any)
	if !ok {
		return []analyzer.Document{}, nil
	}
	docs := make([]analyzer.Document, 0, len(items))
	for _, item := range items {
		props, ok := item.(map[string]any)
		if !ok {
			continue
		}
		docs = append(docs, analyzer.Document{
			Path:    stringProp(props, "path"),
			Goal:    stringProp(props, "goal"),
			Summary: stringProp(props, "summary"),
		})
	}
	return docs, nil
}

func stringProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}
