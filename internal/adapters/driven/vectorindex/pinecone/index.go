// Package pinecone provides a VectorIndex adapter backed by Pinecone's REST
// data plane.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultTimeout is the request timeout.
const DefaultTimeout = 30 * time.Second

// Config holds connection details for a Pinecone index.
type Config struct {
	// Host is the index data-plane host, e.g.
	// https://recipes-abc123.svc.us-east-1-aws.pinecone.io (required).
	Host string

	// APIKey authenticates data-plane requests (required).
	APIKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Index is a REST client to one Pinecone index.
type Index struct {
	client *http.Client
	host   string
	apiKey string
}

// upsertRequest is the /vectors/upsert request format.
type upsertRequest struct {
	Vectors   []vectorRecord `json:"vectors"`
	Namespace string         `json:"namespace,omitempty"`
}

// vectorRecord is Pinecone's wire representation of one vector.
type vectorRecord struct {
	ID       string               `json:"id"`
	Values   []float32            `json:"values"`
	Metadata domain.ChunkMetadata `json:"metadata"`
}

// queryRequest is the /query request format.
type queryRequest struct {
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	Namespace       string         `json:"namespace,omitempty"`
	IncludeMetadata bool           `json:"includeMetadata"`
	Filter          map[string]any `json:"filter,omitempty"`
}

// queryResponse is the /query response format.
type queryResponse struct {
	Matches []struct {
		ID       string               `json:"id"`
		Score    float64              `json:"score"`
		Metadata domain.ChunkMetadata `json:"metadata"`
	} `json:"matches"`
}

// New creates a Pinecone index client.
func New(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("pinecone: host is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: API key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Index{
		client: &http.Client{Timeout: cfg.Timeout},
		host:   cfg.Host,
		apiKey: cfg.APIKey,
	}, nil
}

// Upsert writes items into the namespace, idempotent by id.
func (x *Index) Upsert(ctx context.Context, namespace string, items []driven.VectorItem) error {
	if len(items) == 0 {
		return nil
	}

	vectors := make([]vectorRecord, len(items))
	for i, item := range items {
		vectors[i] = vectorRecord{
			ID:       item.ID,
			Values:   item.Values,
			Metadata: item.Metadata,
		}
	}

	var resp struct {
		UpsertedCount int `json:"upsertedCount"`
	}
	if err := x.post(ctx, "/vectors/upsert", upsertRequest{Vectors: vectors, Namespace: namespace}, &resp); err != nil {
		return fmt.Errorf("pinecone upsert: %w", err)
	}
	if resp.UpsertedCount != len(items) {
		return fmt.Errorf("pinecone upsert: wrote %d of %d vectors", resp.UpsertedCount, len(items))
	}
	return nil
}

// Query returns the nearest chunks to the query vector, best score first.
func (x *Index) Query(ctx context.Context, namespace string, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	req := queryRequest{
		Vector:          q.Vector,
		TopK:            q.TopK,
		Namespace:       namespace,
		IncludeMetadata: true,
		Filter:          q.Filter,
	}

	var resp queryResponse
	if err := x.post(ctx, "/query", req, &resp); err != nil {
		return nil, fmt.Errorf("pinecone query: %w", err)
	}

	matches := make([]driven.VectorMatch, len(resp.Matches))
	for i, m := range resp.Matches {
		matches[i] = driven.VectorMatch{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: m.Metadata,
		}
	}
	return matches, nil
}

// Close releases resources.
func (x *Index) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// post sends one JSON request to the data plane and decodes the response.
func (x *Index) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.host+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", x.apiKey)

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
