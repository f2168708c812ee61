package driven

import (
	"context"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
)

// VectorItem is the unit stored in the vector index: one embedded chunk with
// its denormalised metadata.
type VectorItem struct {
	// ID is the chunk id ("<recipeID>#c<index>").
	ID string

	// Values is the embedding vector.
	Values []float32

	// Metadata is the chunk's typed metadata.
	Metadata domain.ChunkMetadata
}

// VectorQuery describes an approximate nearest-neighbour request.
type VectorQuery struct {
	// Vector is the query embedding.
	Vector []float32

	// TopK is the number of chunk-level matches to return.
	TopK int

	// Filter is an optional equality predicate over metadata fields.
	// The exact schema is index-defined.
	Filter map[string]any
}

// VectorMatch is one similarity hit from the index.
type VectorMatch struct {
	// ID is the matched chunk id.
	ID string

	// Score is the cosine similarity (higher is closer).
	Score float64

	// Metadata is the stored chunk metadata.
	Metadata domain.ChunkMetadata
}

// VectorIndex is a namespaced vector store with metadata, answering
// approximate nearest-neighbour queries under cosine similarity.
type VectorIndex interface {
	// Upsert writes items into the namespace, idempotent by id.
	Upsert(ctx context.Context, namespace string, items []VectorItem) error

	// Query returns the nearest chunks to the query vector,
	// best score first.
	Query(ctx context.Context, namespace string, q VectorQuery) ([]VectorMatch, error)

	// Close releases resources.
	Close() error
}
