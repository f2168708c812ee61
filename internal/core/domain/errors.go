package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or missing input, such as an
	// empty query or an empty ingredient list.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfigMissing indicates required configuration (credentials,
	// index name) is absent at startup. Fatal: the process exits.
	ErrConfigMissing = errors.New("required configuration missing")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic search and ingestion are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured. Semantic similarity search is disabled.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrEmbeddingMismatch indicates an embedding call returned a result
	// set whose length or shape does not match its input batch.
	ErrEmbeddingMismatch = errors.New("embedding batch length mismatch")

	// ErrIngestInProgress indicates an ingestion run is already active.
	// The checkpoint file assumes a single writer.
	ErrIngestInProgress = errors.New("ingestion already in progress")
)
