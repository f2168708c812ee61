package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driving"
	"github.com/forkful-labs/forkful-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Search tunables.
const (
	// DefaultTopK is used when the caller does not ask for a count.
	DefaultTopK = 5

	// MaxTopK bounds response size and embedding cost.
	MaxTopK = 10

	// DefaultOverfetchFactor over-fetches at the chunk level: multiple
	// chunks of one recipe collapse into fewer unique recipes after
	// aggregation, so the index is asked for more than topK chunks.
	DefaultOverfetchFactor = 3
)

// SearchConfig tunes the query engine.
type SearchConfig struct {
	// Namespace is the default vector index partition.
	Namespace string

	// OverfetchFactor multiplies topK for the chunk-level query.
	// Values below 2 select the default.
	OverfetchFactor int

	// SumWeight is handed to the aggregator.
	SumWeight float64
}

// SearchService embeds a query, retrieves nearest chunks from the vector
// index and aggregates them into ranked recipes.
type SearchService struct {
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	aggregator *Aggregator
	namespace  string
	overfetch  int
}

// NewSearchService creates the query engine.
func NewSearchService(embedder driven.EmbeddingService, index driven.VectorIndex, cfg SearchConfig) *SearchService {
	overfetch := cfg.OverfetchFactor
	if overfetch < 2 {
		overfetch = DefaultOverfetchFactor
	}
	return &SearchService{
		embedder:   embedder,
		index:      index,
		aggregator: NewAggregator(cfg.SumWeight),
		namespace:  cfg.Namespace,
		overfetch:  overfetch,
	}
}

// Search implements driving.SearchService.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.RecipeResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	return s.search(ctx, query, topK, opts)
}

// search is the unclamped engine shared with the ingredient matcher, which
// needs an elevated topK for its fuzzy tier.
func (s *SearchService) search(
	ctx context.Context, query string, topK int, opts domain.SearchOptions,
) ([]domain.RecipeResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	logger.Section("Semantic Search")
	logger.Debug("Query: %q topK=%d", query, topK)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("embed query: %w", domain.ErrEmbeddingMismatch)
	}

	namespace := opts.Namespace
	if namespace == "" {
		namespace = s.namespace
	}

	matches, err := s.index.Query(ctx, namespace, driven.VectorQuery{
		Vector: vector,
		TopK:   topK * s.overfetch,
		Filter: opts.Filter,
	})
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}
	logger.Debug("Index returned %d chunk matches", len(matches))

	results := s.aggregator.Aggregate(matches, topK)
	logger.Info("Search %q: %d recipes", query, len(results))
	return results, nil
}
