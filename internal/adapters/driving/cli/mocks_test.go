package cli

import (
	"context"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driving"
)

// stubSearchService is a scriptable driving.SearchService.
type stubSearchService struct {
	results   []domain.RecipeResult
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

var _ driving.SearchService = (*stubSearchService)(nil)

func (s *stubSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.RecipeResult, error) {
	s.lastQuery = query
	s.lastOpts = opts
	return s.results, s.err
}

// stubMatcherService is a scriptable driving.MatcherService.
type stubMatcherService struct {
	matches  []domain.IngredientMatch
	err      error
	lastArgs []string
}

var _ driving.MatcherService = (*stubMatcherService)(nil)

func (s *stubMatcherService) MatchByIngredients(_ context.Context, ingredients []string) ([]domain.IngredientMatch, error) {
	s.lastArgs = ingredients
	return s.matches, s.err
}

// stubIngestor is a scriptable driving.Ingestor.
type stubIngestor struct {
	stats driving.IngestStats
	err   error
	runs  int
}

var _ driving.Ingestor = (*stubIngestor)(nil)

func (s *stubIngestor) Ingest(context.Context) (driving.IngestStats, error) {
	s.runs++
	return s.stats, s.err
}

// setupTestServices swaps the package-level services for stubs and returns a
// cleanup restoring the originals.
func setupTestServices(search *stubSearchService, matcher *stubMatcherService, ing *stubIngestor) func() {
	oldSearch, oldMatcher, oldIngestor := searchService, matcherService, ingestor
	if search != nil {
		searchService = search
	}
	if matcher != nil {
		matcherService = matcher
	}
	if ing != nil {
		ingestor = ing
	}
	return func() {
		searchService, matcherService, ingestor = oldSearch, oldMatcher, oldIngestor
	}
}
