package driving

import (
	"context"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
)

// SearchService provides semantic recipe search to external actors.
type SearchService interface {
	// Search embeds the query, retrieves nearest chunks and returns ranked
	// recipes. An empty query returns domain.ErrInvalidInput.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RecipeResult, error)
}

// MatcherService ranks recipes against a provided ingredient set.
type MatcherService interface {
	// MatchByIngredients returns candidates with missing-ingredient lists,
	// best score first. An empty ingredient list returns
	// domain.ErrInvalidInput.
	MatchByIngredients(ctx context.Context, ingredients []string) ([]domain.IngredientMatch, error)
}
