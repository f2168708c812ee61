package driven

import (
	"context"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
)

// RecipeSource reads bulk recipe rows from an external source such as a CSV
// export. Missing optional columns default to zero values, never an error.
type RecipeSource interface {
	// ReadAll returns every row in source order.
	ReadAll(ctx context.Context) ([]domain.SourceRecord, error)
}
