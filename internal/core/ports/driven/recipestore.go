package driven

import (
	"context"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
)

// RecipeStore is the full-document cache: a durable id -> recipe mapping.
// File-backed implementations read the whole corpus into memory at open and
// write it wholesale on Flush; that is acceptable for a corpus of thousands
// of recipes and keeps the exact ingredient tier a simple linear scan.
type RecipeStore interface {
	// Put stores or overwrites a recipe.
	Put(ctx context.Context, recipe *domain.Recipe) error

	// Get retrieves a recipe by primary id.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Recipe, error)

	// GetByLegacyID retrieves a recipe by its content-derived id, for
	// lookups against chunks indexed before opaque primary keys existed.
	// Returns domain.ErrNotFound when absent.
	GetByLegacyID(ctx context.Context, legacyID string) (*domain.Recipe, error)

	// All returns every stored recipe. Order is unspecified.
	All(ctx context.Context) ([]domain.Recipe, error)

	// Flush persists pending writes to durable storage.
	Flush(ctx context.Context) error

	// Close flushes and releases resources.
	Close() error
}

// CheckpointStore persists ingestion progress so an interrupted run can
// resume without reprocessing completed rows. Not lock-protected: two
// concurrent runs against the same checkpoint will race. Single writer
// is assumed.
type CheckpointStore interface {
	// Load returns the last committed checkpoint, or a zero checkpoint
	// when none has been written yet.
	Load(ctx context.Context) (domain.Checkpoint, error)

	// Save commits a checkpoint.
	Save(ctx context.Context, cp domain.Checkpoint) error
}

// DeadLetterStore captures vector slices whose index write failed, so they
// can be reprocessed offline instead of aborting the run.
type DeadLetterStore interface {
	// Record persists one failed slice together with its cause.
	Record(ctx context.Context, namespace string, items []VectorItem, cause error) error
}
