// Package memory provides in-memory storage adapters, used in tests and as
// throwaway stores for dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
)

// Ensure RecipeStore implements the interface.
var _ driven.RecipeStore = (*RecipeStore)(nil)

// RecipeStore is an in-memory implementation of driven.RecipeStore.
type RecipeStore struct {
	mu      sync.RWMutex
	recipes map[string]domain.Recipe
}

// NewRecipeStore creates an empty in-memory recipe store.
func NewRecipeStore() *RecipeStore {
	return &RecipeStore{recipes: make(map[string]domain.Recipe)}
}

// Put stores or overwrites a recipe.
func (s *RecipeStore) Put(_ context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[recipe.ID] = *recipe
	return nil
}

// Get retrieves a recipe by primary id.
func (s *RecipeStore) Get(_ context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

// GetByLegacyID retrieves a recipe by its content-derived id.
func (s *RecipeStore) GetByLegacyID(_ context.Context, legacyID string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.recipes {
		if s.recipes[id].LegacyID == legacyID {
			r := s.recipes[id]
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// All returns every stored recipe.
func (s *RecipeStore) All(_ context.Context) ([]domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Recipe, 0, len(s.recipes))
	for id := range s.recipes {
		out = append(out, s.recipes[id])
	}
	return out, nil
}

// Flush is a no-op for the in-memory store.
func (s *RecipeStore) Flush(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *RecipeStore) Close() error {
	return nil
}

// CheckpointStore is an in-memory implementation of driven.CheckpointStore.
type CheckpointStore struct {
	mu sync.Mutex
	cp domain.Checkpoint
}

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// NewCheckpointStore creates a zeroed in-memory checkpoint store.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{}
}

// Load returns the current checkpoint.
func (s *CheckpointStore) Load(_ context.Context) (domain.Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cp, nil
}

// Save commits a checkpoint.
func (s *CheckpointStore) Save(_ context.Context, cp domain.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cp = cp
	return nil
}

// DeadLetterStore collects failed slices in memory.
type DeadLetterStore struct {
	mu      sync.Mutex
	Records []DeadLetterRecord
}

// DeadLetterRecord is one captured failure.
type DeadLetterRecord struct {
	Namespace string
	Items     []driven.VectorItem
	Cause     error
}

// Ensure DeadLetterStore implements the interface.
var _ driven.DeadLetterStore = (*DeadLetterStore)(nil)

// NewDeadLetterStore creates an empty in-memory dead letter store.
func NewDeadLetterStore() *DeadLetterStore {
	return &DeadLetterStore{}
}

// Record captures one failed slice.
func (s *DeadLetterStore) Record(_ context.Context, namespace string, items []driven.VectorItem, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records = append(s.Records, DeadLetterRecord{Namespace: namespace, Items: items, Cause: cause})
	return nil
}
