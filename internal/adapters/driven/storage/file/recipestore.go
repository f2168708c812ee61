// Package file provides JSON-file-backed storage adapters.
//
// The recipe cache is read wholesale into memory at open and written
// wholesale on Flush. Acceptable while the corpus (thousands of recipes)
// fits comfortably in memory; a real lookup store takes over at larger
// scale.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
)

// Ensure RecipeStore implements the interface.
var _ driven.RecipeStore = (*RecipeStore)(nil)

// RecipeStore is a JSON-file implementation of driven.RecipeStore.
type RecipeStore struct {
	mu      sync.RWMutex
	path    string
	recipes map[string]domain.Recipe
	dirty   bool
}

// NewRecipeStore opens (or creates) the cache file under dataDir.
// If dataDir is empty, defaults to ~/.forkful/data.
func NewRecipeStore(dataDir string) (*RecipeStore, error) {
	dir, err := resolveDataDir(dataDir)
	if err != nil {
		return nil, err
	}

	s := &RecipeStore{
		path:    filepath.Join(dir, "recipes.json"),
		recipes: make(map[string]domain.Recipe),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read recipe cache: %w", err)
	}
	if err := json.Unmarshal(data, &s.recipes); err != nil {
		return nil, fmt.Errorf("decode recipe cache: %w", err)
	}
	return s, nil
}

// Put stores or overwrites a recipe.
func (s *RecipeStore) Put(_ context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[recipe.ID] = *recipe
	s.dirty = true
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

// Flush writes the whole cache to disk when it has changed since the last
// flush.
func (s *RecipeStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}

	data, err := json.Marshal(s.recipes)
	if err != nil {
		return fmt.Errorf("encode recipe cache: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write recipe cache: %w", err)
	}
	s.dirty = false
	return nil
}

// Close flushes and releases resources.
func (s *RecipeStore) Close() error {
	return s.Flush(context.Background())
}

// resolveDataDir expands an empty dataDir to ~/.forkful/data and ensures it
// exists.
func resolveDataDir(dataDir string) (string, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".forkful", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return dataDir, nil
}
