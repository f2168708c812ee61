// Package memory provides an in-memory VectorIndex for tests and local runs.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an exact (brute force) cosine-similarity index. Fine for corpora
// of thousands of chunks; a hosted ANN index takes over beyond that.
type Index struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]driven.VectorItem
}

// New creates an empty in-memory index.
func New() *Index {
	return &Index{namespaces: make(map[string]map[string]driven.VectorItem)}
}

// Upsert writes items into the namespace, idempotent by id.
func (x *Index) Upsert(_ context.Context, namespace string, items []driven.VectorItem) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	ns, ok := x.namespaces[namespace]
	if !ok {
		ns = make(map[string]driven.VectorItem, len(items))
		x.namespaces[namespace] = ns
	}
	for _, item := range items {
		ns[item.ID] = item
	}
	return nil
}

// Query scans the namespace and returns the topK items by cosine
// similarity, best first. Items whose dimension differs from the query or
// that fail the filter are skipped.
func (x *Index) Query(_ context.Context, namespace string, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	ns := x.namespaces[namespace]
	matches := make([]driven.VectorMatch, 0, len(ns))
	for _, item := range ns {
		if !matchesFilter(item.Metadata, q.Filter) {
			continue
		}
		score, ok := cosine(q.Vector, item.Values)
		if !ok {
			continue
		}
		matches = append(matches, driven.VectorMatch{
			ID:       item.ID,
			Score:    score,
			Metadata: item.Metadata,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})

	if q.TopK > 0 && len(matches) > q.TopK {
		matches = matches[:q.TopK]
	}
	return matches, nil
}

// Len returns the number of items in a namespace.
func (x *Index) Len(namespace string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.namespaces[namespace])
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// matchesFilter applies an equality filter over the few metadata fields the
// pipeline actually filters on.
func matchesFilter(meta domain.ChunkMetadata, filter map[string]any) bool {
	for key, want := range filter {
		var got string
		switch key {
		case "cuisine":
			got = meta.Cuisine
		case "course":
			got = meta.Course
		case "diet":
			got = meta.Diet
		case "recipe_id":
			got = meta.RecipeID
		default:
			return false
		}
		if s, ok := want.(string); !ok || s != got {
			return false
		}
	}
	return true
}

// cosine returns the cosine similarity of two vectors, reporting false on a
// dimension mismatch or a zero-magnitude vector.
func cosine(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		va, vb := float64(a[i]), float64(b[i])
		dot += va * vb
		na += va * va
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}
