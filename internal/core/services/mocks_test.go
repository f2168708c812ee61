package services

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
)

// fakeEmbedder produces deterministic bag-of-words vectors so texts sharing
// words land near each other under cosine similarity.
type fakeEmbedder struct {
	dims        int
	embedErr    error
	batchErr    error
	emptyVector bool
	shortBatch  bool
	batchCalls  [][]string
}

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{dims: 32}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if f.emptyVector {
		return []float32{}, nil
	}
	return bagOfWords(text, f.dims), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.batchCalls = append(f.batchCalls, texts)
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		if f.emptyVector {
			out = append(out, []float32{})
			continue
		}
		out = append(out, bagOfWords(t, f.dims))
	}
	if f.shortBatch && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int   { return f.dims }
func (f *fakeEmbedder) ModelName() string { return "fake-bow" }

func (f *fakeEmbedder) Ping(context.Context) error { return nil }
func (f *fakeEmbedder) Close() error               { return nil }

func bagOfWords(text string, dims int) []float32 {
	v := make([]float32, dims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(w))
		v[int(h.Sum32())%dims]++
	}
	return v
}

// fakeIndex is a scriptable vector index recording every call.
type fakeIndex struct {
	matches    []driven.VectorMatch
	queryErr   error
	upsertErr  error
	queries    []driven.VectorQuery
	namespaces []string
	upserts    [][]driven.VectorItem
}

var _ driven.VectorIndex = (*fakeIndex)(nil)

func (f *fakeIndex) Upsert(_ context.Context, namespace string, items []driven.VectorItem) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, items)
	return nil
}

func (f *fakeIndex) Query(_ context.Context, namespace string, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	f.namespaces = append(f.namespaces, namespace)
	f.queries = append(f.queries, q)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.matches, nil
}

func (f *fakeIndex) Close() error { return nil }

// fakeSource serves a fixed row slice.
type fakeSource struct {
	rows []domain.SourceRecord
	err  error
}

var _ driven.RecipeSource = (*fakeSource)(nil)

func (f *fakeSource) ReadAll(context.Context) ([]domain.SourceRecord, error) {
	return f.rows, f.err
}
