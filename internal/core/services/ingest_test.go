package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storemem "github.com/forkful-labs/forkful-cli/internal/adapters/driven/storage/memory"
	vecmem "github.com/forkful-labs/forkful-cli/internal/adapters/driven/vectorindex/memory"
	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
	"github.com/forkful-labs/forkful-cli/internal/pipeline/chunker"
)

func soupRow() domain.SourceRecord {
	return domain.SourceRecord{
		RowID:       "soup",
		Title:       "Tomato Soup",
		Ingredients: "tomato, onion, garlic",
		Instructions: "Chop the tomatoes and onions. Saute the garlic until fragrant. " +
			"Add the tomatoes and simmer for twenty minutes. Blend until smooth. " +
			"Season with salt and pepper and serve hot.",
	}
}

func breadRow() domain.SourceRecord {
	return domain.SourceRecord{
		RowID:        "bread",
		Title:        "Garlic Bread",
		Ingredients:  "bread, garlic, butter",
		Instructions: "Mix butter and garlic. Spread on bread and grill until golden.",
	}
}

func TestIngest_EndToEndSearch(t *testing.T) {
	ctx := context.Background()
	emb := newFakeEmbedder()
	idx := vecmem.New()
	store := storemem.NewRecipeStore()
	cps := storemem.NewCheckpointStore()

	ing := NewIngestor(
		&fakeSource{rows: []domain.SourceRecord{soupRow(), breadRow()}},
		store, cps, storemem.NewDeadLetterStore(), emb, idx,
		chunker.New(chunker.WithSize(80), chunker.WithOverlap(10)),
		IngestConfig{Namespace: "ns"},
	)

	stats, err := ing.Ingest(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.RowsProcessed)
	assert.Zero(t, stats.BatchesDropped)
	assert.Zero(t, stats.SlicesDeadLettered)
	assert.Equal(t, idx.Len("ns"), stats.ChunksIndexed)
	assert.Greater(t, stats.ChunksIndexed, 2, "soup instructions should split into multiple chunks")

	cp, err := cps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cp.LastProcessedRow)

	soup, err := store.Get(ctx, "soup")
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", soup.Title)

	// The freshly built index answers queries end to end.
	search := NewSearchService(emb, idx, SearchConfig{Namespace: "ns"})
	results, err := search.Search(ctx, "tomato soup", domain.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "soup", results[0].RecipeID)
	assert.Equal(t, "Tomato Soup", results[0].Title)
	assert.True(t, strings.HasPrefix(results[0].Instructions, "Chop the tomatoes"))
	assert.True(t, strings.HasSuffix(results[0].Instructions, "serve hot."))
}

func TestIngest_ChunkInvariants(t *testing.T) {
	idx := &fakeIndex{}
	ing := NewIngestor(
		&fakeSource{rows: []domain.SourceRecord{soupRow()}},
		storemem.NewRecipeStore(), storemem.NewCheckpointStore(), storemem.NewDeadLetterStore(),
		newFakeEmbedder(), idx,
		chunker.New(chunker.WithSize(80), chunker.WithOverlap(10)),
		IngestConfig{Namespace: "ns"},
	)

	_, err := ing.Ingest(context.Background())
	require.NoError(t, err)

	var items []driven.VectorItem
	for _, batch := range idx.upserts {
		items = append(items, batch...)
	}
	require.Greater(t, len(items), 1)

	for i, item := range items {
		assert.Equal(t, domain.ChunkID("soup", i), item.ID)
		assert.Equal(t, i, item.Metadata.ChunkIndex)
		assert.Equal(t, len(items), item.Metadata.TotalChunks)
		assert.Equal(t, "soup", item.Metadata.RecipeID)
		assert.Equal(t, "Tomato Soup", item.Metadata.Title)
		assert.Equal(t, []string{"tomato", "onion", "garlic"}, item.Metadata.Ingredients)
		assert.NotEmpty(t, item.Metadata.Text)
		assert.Len(t, item.Values, 32)
	}
}

func TestIngest_EmptyInstructionsStillIndexed(t *testing.T) {
	idx := &fakeIndex{}
	row := domain.SourceRecord{RowID: "bare", Title: "Bare Recipe", Ingredients: "salt"}
	ing := NewIngestor(
		&fakeSource{rows: []domain.SourceRecord{row}},
		storemem.NewRecipeStore(), storemem.NewCheckpointStore(), storemem.NewDeadLetterStore(),
		newFakeEmbedder(), idx, nil, IngestConfig{},
	)

	stats, err := ing.Ingest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.ChunksIndexed)
	require.Len(t, idx.upserts, 1)
	require.Len(t, idx.upserts[0], 1)
	item := idx.upserts[0][0]
	assert.Equal(t, "bare#c0", item.ID)
	assert.Equal(t, 1, item.Metadata.TotalChunks)
	assert.Empty(t, item.Metadata.Text)
}

func TestIngest_ResumesAfterCheckpoint(t *testing.T) {
	ctx := context.Background()
	store := storemem.NewRecipeStore()
	cps := storemem.NewCheckpointStore()
	require.NoError(t, cps.Save(ctx, domain.Checkpoint{LastProcessedRow: 1}))

	ing := NewIngestor(
		&fakeSource{rows: []domain.SourceRecord{soupRow(), breadRow()}},
		store, cps, storemem.NewDeadLetterStore(),
		newFakeEmbedder(), vecmem.New(), nil, IngestConfig{},
	)

	stats, err := ing.Ingest(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.RowsProcessed)

	_, err = store.Get(ctx, "soup")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Get(ctx, "bread")
	require.NoError(t, err)

	cp, err := cps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cp.LastProcessedRow)
}

func TestIngest_EmbedFailureDropsBatch(t *testing.T) {
	emb := newFakeEmbedder()
	emb.batchErr = errors.New("api down")
	cps := storemem.NewCheckpointStore()

	ing := NewIngestor(
		&fakeSource{rows: []domain.SourceRecord{soupRow(), breadRow()}},
		storemem.NewRecipeStore(), cps, storemem.NewDeadLetterStore(),
		emb, vecmem.New(), nil, IngestConfig{},
	)

	stats, err := ing.Ingest(context.Background())

	// A dropped batch degrades the run, it does not fail it.
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RowsProcessed)
	assert.Equal(t, 1, stats.BatchesDropped)
	assert.Zero(t, stats.ChunksIndexed)

	cp, err := cps.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cp.LastProcessedRow)
}

func TestIngest_VectorCountMismatchDropsBatch(t *testing.T) {
	emb := newFakeEmbedder()
	emb.shortBatch = true

	ing := NewIngestor(
		&fakeSource{rows: []domain.SourceRecord{breadRow()}},
		storemem.NewRecipeStore(), storemem.NewCheckpointStore(), storemem.NewDeadLetterStore(),
		emb, vecmem.New(), nil, IngestConfig{},
	)

	stats, err := ing.Ingest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.BatchesDropped)
	assert.Zero(t, stats.ChunksIndexed)
}

func TestIngest_UpsertFailureDeadLetters(t *testing.T) {
	upsertErr := errors.New("index down")
	dls := storemem.NewDeadLetterStore()

	ing := NewIngestor(
		&fakeSource{rows: []domain.SourceRecord{soupRow(), breadRow()}},
		storemem.NewRecipeStore(), storemem.NewCheckpointStore(), dls,
		newFakeEmbedder(), &fakeIndex{upsertErr: upsertErr}, nil,
		IngestConfig{Namespace: "ns"},
	)

	stats, err := ing.Ingest(context.Background())

	require.NoError(t, err)
	assert.Zero(t, stats.ChunksIndexed)
	assert.Equal(t, 1, stats.SlicesDeadLettered)
	require.Len(t, dls.Records, 1)
	assert.Equal(t, "ns", dls.Records[0].Namespace)
	assert.ErrorIs(t, dls.Records[0].Cause, upsertErr)
	assert.NotEmpty(t, dls.Records[0].Items)
}

func TestIngest_OpaqueIDs(t *testing.T) {
	ctx := context.Background()
	store := storemem.NewRecipeStore()
	idx := &fakeIndex{}

	ing := NewIngestor(
		&fakeSource{rows: []domain.SourceRecord{{Title: "Dal", Ingredients: "lentils", Instructions: "Boil."}}},
		store, storemem.NewCheckpointStore(), storemem.NewDeadLetterStore(),
		newFakeEmbedder(), idx, nil, IngestConfig{OpaqueIDs: true},
	)

	_, err := ing.Ingest(ctx)
	require.NoError(t, err)

	legacy := domain.DeriveRecipeID(domain.SourceRecord{Title: "Dal", Ingredients: "lentils"})
	recipe, err := store.GetByLegacyID(ctx, legacy)
	require.NoError(t, err)
	assert.NotEqual(t, legacy, recipe.ID)

	require.Len(t, idx.upserts, 1)
	meta := idx.upserts[0][0].Metadata
	assert.Equal(t, recipe.ID, meta.RecipeID)
	assert.Equal(t, legacy, meta.LegacyID)
}

func TestIngest_ThenMatchByIngredients(t *testing.T) {
	ctx := context.Background()
	emb := newFakeEmbedder()
	idx := vecmem.New()
	store := storemem.NewRecipeStore()

	rowA := domain.SourceRecord{
		Title: "Tomato Soup", Ingredients: "tomato, onion",
		Instructions: "Chop tomato and onion. Simmer 20 minutes.",
	}
	rowB := domain.SourceRecord{
		Title: "Garlic Bread", Ingredients: "bread, garlic, butter",
		Instructions: "Spread butter and garlic on bread. Bake.",
	}

	ing := NewIngestor(
		&fakeSource{rows: []domain.SourceRecord{rowA, rowB}},
		store, storemem.NewCheckpointStore(), storemem.NewDeadLetterStore(),
		emb, idx, nil, IngestConfig{Namespace: "ns"},
	)
	_, err := ing.Ingest(ctx)
	require.NoError(t, err)

	search := NewSearchService(emb, idx, SearchConfig{Namespace: "ns"})
	matcher := NewMatcherService(store, search, MatcherConfig{})

	matches, err := matcher.MatchByIngredients(ctx, []string{"tomato", "onion"})

	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, domain.DeriveRecipeID(rowA), matches[0].RecipeID)
	assert.Equal(t, 1.0, matches[0].Score)
	assert.Empty(t, matches[0].MissingIngredients)
	assert.False(t, matches[0].Fuzzy)

	// Garlic Bread shares no provided ingredient: it can only trail as a
	// zero-scored fuzzy candidate, never outrank the full match.
	for _, m := range matches[1:] {
		if m.RecipeID == domain.DeriveRecipeID(rowB) {
			assert.True(t, m.Fuzzy)
			assert.Zero(t, m.Score)
		}
	}
}

func TestIngest_RejectsConcurrentRun(t *testing.T) {
	ing := NewIngestor(
		&fakeSource{}, storemem.NewRecipeStore(), storemem.NewCheckpointStore(),
		storemem.NewDeadLetterStore(), newFakeEmbedder(), vecmem.New(), nil, IngestConfig{},
	)
	ing.running = true

	_, err := ing.Ingest(context.Background())

	require.ErrorIs(t, err, domain.ErrIngestInProgress)
}

func TestIngest_NilDependencies(t *testing.T) {
	ing := NewIngestor(
		&fakeSource{}, storemem.NewRecipeStore(), storemem.NewCheckpointStore(),
		storemem.NewDeadLetterStore(), nil, vecmem.New(), nil, IngestConfig{},
	)
	_, err := ing.Ingest(context.Background())
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	ing = NewIngestor(
		&fakeSource{}, storemem.NewRecipeStore(), storemem.NewCheckpointStore(),
		storemem.NewDeadLetterStore(), newFakeEmbedder(), nil, nil, IngestConfig{},
	)
	_, err = ing.Ingest(context.Background())
	require.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}
