package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
)

func setupTestStore(t *testing.T) *RecipeStore {
	t.Helper()

	store, err := NewRecipeStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func makeRecipe(id, legacyID, title string) *domain.Recipe {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.NewRecipe(id, legacyID, domain.SourceRecord{
		Title:        title,
		Ingredients:  "tomato, onion, garlic",
		Instructions: "Chop and simmer.",
		Cuisine:      "Continental",
		Course:       "Soup",
		Diet:         "Vegetarian",
		PrepTimeMins: 10,
		CookTimeMins: 25,
		Servings:     4,
	}, now)
}

func TestNewRecipeStore_CreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()

	store, err := NewRecipeStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "recipes.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestPutGet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	want := makeRecipe("uuid-1", "rid-1", "Tomato Soup")
	require.NoError(t, store.Put(ctx, want))

	got, err := store.Get(ctx, "uuid-1")
	require.NoError(t, err)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.LegacyID, got.LegacyID)
	assert.Equal(t, want.CombinedTags, got.CombinedTags)
	assert.Equal(t, want.PrepTimeMins, got.PrepTimeMins)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
}

func TestPut_UpsertsOnConflict(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Put(ctx, makeRecipe("uuid-1", "rid-1", "Old Title")))
	require.NoError(t, store.Put(ctx, makeRecipe("uuid-1", "rid-1", "New Title")))

	got, err := store.Get(ctx, "uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Title)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetByLegacyID(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Put(ctx, makeRecipe("uuid-1", "rid-1", "Dal")))

	got, err := store.GetByLegacyID(ctx, "rid-1")
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", got.ID)

	_, err = store.GetByLegacyID(ctx, "rid-missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_Missing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "nope")

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAll_ReturnsEveryRecipe(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Put(ctx, makeRecipe("uuid-1", "rid-1", "Dal")))
	require.NoError(t, store.Put(ctx, makeRecipe("uuid-2", "rid-2", "Upma")))

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReload_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewRecipeStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, makeRecipe("uuid-1", "rid-1", "Dal")))
	require.NoError(t, store.Close())

	reopened, err := NewRecipeStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "Dal", got.Title)
}
