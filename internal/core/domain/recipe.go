// Package domain contains the core types of the recipe retrieval pipeline.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// SourceRecord is one row read from a bulk recipe source.
// It is immutable once read; derived fields live on Recipe.
type SourceRecord struct {
	// RowID is the source-provided identifier, empty when the source has none.
	RowID string

	// Title is the recipe name.
	Title string

	// Ingredients is the raw, unsplit ingredient text.
	Ingredients string

	// Instructions is the raw preparation text.
	Instructions string

	// Cuisine, Course and Diet are free-form classification tags.
	Cuisine string
	Course  string
	Diet    string

	// PrepTimeMins and CookTimeMins are zero when the source omits them.
	PrepTimeMins int
	CookTimeMins int

	// Servings is zero when the source omits it.
	Servings int

	// ImageURL and SourceURL are optional.
	ImageURL  string
	SourceURL string
}

// Recipe is the durable, addressable unit of retrieval (the parent document).
// Created or overwritten during ingestion, never mutated at query time.
type Recipe struct {
	// ID is the primary identifier. Either the content-derived LegacyID or an
	// opaque generated id when a relational store owns primary keys.
	ID string

	// LegacyID is the stable content-derived id ("rid-" + hash, or the source
	// row id). Always set, so re-ingesting an unchanged row is idempotent.
	LegacyID string

	Title        string
	Ingredients  string
	Instructions string
	Cuisine      string
	Course       string
	Diet         string

	// CombinedTags is the comma-joined non-empty cuisine/course/diet tags.
	CombinedTags string

	PrepTimeMins int
	CookTimeMins int
	Servings     int

	ImageURL  string
	SourceURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveRecipeID returns the stable identifier for a source record: the
// row-provided id when present, otherwise a content hash of title and
// ingredients so unchanged rows always map to the same id.
func DeriveRecipeID(rec SourceRecord) string {
	if id := strings.TrimSpace(rec.RowID); id != "" {
		return id
	}
	sum := sha256.Sum256([]byte(rec.Title + "|" + rec.Ingredients))
	return "rid-" + hex.EncodeToString(sum[:])
}

// CombineTags joins the non-empty tags of a record with ", ".
func CombineTags(rec SourceRecord) string {
	var tags []string
	for _, t := range []string{rec.Cuisine, rec.Course, rec.Diet} {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return strings.Join(tags, ", ")
}

// NewRecipe builds a Recipe from a source record. The caller decides the
// primary ID; legacyID must be the value of DeriveRecipeID for the record.
func NewRecipe(id, legacyID string, rec SourceRecord, now time.Time) *Recipe {
	return &Recipe{
		ID:           id,
		LegacyID:     legacyID,
		Title:        rec.Title,
		Ingredients:  rec.Ingredients,
		Instructions: rec.Instructions,
		Cuisine:      rec.Cuisine,
		Course:       rec.Course,
		Diet:         rec.Diet,
		CombinedTags: CombineTags(rec),
		PrepTimeMins: rec.PrepTimeMins,
		CookTimeMins: rec.CookTimeMins,
		Servings:     rec.Servings,
		ImageURL:     rec.ImageURL,
		SourceURL:    rec.SourceURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ChunkID returns the identifier of one instruction chunk: "<recipeID>#c<index>".
func ChunkID(recipeID string, index int) string {
	return fmt.Sprintf("%s#c%d", recipeID, index)
}

// ChunkMetadata is the typed metadata denormalised onto every indexed chunk so
// the vector index can filter and display results without a join back to the
// recipe store. Malformed rows are rejected at the ingestion boundary instead
// of propagating loose maps through scoring.
type ChunkMetadata struct {
	// RecipeID is the primary id of the parent recipe.
	RecipeID string `json:"recipe_id"`

	// LegacyID is the content-derived parent id, kept for lookups against
	// stores keyed by the legacy scheme.
	LegacyID string `json:"legacy_id,omitempty"`

	// ChunkIndex is the ordinal position within the parent's instructions.
	ChunkIndex int `json:"chunk_index"`

	// TotalChunks is the number of chunks the parent produced. Consistent
	// across all chunks of one parent.
	TotalChunks int `json:"total_chunks"`

	Title       string   `json:"title,omitempty"`
	Tags        string   `json:"tags,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Cuisine     string   `json:"cuisine,omitempty"`
	Course      string   `json:"course,omitempty"`
	Diet        string   `json:"diet,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`

	// Text is the raw chunk text, stored for later display and for
	// reconstructing instructions in index order at query time.
	Text string `json:"text,omitempty"`
}

// ParentID returns the best available parent identifier for grouping,
// falling back through the legacy id to "unknown" so malformed metadata
// never breaks aggregation.
func (m ChunkMetadata) ParentID() string {
	if m.RecipeID != "" {
		return m.RecipeID
	}
	if m.LegacyID != "" {
		return m.LegacyID
	}
	return "unknown"
}

// Checkpoint records ingestion progress as the last fully processed row
// offset. It advances monotonically within a run.
type Checkpoint struct {
	LastProcessedRow int `json:"last_processed_row"`
}
