package domain

// SearchOptions controls a semantic search request.
type SearchOptions struct {
	// TopK is the maximum number of recipes to return. Values above the
	// engine's clamp are reduced; zero or negative selects the default.
	TopK int

	// Namespace selects the vector index partition. Empty means the
	// configured default namespace.
	Namespace string

	// Filter is an optional equality predicate over chunk metadata fields,
	// passed through to the vector index.
	Filter map[string]any
}

// ChunkHit is one chunk-level similarity hit as scored by the aggregator.
type ChunkHit struct {
	ChunkID string
	Score   float64
}

// RecipeResult is a ranked, query-time recipe match. Never persisted; the
// score is recomputed per query.
type RecipeResult struct {
	// RecipeID identifies the parent recipe.
	RecipeID string `json:"recipe_id"`

	// Score is the aggregate relevance signal over the recipe's chunks.
	Score float64 `json:"score"`

	Title string `json:"title,omitempty"`

	// Snippet is a short display string from the top-scoring chunk.
	Snippet string `json:"snippet,omitempty"`

	// Instructions is the recipe text reconstructed in original chunk order.
	Instructions string `json:"instructions,omitempty"`

	// MatchedChunks lists the contributing chunks in descending score order.
	MatchedChunks []ChunkHit `json:"matched_chunks,omitempty"`

	// Metadata is the top-scoring chunk's metadata.
	Metadata ChunkMetadata `json:"metadata"`
}

// IngredientMatch is one candidate from ingredient matching.
type IngredientMatch struct {
	RecipeID string `json:"recipe_id"`

	// Score is the fraction of the recipe's own ingredients covered by the
	// provided set; 1.0 means the recipe needs nothing extra.
	Score float64 `json:"score"`

	// MissingIngredients are the recipe's tokens not covered by the
	// provided set, in the recipe's own order.
	MissingIngredients []string `json:"missing_ingredients"`

	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`

	// Fuzzy marks candidates produced by the vector fallback tier rather
	// than the deterministic scan.
	Fuzzy bool `json:"fuzzy,omitempty"`
}
