package services

import (
	"sort"
	"strings"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
)

// Aggregation tunables. The weights and caps mirror the behaviour the index
// was built against; they are configurable, not load-bearing invariants.
const (
	// DefaultSumWeight subordinates the sum term to the max term, so a
	// recipe with one dominant chunk outranks one with many weak chunks.
	DefaultSumWeight = 0.1

	// snippetTextChars is how much chunk text feeds the display snippet.
	snippetTextChars = 160

	// snippetMaxChars caps the whole snippet.
	snippetMaxChars = 300
)

// Aggregator groups chunk-level matches by parent recipe and computes a
// combined relevance score per recipe.
type Aggregator struct {
	sumWeight float64
}

// NewAggregator creates an aggregator. A non-positive sumWeight selects the
// default.
func NewAggregator(sumWeight float64) *Aggregator {
	if sumWeight <= 0 {
		sumWeight = DefaultSumWeight
	}
	return &Aggregator{sumWeight: sumWeight}
}

// Aggregate groups chunk matches by recipe, scores each recipe as
// max(chunkScores) + sumWeight*sum(chunkScores), reconstructs instructions
// in chunk-index order and returns the topK recipes, best first. It is
// deterministic: equal scores are broken by recipe id.
func (a *Aggregator) Aggregate(matches []driven.VectorMatch, topK int) []domain.RecipeResult {
	if len(matches) == 0 || topK <= 0 {
		return []domain.RecipeResult{}
	}

	groups := make(map[string][]driven.VectorMatch)
	order := make([]string, 0)
	for _, m := range matches {
		id := m.Metadata.ParentID()
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], m)
	}

	results := make([]domain.RecipeResult, 0, len(groups))
	for _, id := range order {
		group := groups[id]

		// Best chunk first within the group.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})

		var sum float64
		hits := make([]domain.ChunkHit, 0, len(group))
		for _, m := range group {
			sum += m.Score
			hits = append(hits, domain.ChunkHit{ChunkID: m.ID, Score: m.Score})
		}
		top := group[0]
		score := top.Score + a.sumWeight*sum

		results = append(results, domain.RecipeResult{
			RecipeID:      id,
			Score:         score,
			Title:         top.Metadata.Title,
			Snippet:       buildSnippet(top.Metadata),
			Instructions:  joinInstructions(group),
			MatchedChunks: hits,
			Metadata:      top.Metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].RecipeID < results[j].RecipeID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// buildSnippet renders "<title> — <leading chunk text>", capped at
// snippetMaxChars.
func buildSnippet(meta domain.ChunkMetadata) string {
	text := truncateRunes(strings.TrimSpace(meta.Text), snippetTextChars)

	snippet := text
	if meta.Title != "" {
		snippet = meta.Title
		if text != "" {
			snippet += " — " + text
		}
	}
	return truncateRunes(snippet, snippetMaxChars)
}

// joinInstructions restores original text order: chunks arrive in score
// order from the index, but instructions are presented downstream and must
// read as one coherent passage.
func joinInstructions(group []driven.VectorMatch) string {
	ordered := make([]driven.VectorMatch, len(group))
	copy(ordered, group)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Metadata.ChunkIndex < ordered[j].Metadata.ChunkIndex
	})

	parts := make([]string, 0, len(ordered))
	for _, m := range ordered {
		if t := strings.TrimSpace(m.Metadata.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
