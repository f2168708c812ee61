package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driving"
	"github.com/forkful-labs/forkful-cli/internal/logger"
)

// Ensure MatcherService implements the interface.
var _ driving.MatcherService = (*MatcherService)(nil)

// Matching tunables. Deliberate but undistinguished constants; they are
// exposed as config so callers can tune them.
const (
	// DefaultLenientThreshold keeps partial matches covering at least this
	// fraction of a recipe's ingredients.
	DefaultLenientThreshold = 0.6

	// DefaultFallbackTrigger engages the fuzzy tier when the exact tier
	// yields fewer candidates than this: enough results to feel useful
	// without over-relying on approximate search when a precise answer
	// set exists.
	DefaultFallbackTrigger = 10

	// DefaultFallbackTopK is the elevated recipe count requested from the
	// query engine for the fuzzy tier.
	DefaultFallbackTopK = 50

	// DefaultMaxMatches caps the result list of either tier.
	DefaultMaxMatches = 50
)

// MatcherConfig tunes the two-tier ingredient matcher.
type MatcherConfig struct {
	LenientThreshold float64
	FallbackTrigger  int
	FallbackTopK     int
	MaxMatches       int
}

func (c *MatcherConfig) applyDefaults() {
	if c.LenientThreshold <= 0 || c.LenientThreshold > 1 {
		c.LenientThreshold = DefaultLenientThreshold
	}
	if c.FallbackTrigger <= 0 {
		c.FallbackTrigger = DefaultFallbackTrigger
	}
	if c.FallbackTopK <= 0 {
		c.FallbackTopK = DefaultFallbackTopK
	}
	if c.MaxMatches <= 0 {
		c.MaxMatches = DefaultMaxMatches
	}
}

// MatcherService ranks recipes against a provided ingredient set using a
// deterministic scan of the recipe store first and semantic search as a
// fallback when the exact tier is thin.
type MatcherService struct {
	store  driven.RecipeStore
	search *SearchService
	cfg    MatcherConfig
}

// NewMatcherService creates the matcher. The search service is optional;
// without it the fuzzy tier is skipped.
func NewMatcherService(store driven.RecipeStore, search *SearchService, cfg MatcherConfig) *MatcherService {
	cfg.applyDefaults()
	return &MatcherService{store: store, search: search, cfg: cfg}
}

// MatchByIngredients implements driving.MatcherService.
func (m *MatcherService) MatchByIngredients(
	ctx context.Context, ingredients []string,
) ([]domain.IngredientMatch, error) {
	provided := domain.NormalizeIngredients(ingredients)
	if len(provided) == 0 {
		return nil, fmt.Errorf("%w: no ingredients provided", domain.ErrInvalidInput)
	}

	logger.Section("Ingredient Match")
	logger.Debug("Provided: %v", provided)

	have := make(map[string]bool, len(provided))
	for _, p := range provided {
		have[p] = true
	}

	matches, err := m.exactTier(ctx, have)
	if err != nil {
		return nil, err
	}
	logger.Debug("Exact tier: %d candidates", len(matches))

	if len(matches) < m.cfg.FallbackTrigger && m.search != nil {
		fuzzy, err := m.fuzzyTier(ctx, provided, have, matches)
		if err != nil {
			// The exact tier already produced a usable answer set;
			// a fallback failure degrades rather than fails.
			logger.Warn("Fuzzy tier failed: %v", err)
		} else {
			logger.Debug("Fuzzy tier: %d extra candidates", len(fuzzy))
			matches = append(matches, fuzzy...)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].RecipeID < matches[j].RecipeID
	})

	if len(matches) > m.cfg.MaxMatches {
		matches = matches[:m.cfg.MaxMatches]
	}
	return matches, nil
}

// exactTier scans the full recipe store: a linear, deterministic membership
// test rather than a similarity search.
func (m *MatcherService) exactTier(ctx context.Context, have map[string]bool) ([]domain.IngredientMatch, error) {
	recipes, err := m.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan recipe store: %w", err)
	}

	var matches []domain.IngredientMatch
	for i := range recipes {
		r := &recipes[i]
		score, missing := scoreAgainst(r, have)
		if score < 1.0 && score < m.cfg.LenientThreshold {
			continue
		}
		matches = append(matches, domain.IngredientMatch{
			RecipeID:           r.ID,
			Score:              score,
			MissingIngredients: missing,
			Title:              r.Title,
			Snippet:            recipeSnippet(r),
		})
	}
	return matches, nil
}

// fuzzyTier joins the provided ingredients into one query and reuses the
// query engine with an elevated topK, then applies the same missing
// ingredient calculation against each hit's cached recipe.
func (m *MatcherService) fuzzyTier(
	ctx context.Context, provided []string, have map[string]bool, exact []domain.IngredientMatch,
) ([]domain.IngredientMatch, error) {
	seen := make(map[string]bool, len(exact))
	for _, e := range exact {
		seen[e.RecipeID] = true
	}

	results, err := m.search.search(ctx, strings.Join(provided, ", "), m.cfg.FallbackTopK, domain.SearchOptions{})
	if err != nil {
		return nil, err
	}

	var matches []domain.IngredientMatch
	for _, res := range results {
		if seen[res.RecipeID] {
			continue
		}
		seen[res.RecipeID] = true

		recipe, err := m.lookup(ctx, res)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("Fuzzy hit %s has no cached recipe, skipping", res.RecipeID)
				continue
			}
			return nil, err
		}

		score, missing := scoreAgainst(recipe, have)
		matches = append(matches, domain.IngredientMatch{
			RecipeID:           recipe.ID,
			Score:              score,
			MissingIngredients: missing,
			Title:              recipe.Title,
			Snippet:            recipeSnippet(recipe),
			Fuzzy:              true,
		})
	}
	return matches, nil
}

// lookup resolves a search result to its cached recipe, trying the primary
// id first and the legacy id carried in chunk metadata second.
func (m *MatcherService) lookup(ctx context.Context, res domain.RecipeResult) (*domain.Recipe, error) {
	recipe, err := m.store.Get(ctx, res.RecipeID)
	if err == nil {
		return recipe, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if legacy := res.Metadata.LegacyID; legacy != "" && legacy != res.RecipeID {
		return m.store.GetByLegacyID(ctx, legacy)
	}
	return nil, domain.ErrNotFound
}

// scoreAgainst computes the covered fraction of the recipe's own ingredient
// tokens and the uncovered remainder. An empty ingredient list is vacuously
// satisfied.
func scoreAgainst(r *domain.Recipe, have map[string]bool) (float64, []string) {
	tokens := domain.NormalizeIngredients(domain.SplitIngredients(r.Ingredients))
	if len(tokens) == 0 {
		return 1.0, []string{}
	}

	matched := 0
	missing := make([]string, 0)
	for _, t := range tokens {
		if have[t] {
			matched++
		} else {
			missing = append(missing, t)
		}
	}
	return float64(matched) / float64(len(tokens)), missing
}

// recipeSnippet is a short display line for match output.
func recipeSnippet(r *domain.Recipe) string {
	const snippetChars = 160
	return truncateRunes(strings.TrimSpace(r.Instructions), snippetChars)
}
