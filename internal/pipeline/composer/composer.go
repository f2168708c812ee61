// Package composer builds the embeddable text for one recipe record.
//
// Every chunk is prefixed with the recipe's title, ingredients and tags so a
// chunk alone, without its siblings, still carries enough context for the
// embedding to be discriminative.
package composer

import (
	"strings"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
)

// Prefix returns the context block prepended to every chunk of a record:
// the title, an "Ingredients: ..." line and a "Tags: ..." line, each omitted
// when its source field is empty, terminated by a blank line when anything
// was emitted.
func Prefix(rec domain.SourceRecord) string {
	var parts []string

	if title := strings.TrimSpace(rec.Title); title != "" {
		parts = append(parts, title)
	}

	if tokens := domain.SplitIngredients(rec.Ingredients); len(tokens) > 0 {
		parts = append(parts, "Ingredients: "+strings.Join(tokens, ", "))
	}

	if tags := domain.CombineTags(rec); tags != "" {
		parts = append(parts, "Tags: "+tags)
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n") + "\n\n"
}

// FullInstructions returns the trimmed instruction text of a record.
func FullInstructions(rec domain.SourceRecord) string {
	return strings.TrimSpace(rec.Instructions)
}
