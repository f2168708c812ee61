package domain

import (
	"strings"
	"unicode"
)

// ingredientSeparators are the characters a raw ingredient field is split on.
var ingredientSeparators = map[rune]bool{',': true, ';': true, '|': true, '\n': true}

// SplitIngredients splits a raw ingredient field into lowercased, trimmed
// tokens. Empty tokens are dropped.
func SplitIngredients(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return ingredientSeparators[r]
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.ToLower(strings.TrimSpace(f)); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// NormalizeIngredient canonicalises one ingredient for matching: lowercase,
// strip everything but letters, digits and spaces, collapse runs of
// whitespace to a single space.
func NormalizeIngredient(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		default:
			// Punctuation acts as a soft separator so "chilli-flakes"
			// and "chilli flakes" normalise identically.
			space = true
		}
	}
	return b.String()
}

// NormalizeIngredients normalises a token list, dropping tokens that
// normalise to nothing and de-duplicating the rest in input order.
func NormalizeIngredients(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		n := NormalizeIngredient(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
