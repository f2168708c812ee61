// Package csv reads bulk recipe rows from a CSV export.
//
// Column headers are resolved through a synonym table so exports from
// different dataset versions (e.g. "RecipeName" vs "name",
// "TranslatedInstructions" vs "Instructions") all parse. Missing optional
// columns default to zero values, never an error.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.RecipeSource = (*Source)(nil)

// field identifies one SourceRecord field a column can map to.
type field int

const (
	fieldNone field = iota
	fieldID
	fieldTitle
	fieldIngredients
	fieldInstructions
	fieldCuisine
	fieldCourse
	fieldDiet
	fieldPrepTime
	fieldCookTime
	fieldServings
	fieldImageURL
	fieldSourceURL
)

// synonyms maps canonicalised header names to record fields. Later columns
// mapping to an already-filled field only apply when the earlier value was
// empty, so "Instructions" wins over "TranslatedInstructions" when both
// columns exist and the first is populated.
var synonyms = map[string]field{
	"srno": fieldID, "id": fieldID, "recipeid": fieldID,
	"recipename": fieldTitle, "name": fieldTitle, "title": fieldTitle, "translatedrecipename": fieldTitle,
	"ingredients": fieldIngredients, "translatedingredients": fieldIngredients, "cleanedingredients": fieldIngredients,
	"instructions": fieldInstructions, "translatedinstructions": fieldInstructions, "method": fieldInstructions, "directions": fieldInstructions,
	"cuisine": fieldCuisine,
	"course":  fieldCourse,
	"diet":    fieldDiet,
	"preptimeinmins": fieldPrepTime, "preptime": fieldPrepTime,
	"cooktimeinmins": fieldCookTime, "cooktime": fieldCookTime, "totaltimeinmins": fieldNone,
	"servings": fieldServings,
	"imageurl": fieldImageURL, "image": fieldImageURL,
	"url": fieldSourceURL, "recipeurl": fieldSourceURL,
}

// Source reads recipe rows from one CSV file.
type Source struct {
	path string
}

// New creates a CSV source for the given file path.
func New(path string) *Source {
	return &Source{path: path}
}

// ReadAll returns every row in source order.
func (s *Source) ReadAll(ctx context.Context) ([]domain.SourceRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make([]field, len(header))
	for i, h := range header {
		columns[i] = synonyms[canonical(h)]
	}

	var records []domain.SourceRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(records)+2, err)
		}
		records = append(records, parseRow(columns, row))
	}
	return records, nil
}

// parseRow maps one CSV row onto a SourceRecord.
func parseRow(columns []field, row []string) domain.SourceRecord {
	var rec domain.SourceRecord
	for i, value := range row {
		if i >= len(columns) {
			break
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch columns[i] {
		case fieldID:
			setIfEmpty(&rec.RowID, value)
		case fieldTitle:
			setIfEmpty(&rec.Title, value)
		case fieldIngredients:
			setIfEmpty(&rec.Ingredients, value)
		case fieldInstructions:
			setIfEmpty(&rec.Instructions, value)
		case fieldCuisine:
			setIfEmpty(&rec.Cuisine, value)
		case fieldCourse:
			setIfEmpty(&rec.Course, value)
		case fieldDiet:
			setIfEmpty(&rec.Diet, value)
		case fieldPrepTime:
			setIntIfZero(&rec.PrepTimeMins, value)
		case fieldCookTime:
			setIntIfZero(&rec.CookTimeMins, value)
		case fieldServings:
			setIntIfZero(&rec.Servings, value)
		case fieldImageURL:
			setIfEmpty(&rec.ImageURL, value)
		case fieldSourceURL:
			setIfEmpty(&rec.SourceURL, value)
		}
	}
	return rec
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func setIntIfZero(dst *int, value string) {
	if *dst != 0 {
		return
	}
	// Non-numeric values ("45 M") degrade to their leading digits.
	n := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		if parsed, err := strconv.Atoi(value); err == nil {
			n = parsed
		}
	}
	*dst = n
}

// canonical lowercases a header and strips everything but letters and
// digits, so "Prep_Time-In Mins" and "PrepTimeInMins" collide.
func canonical(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
