// Package sqlite provides a SQLite-backed recipe store for deployments
// where the relational database owns primary keys. Pure Go driver, no CGO.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
)

// Ensure RecipeStore implements the interface.
var _ driven.RecipeStore = (*RecipeStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	id             TEXT PRIMARY KEY,
	legacy_id      TEXT NOT NULL,
	title          TEXT NOT NULL DEFAULT '',
	ingredients    TEXT NOT NULL DEFAULT '',
	instructions   TEXT NOT NULL DEFAULT '',
	cuisine        TEXT NOT NULL DEFAULT '',
	course         TEXT NOT NULL DEFAULT '',
	diet           TEXT NOT NULL DEFAULT '',
	combined_tags  TEXT NOT NULL DEFAULT '',
	prep_time_mins INTEGER NOT NULL DEFAULT 0,
	cook_time_mins INTEGER NOT NULL DEFAULT 0,
	servings       INTEGER NOT NULL DEFAULT 0,
	image_url      TEXT NOT NULL DEFAULT '',
	source_url     TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recipes_legacy_id ON recipes(legacy_id);
`

const recipeColumns = `id, legacy_id, title, ingredients, instructions,
	cuisine, course, diet, combined_tags, prep_time_mins, cook_time_mins,
	servings, image_url, source_url, created_at, updated_at`

// RecipeStore is a SQLite implementation of driven.RecipeStore.
type RecipeStore struct {
	db   *sql.DB
	path string
}

// NewRecipeStore opens (or creates) the database under dataDir.
// If dataDir is empty, defaults to ~/.forkful/data/recipes.db.
func NewRecipeStore(dataDir string) (*RecipeStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".forkful", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "recipes.db")

	// WAL mode for better concurrency between query serving and ingestion.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &RecipeStore{db: db, path: dbPath}, nil
}

// Path returns the database file path.
func (s *RecipeStore) Path() string {
	return s.path
}

// Put stores or overwrites a recipe.
func (s *RecipeStore) Put(ctx context.Context, r *domain.Recipe) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipes (`+recipeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			legacy_id = excluded.legacy_id,
			title = excluded.title,
			ingredients = excluded.ingredients,
			instructions = excluded.instructions,
			cuisine = excluded.cuisine,
			course = excluded.course,
			diet = excluded.diet,
			combined_tags = excluded.combined_tags,
			prep_time_mins = excluded.prep_time_mins,
			cook_time_mins = excluded.cook_time_mins,
			servings = excluded.servings,
			image_url = excluded.image_url,
			source_url = excluded.source_url,
			updated_at = excluded.updated_at`,
		r.ID, r.LegacyID, r.Title, r.Ingredients, r.Instructions,
		r.Cuisine, r.Course, r.Diet, r.CombinedTags,
		r.PrepTimeMins, r.CookTimeMins, r.Servings,
		r.ImageURL, r.SourceURL, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert recipe: %w", err)
	}
	return nil
}

// Get retrieves a recipe by primary id.
func (s *RecipeStore) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)
	return scanRecipe(row)
}

// GetByLegacyID retrieves a recipe by its content-derived id.
func (s *RecipeStore) GetByLegacyID(ctx context.Context, legacyID string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE legacy_id = ? LIMIT 1`, legacyID)
	return scanRecipe(row)
}

// All returns every stored recipe.
func (s *RecipeStore) All(ctx context.Context) ([]domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recipeColumns+` FROM recipes`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []domain.Recipe
	for rows.Next() {
		var r domain.Recipe
		if err := scanInto(rows, &r); err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Flush is a no-op: writes are durable per statement.
func (s *RecipeStore) Flush(_ context.Context) error {
	return nil
}

// Close closes the database connection.
func (s *RecipeStore) Close() error {
	return s.db.Close()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row *sql.Row) (*domain.Recipe, error) {
	var r domain.Recipe
	if err := scanInto(row, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func scanInto(sc scanner, r *domain.Recipe) error {
	var created, updated time.Time
	err := sc.Scan(
		&r.ID, &r.LegacyID, &r.Title, &r.Ingredients, &r.Instructions,
		&r.Cuisine, &r.Course, &r.Diet, &r.CombinedTags,
		&r.PrepTimeMins, &r.CookTimeMins, &r.Servings,
		&r.ImageURL, &r.SourceURL, &created, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("scan recipe: %w", err)
	}
	r.CreatedAt = created
	r.UpdatedAt = updated
	return nil
}
