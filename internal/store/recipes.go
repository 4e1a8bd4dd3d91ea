package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/docelab/docepreco/internal/pricing"
)

// SavedRecipe is an immutable snapshot of a working recipe. HourlyRateAtSave
// freezes the labor-rate context so reloading a recipe reproduces the price
// it had when saved, even after the business profile changes.
type SavedRecipe struct {
	ID               int64
	SavedAt          string
	HourlyRateAtSave float64
	Recipe           pricing.Recipe
}

// RecipeStore persists saved-recipe snapshots. Recipe lines are stored as a
// JSON document column, dangling references included: a snapshot is never
// rewritten on load.
type RecipeStore struct {
	db *sql.DB
}

// NewRecipeStore wraps the shared database handle.
func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// Save snapshots the recipe with a fresh id and the current timestamp. The
// working recipe is not modified. Returns ErrNameRequired for a blank name.
func (s *RecipeStore) Save(r pricing.Recipe, hourlyRateAtSave float64) (SavedRecipe, error) {
	if strings.TrimSpace(r.Name) == "" {
		return SavedRecipe{}, ErrNameRequired
	}

	lines := r.Lines
	if lines == nil {
		lines = []pricing.Line{}
	}
	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return SavedRecipe{}, fmt.Errorf("marshal recipe lines: %w", err)
	}

	result, err := s.db.Exec(`
		INSERT INTO recipes (name, yields, time_spent_minutes, profit_margin_percent, lines_json, hourly_rate_at_save)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.Name, r.Yields, r.TimeSpentMinutes, r.ProfitMarginPercent, string(linesJSON), hourlyRateAtSave)
	if err != nil {
		return SavedRecipe{}, fmt.Errorf("insert recipe: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return SavedRecipe{}, fmt.Errorf("read recipe id: %w", err)
	}

	var savedAt string
	if err := s.db.QueryRow(`SELECT saved_at FROM recipes WHERE id = ?`, id).Scan(&savedAt); err != nil {
		return SavedRecipe{}, fmt.Errorf("read recipe timestamp: %w", err)
	}

	return SavedRecipe{ID: id, SavedAt: savedAt, HourlyRateAtSave: hourlyRateAtSave, Recipe: r}, nil
}

// Load returns a copy of the snapshot's recipe fields for use as a new
// working recipe. Returns ErrNotFound if the id is absent.
func (s *RecipeStore) Load(id int64) (pricing.Recipe, error) {
	var r pricing.Recipe
	var linesJSON string
	err := s.db.QueryRow(`
		SELECT name, yields, time_spent_minutes, profit_margin_percent, lines_json
		FROM recipes
		WHERE id = ?
	`, id).Scan(&r.Name, &r.Yields, &r.TimeSpentMinutes, &r.ProfitMarginPercent, &linesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Recipe{}, ErrNotFound
	}
	if err != nil {
		return pricing.Recipe{}, fmt.Errorf("query recipe: %w", err)
	}

	if err := json.Unmarshal([]byte(linesJSON), &r.Lines); err != nil {
		return pricing.Recipe{}, fmt.Errorf("unmarshal recipe lines: %w", err)
	}

	return r, nil
}

// Get returns the full snapshot, save-time context included. Returns
// ErrNotFound if the id is absent.
func (s *RecipeStore) Get(id int64) (SavedRecipe, error) {
	saved := SavedRecipe{ID: id}
	var linesJSON string
	err := s.db.QueryRow(`
		SELECT saved_at, hourly_rate_at_save, name, yields, time_spent_minutes, profit_margin_percent, lines_json
		FROM recipes
		WHERE id = ?
	`, id).Scan(
		&saved.SavedAt,
		&saved.HourlyRateAtSave,
		&saved.Recipe.Name,
		&saved.Recipe.Yields,
		&saved.Recipe.TimeSpentMinutes,
		&saved.Recipe.ProfitMarginPercent,
		&linesJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedRecipe{}, ErrNotFound
	}
	if err != nil {
		return SavedRecipe{}, fmt.Errorf("query recipe: %w", err)
	}

	if err := json.Unmarshal([]byte(linesJSON), &saved.Recipe.Lines); err != nil {
		return SavedRecipe{}, fmt.Errorf("unmarshal recipe lines: %w", err)
	}

	return saved, nil
}

// Delete removes the snapshot. Returns ErrNotFound if the id is absent; the
// stored list is untouched either way.
func (s *RecipeStore) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns all snapshots in insertion order.
func (s *RecipeStore) List() ([]SavedRecipe, error) {
	rows, err := s.db.Query(`
		SELECT id, saved_at, hourly_rate_at_save, name, yields, time_spent_minutes, profit_margin_percent, lines_json
		FROM recipes
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]SavedRecipe, 0)
	for rows.Next() {
		var saved SavedRecipe
		var linesJSON string
		err := rows.Scan(
			&saved.ID,
			&saved.SavedAt,
			&saved.HourlyRateAtSave,
			&saved.Recipe.Name,
			&saved.Recipe.Yields,
			&saved.Recipe.TimeSpentMinutes,
			&saved.Recipe.ProfitMarginPercent,
			&linesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		if err := json.Unmarshal([]byte(linesJSON), &saved.Recipe.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal recipe lines: %w", err)
		}
		recipes = append(recipes, saved)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}

	return recipes, nil
}
