package store

import (
	"database/sql"
	"fmt"

	"github.com/docelab/docepreco/internal/pricing"
)

// IngredientStore persists the pantry: one row per retail package.
type IngredientStore struct {
	db *sql.DB
}

// NewIngredientStore wraps the shared database handle.
func NewIngredientStore(db *sql.DB) *IngredientStore {
	return &IngredientStore{db: db}
}

// Add inserts a new ingredient and returns it with its assigned id.
// Callers must validate packageWeight > 0 and cost >= 0 before calling;
// the store does not re-check. Duplicate names are allowed.
func (s *IngredientStore) Add(name string, packageWeight, cost float64) (pricing.Ingredient, error) {
	result, err := s.db.Exec(`
		INSERT INTO ingredients (name, package_weight, cost)
		VALUES (?, ?, ?)
	`, name, packageWeight, cost)
	if err != nil {
		return pricing.Ingredient{}, fmt.Errorf("insert ingredient: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return pricing.Ingredient{}, fmt.Errorf("read ingredient id: %w", err)
	}

	return pricing.Ingredient{ID: id, Name: name, PackageWeight: packageWeight, Cost: cost}, nil
}

// Remove deletes the ingredient. Recipe lines referencing it are left in
// place and become dangling; pricing skips them. Returns ErrNotFound if the
// id does not exist.
func (s *IngredientStore) Remove(id int64) error {
	result, err := s.db.Exec(`DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns all ingredients ordered by insertion.
func (s *IngredientStore) List() ([]pricing.Ingredient, error) {
	rows, err := s.db.Query(`
		SELECT id, name, package_weight, cost
		FROM ingredients
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := make([]pricing.Ingredient, 0)
	for rows.Next() {
		var ing pricing.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.PackageWeight, &ing.Cost); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredients: %w", err)
	}

	return ingredients, nil
}

// Catalog returns the pantry keyed by id, the shape the pricing engine reads.
func (s *IngredientStore) Catalog() (map[int64]pricing.Ingredient, error) {
	ingredients, err := s.List()
	if err != nil {
		return nil, err
	}

	catalog := make(map[int64]pricing.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		catalog[ing.ID] = ing
	}
	return catalog, nil
}
