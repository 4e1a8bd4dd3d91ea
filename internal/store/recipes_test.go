package store

import (
	"errors"
	"testing"

	"github.com/docelab/docepreco/internal/pricing"
)

func workingRecipe() pricing.Recipe {
	return pricing.Recipe{
		Name:                "Brigadeiro Gourmet",
		Yields:              20,
		TimeSpentMinutes:    60,
		ProfitMarginPercent: 30,
		Lines: []pricing.Line{
			{IngredientID: 1, Quantity: 395},
			{IngredientID: 2, Quantity: 100},
		},
	}
}

func TestRecipeStore_SaveThenLoadRoundTripsRecipeFields(t *testing.T) {
	s := NewRecipeStore(newTestDB(t))

	recipe := workingRecipe()
	saved, err := s.Save(recipe, 22.196)
	if err != nil {
		t.Fatalf("save recipe: %v", err)
	}
	if saved.ID == 0 || saved.SavedAt == "" {
		t.Fatalf("expected assigned id and timestamp, got %+v", saved)
	}
	if saved.HourlyRateAtSave != 22.196 {
		t.Fatalf("hourly rate at save = %v, want 22.196", saved.HourlyRateAtSave)
	}

	loaded, err := s.Load(saved.ID)
	if err != nil {
		t.Fatalf("load recipe: %v", err)
	}

	if loaded.Name != recipe.Name || loaded.Yields != recipe.Yields ||
		loaded.TimeSpentMinutes != recipe.TimeSpentMinutes ||
		loaded.ProfitMarginPercent != recipe.ProfitMarginPercent {
		t.Fatalf("loaded recipe = %+v, want %+v", loaded, recipe)
	}
	if len(loaded.Lines) != 2 || loaded.Lines[0] != recipe.Lines[0] || loaded.Lines[1] != recipe.Lines[1] {
		t.Fatalf("loaded lines = %+v, want %+v", loaded.Lines, recipe.Lines)
	}
}

func TestRecipeStore_SaveRejectsBlankName(t *testing.T) {
	s := NewRecipeStore(newTestDB(t))

	recipe := workingRecipe()
	recipe.Name = "   "

	if _, err := s.Save(recipe, 10); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}

	recipes, err := s.List()
	if err != nil {
		t.Fatalf("list recipes: %v", err)
	}
	if len(recipes) != 0 {
		t.Fatalf("rejected save still persisted %d recipes", len(recipes))
	}
}

func TestRecipeStore_SavePreservesDanglingLines(t *testing.T) {
	s := NewRecipeStore(newTestDB(t))

	recipe := workingRecipe()
	recipe.Lines = append(recipe.Lines, pricing.Line{IngredientID: 99, Quantity: 10})

	saved, err := s.Save(recipe, 0)
	if err != nil {
		t.Fatalf("save recipe: %v", err)
	}

	loaded, err := s.Load(saved.ID)
	if err != nil {
		t.Fatalf("load recipe: %v", err)
	}
	if len(loaded.Lines) != 3 {
		t.Fatalf("expected dangling line preserved, got %+v", loaded.Lines)
	}
}

func TestRecipeStore_LoadAbsentReturnsNotFound(t *testing.T) {
	s := NewRecipeStore(newTestDB(t))

	if _, err := s.Load(123); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecipeStore_DeleteAbsentLeavesListUntouched(t *testing.T) {
	s := NewRecipeStore(newTestDB(t))

	if _, err := s.Save(workingRecipe(), 5); err != nil {
		t.Fatalf("save recipe: %v", err)
	}

	if err := s.Delete(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	recipes, err := s.List()
	if err != nil {
		t.Fatalf("list recipes: %v", err)
	}
	if len(recipes) != 1 || recipes[0].Recipe.Name != "Brigadeiro Gourmet" {
		t.Fatalf("stored list changed after failed delete: %+v", recipes)
	}
}

func TestRecipeStore_ListIsInsertionOrdered(t *testing.T) {
	s := NewRecipeStore(newTestDB(t))

	for _, name := range []string{"Brigadeiro", "Beijinho", "Cajuzinho"} {
		recipe := workingRecipe()
		recipe.Name = name
		if _, err := s.Save(recipe, 1); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	recipes, err := s.List()
	if err != nil {
		t.Fatalf("list recipes: %v", err)
	}
	if len(recipes) != 3 {
		t.Fatalf("expected 3 recipes, got %d", len(recipes))
	}
	if recipes[0].Recipe.Name != "Brigadeiro" || recipes[2].Recipe.Name != "Cajuzinho" {
		t.Fatalf("recipes are not insertion ordered: %+v", recipes)
	}
}

func TestRecipeStore_DeleteRemovesSnapshot(t *testing.T) {
	s := NewRecipeStore(newTestDB(t))

	saved, err := s.Save(workingRecipe(), 5)
	if err != nil {
		t.Fatalf("save recipe: %v", err)
	}

	if err := s.Delete(saved.ID); err != nil {
		t.Fatalf("delete recipe: %v", err)
	}
	if _, err := s.Load(saved.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
