package pricing

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func testCatalog() map[int64]Ingredient {
	return map[int64]Ingredient{
		1: {ID: 1, Name: "Leite Condensado", PackageWeight: 395, Cost: 5.50},
		2: {ID: 2, Name: "Creme de Leite", PackageWeight: 200, Cost: 3.20},
	}
}

func brigadeiro() Recipe {
	return Recipe{
		Name:                "Brigadeiro Gourmet",
		Yields:              20,
		TimeSpentMinutes:    60,
		ProfitMarginPercent: 30,
		Lines: []Line{
			{IngredientID: 1, Quantity: 395},
			{IngredientID: 2, Quantity: 100},
		},
	}
}

func TestHourlyRate_ReferenceProfile(t *testing.T) {
	rate := HourlyRate(Profile{MonthlySalary: 3000, MonthlyFixedCosts: 800, HoursPerDay: 8, DaysPerWeek: 5})

	nearlyEqual(t, "hourlyRate", rate, 3800.0/171.2)
}

func TestHourlyRate_ZeroHoursYieldsZero(t *testing.T) {
	profiles := []Profile{
		{MonthlySalary: 3000, MonthlyFixedCosts: 800, HoursPerDay: 0, DaysPerWeek: 5},
		{MonthlySalary: 3000, MonthlyFixedCosts: 800, HoursPerDay: 8, DaysPerWeek: 0},
		{MonthlySalary: 3000, MonthlyFixedCosts: 800},
	}

	for _, p := range profiles {
		if rate := HourlyRate(p); rate != 0 {
			t.Fatalf("HourlyRate(%+v) = %v, want 0", p, rate)
		}
	}
}

func TestHourlyRate_MonotonicInSalaryAndFixedCosts(t *testing.T) {
	base := Profile{MonthlySalary: 1000, MonthlyFixedCosts: 500, HoursPerDay: 6, DaysPerWeek: 4}
	baseRate := HourlyRate(base)

	moreSalary := base
	moreSalary.MonthlySalary += 700
	if HourlyRate(moreSalary) < baseRate {
		t.Fatalf("rate decreased when salary increased")
	}

	moreFixed := base
	moreFixed.MonthlyFixedCosts += 300
	if HourlyRate(moreFixed) < baseRate {
		t.Fatalf("rate decreased when fixed costs increased")
	}
}

func TestPrice_BrigadeiroScenario(t *testing.T) {
	rate := HourlyRate(Profile{MonthlySalary: 3000, MonthlyFixedCosts: 800, HoursPerDay: 8, DaysPerWeek: 5})
	result := Price(brigadeiro(), testCatalog(), rate)

	nearlyEqual(t, "ingredientsCost", result.IngredientsCost, 7.10)
	nearlyEqual(t, "variableCosts", result.VariableCosts, 0.71)
	nearlyEqual(t, "laborCost", result.LaborCost, 3800.0/171.2)
	nearlyEqual(t, "productionCost", result.ProductionCost, 7.81+3800.0/171.2)

	wantProduction := 7.81 + 3800.0/171.2
	nearlyEqual(t, "profitValue", result.ProfitValue, wantProduction*0.30)
	nearlyEqual(t, "saleTotal", result.SaleTotal, wantProduction*1.30)
	nearlyEqual(t, "pricePerUnit", result.PricePerUnit, wantProduction*1.30/20)
}

func TestPrice_PerUnitTimesYieldsEqualsSaleTotal(t *testing.T) {
	result := Price(brigadeiro(), testCatalog(), 22.0)

	nearlyEqual(t, "pricePerUnit*yields", result.PricePerUnit*20, result.SaleTotal)
}

func TestPrice_ZeroYieldReportsZeroPerUnit(t *testing.T) {
	recipe := brigadeiro()
	recipe.Yields = 0

	result := Price(recipe, testCatalog(), 22.0)

	if result.PricePerUnit != 0 {
		t.Fatalf("pricePerUnit = %v, want 0 for zero yield", result.PricePerUnit)
	}
	if result.SaleTotal <= 0 {
		t.Fatalf("saleTotal = %v, want positive even with zero yield", result.SaleTotal)
	}
}

func TestPrice_DanglingLineContributesZero(t *testing.T) {
	catalog := testCatalog()
	full := Price(brigadeiro(), catalog, 0)

	// Simulate deleting Creme de Leite from the pantry after the recipe
	// referenced it.
	delete(catalog, 2)
	partial := Price(brigadeiro(), catalog, 0)

	nearlyEqual(t, "ingredientsCost after delete", partial.IngredientsCost, full.IngredientsCost-1.60)
}

func TestPrice_IsDeterministic(t *testing.T) {
	first := Price(brigadeiro(), testCatalog(), 22.196)
	second := Price(brigadeiro(), testCatalog(), 22.196)

	if first != second {
		t.Fatalf("identical inputs produced different results: %+v vs %+v", first, second)
	}
}

func TestAddLine_DuplicateIsNoOp(t *testing.T) {
	recipe := Recipe{}
	recipe.AddLine(7)
	recipe.SetQuantity(7, 120)
	recipe.AddLine(7)

	if len(recipe.Lines) != 1 {
		t.Fatalf("expected exactly one line, got %d", len(recipe.Lines))
	}
	if recipe.Lines[0].Quantity != 120 {
		t.Fatalf("duplicate AddLine reset quantity to %v", recipe.Lines[0].Quantity)
	}
}

func TestAddLine_StartsAtZeroQuantity(t *testing.T) {
	recipe := Recipe{}
	recipe.AddLine(3)

	if recipe.Lines[0].Quantity != 0 {
		t.Fatalf("new line quantity = %v, want 0", recipe.Lines[0].Quantity)
	}
}

func TestSetQuantity_ClampsNaNToZero(t *testing.T) {
	recipe := Recipe{}
	recipe.AddLine(1)
	recipe.SetQuantity(1, math.NaN())

	if recipe.Lines[0].Quantity != 0 {
		t.Fatalf("quantity = %v, want 0 after NaN clamp", recipe.Lines[0].Quantity)
	}
}

func TestRemoveLine_AbsentIsNoOp(t *testing.T) {
	recipe := Recipe{}
	recipe.AddLine(1)
	recipe.AddLine(2)

	recipe.RemoveLine(99)
	if len(recipe.Lines) != 2 {
		t.Fatalf("expected 2 lines after removing absent id, got %d", len(recipe.Lines))
	}

	recipe.RemoveLine(1)
	if len(recipe.Lines) != 1 || recipe.Lines[0].IngredientID != 2 {
		t.Fatalf("unexpected lines after removal: %+v", recipe.Lines)
	}
}
