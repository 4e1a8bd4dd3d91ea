package pricing

import "math"

const (
	// weeksPerMonth is the fixed average used to spread monthly costs over
	// worked hours.
	weeksPerMonth = 4.28

	// variableCostRate is the flat surcharge on ingredient cost covering gas,
	// electricity and packaging attrition.
	variableCostRate = 0.10
)

// Ingredient is one pantry entry: a retail package and what it costs.
// PackageWeight is in grams, millilitres or units, whichever the ingredient
// is bought in; recipe quantities use the same unit.
type Ingredient struct {
	ID            int64
	Name          string
	PackageWeight float64
	Cost          float64
}

// UnitCost is the cost per gram/millilitre/unit of the package.
func (i Ingredient) UnitCost() float64 {
	return i.Cost / i.PackageWeight
}

// Profile holds the operator's pay target and working-hours pattern.
type Profile struct {
	MonthlySalary     float64
	MonthlyFixedCosts float64
	HoursPerDay       float64
	DaysPerWeek       float64
}

// Line references an ingredient and how much of it the recipe uses.
type Line struct {
	IngredientID int64   `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
}

// Recipe is the working document being priced. At most one line per
// ingredient id.
type Recipe struct {
	Name                string
	Yields              float64
	TimeSpentMinutes    float64
	ProfitMarginPercent float64
	Lines               []Line
}

// AddLine appends a zero-quantity line for the ingredient. Adding an
// ingredient already in the recipe is a no-op.
func (r *Recipe) AddLine(ingredientID int64) {
	for _, line := range r.Lines {
		if line.IngredientID == ingredientID {
			return
		}
	}
	r.Lines = append(r.Lines, Line{IngredientID: ingredientID})
}

// SetQuantity updates the quantity of the ingredient's line, if present.
// NaN is clamped to 0 so unparsed input never reaches the calculation.
func (r *Recipe) SetQuantity(ingredientID int64, quantity float64) {
	if math.IsNaN(quantity) {
		quantity = 0
	}
	for i := range r.Lines {
		if r.Lines[i].IngredientID == ingredientID {
			r.Lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveLine drops the ingredient's line. Removing an absent ingredient is a
// no-op.
func (r *Recipe) RemoveLine(ingredientID int64) {
	for i, line := range r.Lines {
		if line.IngredientID == ingredientID {
			r.Lines = append(r.Lines[:i], r.Lines[i+1:]...)
			return
		}
	}
}

// Result contains all intermediate and final values of the recipe pricing
// calculation. Every field is non-negative for non-negative inputs.
type Result struct {
	IngredientsCost float64
	VariableCosts   float64
	LaborCost       float64
	ProductionCost  float64
	ProfitValue     float64
	SaleTotal       float64
	PricePerUnit    float64
}

// HourlyRate derives the labor rate from the profile. A zero-hour working
// pattern yields a rate of 0 rather than an error.
func HourlyRate(p Profile) float64 {
	totalHoursMonth := p.HoursPerDay * p.DaysPerWeek * weeksPerMonth
	if totalHoursMonth <= 0 {
		return 0
	}
	return (p.MonthlySalary + p.MonthlyFixedCosts) / totalHoursMonth
}

// Price computes the full recipe economics. Lines whose ingredient is missing
// from the catalog contribute zero cost: deleting an ingredient must never
// make a recipe unpriceable. A recipe with zero yield reports a per-unit
// price of 0.
func Price(r Recipe, catalog map[int64]Ingredient, hourlyRate float64) Result {
	ingredientsCost := 0.0
	for _, line := range r.Lines {
		ingredient, ok := catalog[line.IngredientID]
		if !ok {
			continue
		}
		ingredientsCost += ingredient.UnitCost() * line.Quantity
	}

	variableCosts := ingredientsCost * variableCostRate
	laborCost := (r.TimeSpentMinutes / 60.0) * hourlyRate
	productionCost := ingredientsCost + variableCosts + laborCost
	profitValue := productionCost * (r.ProfitMarginPercent / 100.0)
	saleTotal := productionCost + profitValue

	pricePerUnit := 0.0
	if r.Yields > 0 {
		pricePerUnit = saleTotal / r.Yields
	}

	return Result{
		IngredientsCost: ingredientsCost,
		VariableCosts:   variableCosts,
		LaborCost:       laborCost,
		ProductionCost:  productionCost,
		ProfitValue:     profitValue,
		SaleTotal:       saleTotal,
		PricePerUnit:    pricePerUnit,
	}
}
