package seed

import (
	"database/sql"
	"fmt"
)

// pantryStaple is one seed ingredient for a fresh install.
type pantryStaple struct {
	name          string
	packageWeight float64
	cost          float64
}

// Seed pantry for a fresh database, matching the starter spreadsheet most
// confectioners begin from.
var pantryStaples = []pantryStaple{
	{"Leite Condensado", 395, 5.50},
	{"Creme de Leite", 200, 3.20},
	{"Chocolate em Pó 50%", 1000, 35.00},
	{"Manteiga", 200, 12.00},
	{"Farinha de Trigo", 1000, 5.00},
	{"Ovos (unidade)", 1, 0.80},
	{"Embalagem Unitária", 1, 1.50},
}

// Default business profile for a fresh database.
const (
	defaultMonthlySalary     = 3000
	defaultMonthlyFixedCosts = 800
	defaultHoursPerDay       = 8
	defaultDaysPerWeek       = 5
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way. Ingredients are keyed
// by name here only to keep reruns from duplicating the starter pantry; the
// catalog itself allows duplicate names.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureProfile(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensurePantry(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureProfile(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM business_profile WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check business profile existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO business_profile (id, monthly_salary, monthly_fixed_costs, hours_per_day, days_per_week)
		VALUES (1, ?, ?, ?, ?)
	`, defaultMonthlySalary, defaultMonthlyFixedCosts, defaultHoursPerDay, defaultDaysPerWeek); err != nil {
		return fmt.Errorf("insert business profile singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensurePantry(tx *sql.Tx, stats *Stats) error {
	for _, staple := range pantryStaples {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM ingredients WHERE name = ? LIMIT 1)`, staple.name).Scan(&exists); err != nil {
			return fmt.Errorf("check ingredient existence: %w", err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO ingredients (name, package_weight, cost)
			VALUES (?, ?, ?)
		`, staple.name, staple.packageWeight, staple.cost); err != nil {
			return fmt.Errorf("insert ingredient %q: %w", staple.name, err)
		}
		stats.Inserts++
	}
	return nil
}
