package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/docelab/docepreco/internal/pricing"
)

// Default business profile used when no row exists yet.
const (
	defaultMonthlySalary     = 3000
	defaultMonthlyFixedCosts = 800
	defaultHoursPerDay       = 8
	defaultDaysPerWeek       = 5
)

// ProfileStore persists the business profile as a singleton row.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore wraps the shared database handle.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Ensure inserts the default profile if the singleton row is missing.
func (s *ProfileStore) Ensure() error {
	_, err := s.db.Exec(`
		INSERT INTO business_profile (id, monthly_salary, monthly_fixed_costs, hours_per_day, days_per_week)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, defaultMonthlySalary, defaultMonthlyFixedCosts, defaultHoursPerDay, defaultDaysPerWeek)
	if err != nil {
		return fmt.Errorf("insert default business profile: %w", err)
	}
	return nil
}

// Get reads the profile, inserting the default row first if needed.
func (s *ProfileStore) Get() (pricing.Profile, error) {
	if err := s.Ensure(); err != nil {
		return pricing.Profile{}, err
	}

	var p pricing.Profile
	err := s.db.QueryRow(`
		SELECT monthly_salary, monthly_fixed_costs, hours_per_day, days_per_week
		FROM business_profile
		WHERE id = 1
	`).Scan(&p.MonthlySalary, &p.MonthlyFixedCosts, &p.HoursPerDay, &p.DaysPerWeek)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.Profile{}, fmt.Errorf("business profile singleton not found")
		}
		return pricing.Profile{}, fmt.Errorf("query business profile: %w", err)
	}
	return p, nil
}

// Update overwrites the whole profile row.
func (s *ProfileStore) Update(p pricing.Profile) error {
	if err := s.Ensure(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		UPDATE business_profile
		SET
			monthly_salary = ?,
			monthly_fixed_costs = ?,
			hours_per_day = ?,
			days_per_week = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`, p.MonthlySalary, p.MonthlyFixedCosts, p.HoursPerDay, p.DaysPerWeek)
	if err != nil {
		return fmt.Errorf("update business profile: %w", err)
	}

	return nil
}
