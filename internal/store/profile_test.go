package store

import (
	"testing"

	"github.com/docelab/docepreco/internal/pricing"
)

func TestProfileStore_GetReturnsDefaultsOnFirstRead(t *testing.T) {
	s := NewProfileStore(newTestDB(t))

	p, err := s.Get()
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}

	want := pricing.Profile{MonthlySalary: 3000, MonthlyFixedCosts: 800, HoursPerDay: 8, DaysPerWeek: 5}
	if p != want {
		t.Fatalf("default profile = %+v, want %+v", p, want)
	}
}

func TestProfileStore_UpdateOverwritesSingleton(t *testing.T) {
	s := NewProfileStore(newTestDB(t))

	updated := pricing.Profile{MonthlySalary: 4500, MonthlyFixedCosts: 1200, HoursPerDay: 6, DaysPerWeek: 6}
	if err := s.Update(updated); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	p, err := s.Get()
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p != updated {
		t.Fatalf("profile = %+v, want %+v", p, updated)
	}

	var count int
	if err := newCountQuery(s, &count); err != nil {
		t.Fatalf("count profile rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single profile row, got %d", count)
	}
}

func newCountQuery(s *ProfileStore, count *int) error {
	return s.db.QueryRow(`SELECT COUNT(*) FROM business_profile`).Scan(count)
}
