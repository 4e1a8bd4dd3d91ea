package store

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE ingredients (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			package_weight NUMERIC NOT NULL,
			cost NUMERIC NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE business_profile (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			monthly_salary NUMERIC NOT NULL,
			monthly_fixed_costs NUMERIC NOT NULL,
			hours_per_day NUMERIC NOT NULL,
			days_per_week NUMERIC NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE recipes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			yields NUMERIC NOT NULL,
			time_spent_minutes NUMERIC NOT NULL,
			profit_margin_percent NUMERIC NOT NULL,
			lines_json TEXT NOT NULL,
			hourly_rate_at_save NUMERIC NOT NULL,
			saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		t.Fatalf("failed creating schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
