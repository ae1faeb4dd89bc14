package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Connect opens the database and makes sure the schema exists
func Connect(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == DriverPostgres {
		idColumn = "SERIAL PRIMARY KEY"
	}

	// Create words table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS words (
			id ` + idColumn + `,
			english TEXT NOT NULL UNIQUE,
			russian TEXT NOT NULL,
			ipa TEXT,
			example TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create words table: %w", err)
	}

	// Every column but the key is nullable: absent values are backfilled on load
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS card_states (
			word TEXT PRIMARY KEY,
			ease DOUBLE PRECISION,
			interval_days INTEGER,
			reps INTEGER,
			lapses INTEGER,
			due TEXT,
			total_seen INTEGER,
			correct INTEGER,
			streak INTEGER,
			last_seen TEXT,
			last_result TEXT,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create card_states table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY,
			daily_target INTEGER NOT NULL,
			direction TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}

	return nil
}
