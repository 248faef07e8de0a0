package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const slotsSchema = `
CREATE TABLE IF NOT EXISTS slots (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// OpenDatabase opens (creating if needed) a SQLite database and ensures the
// slots table exists
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := EnsureSlotsTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSlotsTable creates the slots table if missing
func EnsureSlotsTable(db *sql.DB) error {
	if _, err := db.Exec(slotsSchema); err != nil {
		return fmt.Errorf("failed to create slots table: %w", err)
	}
	return nil
}

// QuerySlots returns every non-null slot row
func QuerySlots(db *sql.DB) ([]KeyValuePair, error) {
	rows, err := db.Query("SELECT key, value FROM slots WHERE value IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		var value sql.NullString
		if err := rows.Scan(&pair.Key, &value); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if value.Valid {
			pair.Value = value.String
			pairs = append(pairs, pair)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return pairs, nil
}

// KeyValuePair represents one row of the slots table
type KeyValuePair struct {
	Key   string
	Value string
}
