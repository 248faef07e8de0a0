package internal

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
)

// StateDBName is the SQLite file written by SQLiteStore
const StateDBName = "state.db"

// SQLiteStore persists each slot as one row of the slots table, so a
// damaged slot never takes the others down with it
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore opens dir/state.db
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	path := filepath.Join(dir, StateDBName)
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// NewSQLiteStoreFromDB wraps an already open database
func NewSQLiteStoreFromDB(db *sql.DB) (*SQLiteStore, error) {
	if err := EnsureSlotsTable(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, path: "sqlite"}, nil
}

// Path returns the database path
func (s *SQLiteStore) Path() string {
	return s.path
}

// Load reads all slots. Query failures yield defaults.
func (s *SQLiteStore) Load() PersistedState {
	s.mu.Lock()
	defer s.mu.Unlock()

	pairs, err := QuerySlots(s.db)
	if err != nil {
		LogWarn("%v", &StorageError{Path: s.path, Op: "read", Err: err})
		return EmptyPersistedState()
	}

	raw := make(map[string][]byte, len(pairs))
	for _, pair := range pairs {
		raw[pair.Key] = []byte(pair.Value)
	}
	return decodeSlots("slots", raw)
}

// Save upserts every slot inside one transaction
func (s *SQLiteStore) Save(state PersistedState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := encodeSlots(state)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare("INSERT INTO slots (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
	if err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	defer stmt.Close()

	for _, key := range PersistedSlots {
		if _, err := stmt.Exec(key, string(slots[key])); err != nil {
			return &StorageError{Path: s.path, Op: "write", Err: fmt.Errorf("slot %s: %w", key, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
