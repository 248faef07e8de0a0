package internal

import (
	"path/filepath"
	"testing"

	"github.com/iksnae/doomlearn/testutil"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "new database",
			setup: func(t *testing.T) string {
				return filepath.Join(testutil.CreateTempDir(t), "state.db")
			},
			wantErr: false,
		},
		{
			name: "missing parent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(testutil.CreateTempDir(t), "missing", "dir", "state.db")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := OpenDatabase(tt.setup(t))
			if (err != nil) != tt.wantErr {
				t.Errorf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			defer db.Close()

			pairs, err := QuerySlots(db)
			if err != nil {
				t.Fatalf("QuerySlots() on new database error = %v", err)
			}
			if len(pairs) != 0 {
				t.Errorf("new database has %d slots, want 0", len(pairs))
			}
		})
	}
}

func TestQuerySlots(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	testutil.InsertSlot(t, db, SlotLikedPostIDs, `["p1"]`)
	testutil.InsertSlot(t, db, SlotGeminiAPIKey, `"key"`)
	if _, err := db.Exec("INSERT INTO slots (key, value) VALUES (?, NULL)", "nullSlot"); err != nil {
		t.Fatalf("insert null slot: %v", err)
	}

	pairs, err := QuerySlots(db)
	if err != nil {
		t.Fatalf("QuerySlots() error = %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("QuerySlots() returned %d pairs, want 2 (null skipped)", len(pairs))
	}

	got := map[string]string{}
	for _, p := range pairs {
		got[p.Key] = p.Value
	}
	if got[SlotLikedPostIDs] != `["p1"]` {
		t.Errorf("likedPostIds = %q", got[SlotLikedPostIDs])
	}
}

func TestEnsureSlotsTable_Idempotent(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	for i := 0; i < 2; i++ {
		if err := EnsureSlotsTable(db); err != nil {
			t.Fatalf("EnsureSlotsTable() call %d error = %v", i+1, err)
		}
	}
}
