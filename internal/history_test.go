package internal

import (
	"fmt"
	"testing"
)

func historyIDs(h []HistoryEntry) []string {
	ids := make([]string, len(h))
	for i, e := range h {
		ids[i] = e.SessionID
	}
	return ids
}

func TestAddToHistory(t *testing.T) {
	tests := []struct {
		name    string
		start   []string
		add     string
		wantIDs []string
	}{
		{name: "empty", start: nil, add: "s1", wantIDs: []string{"s1"}},
		{name: "new goes first", start: []string{"s1"}, add: "s2", wantIDs: []string{"s2", "s1"}},
		{name: "re-add moves to front", start: []string{"s3", "s2", "s1"}, add: "s1", wantIDs: []string{"s1", "s3", "s2"}},
		{name: "re-add of front", start: []string{"s2", "s1"}, add: "s2", wantIDs: []string{"s2", "s1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var history []HistoryEntry
			for _, id := range tt.start {
				history = append(history, HistoryEntry{SessionID: id})
			}

			got := historyIDs(AddToHistory(history, HistoryEntry{SessionID: tt.add}))
			if fmt.Sprint(got) != fmt.Sprint(tt.wantIDs) {
				t.Errorf("AddToHistory() = %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestAddToHistory_Cap(t *testing.T) {
	var history []HistoryEntry
	for i := 0; i < MaxHistoryEntries+10; i++ {
		history = AddToHistory(history, HistoryEntry{SessionID: fmt.Sprintf("s%d", i)})
	}

	if len(history) != MaxHistoryEntries {
		t.Fatalf("len(history) = %d, want %d", len(history), MaxHistoryEntries)
	}
	if history[0].SessionID != fmt.Sprintf("s%d", MaxHistoryEntries+9) {
		t.Errorf("history[0] = %s, want newest", history[0].SessionID)
	}
	if history[MaxHistoryEntries-1].SessionID != "s10" {
		t.Errorf("oldest kept = %s, want s10", history[MaxHistoryEntries-1].SessionID)
	}
}

func TestAddToHistory_DoesNotMutateInput(t *testing.T) {
	history := []HistoryEntry{{SessionID: "s1"}, {SessionID: "s2"}}
	_ = AddToHistory(history, HistoryEntry{SessionID: "s2"})

	if history[0].SessionID != "s1" || history[1].SessionID != "s2" {
		t.Errorf("input mutated: %v", historyIDs(history))
	}
}

func TestFindHistoryEntry(t *testing.T) {
	history := []HistoryEntry{CreateTestHistoryEntry("s2", 1), CreateTestHistoryEntry("s1", 2)}

	if e, ok := FindHistoryEntry(history, "s1"); !ok || len(e.Posts) != 2 {
		t.Errorf("FindHistoryEntry(s1) = %+v, %v", e, ok)
	}
	if _, ok := FindHistoryEntry(history, "nope"); ok {
		t.Error("FindHistoryEntry(nope) should not find anything")
	}
	if e, ok := FindEntryForPost(history, "s1-p2"); !ok || e.SessionID != "s1" {
		t.Errorf("FindEntryForPost(s1-p2) = %s, %v", e.SessionID, ok)
	}
}

func TestHistoryEntry_ToSession(t *testing.T) {
	e := CreateTestHistoryEntry("s1", 3)
	s := e.ToSession()
	if s.ID != "s1" || len(s.Posts) != 3 || !s.CreatedAt.Equal(e.CreatedAt) {
		t.Errorf("ToSession() = %+v", s)
	}
}
