package internal

// MaxHistoryEntries bounds the history log
const MaxHistoryEntries = 50

// AddToHistory returns a new history with entry at the front. Any earlier
// entry with the same session id is dropped first, and the result is cut to
// MaxHistoryEntries. Order is insertion order, never CreatedAt.
func AddToHistory(history []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(history)+1)
	out = append(out, entry)
	for _, h := range history {
		if h.SessionID == entry.SessionID {
			continue
		}
		out = append(out, h)
	}
	if len(out) > MaxHistoryEntries {
		out = out[:MaxHistoryEntries]
	}
	return out
}

// FindHistoryEntry looks up a history entry by session id
func FindHistoryEntry(history []HistoryEntry, sessionID string) (HistoryEntry, bool) {
	for _, h := range history {
		if h.SessionID == sessionID {
			return h, true
		}
	}
	return HistoryEntry{}, false
}

// FindEntryForPost returns the most recent history entry containing postID
func FindEntryForPost(history []HistoryEntry, postID string) (HistoryEntry, bool) {
	for _, h := range history {
		for _, p := range h.Posts {
			if p.ID == postID {
				return h, true
			}
		}
	}
	return HistoryEntry{}, false
}

// ToSession converts the entry to a session record
func (e HistoryEntry) ToSession() Session {
	return Session{
		ID:         e.SessionID,
		SourceText: e.SourceText,
		Platform:   e.Platform,
		Posts:      ClonePosts(e.Posts),
		CreatedAt:  e.CreatedAt,
	}
}
