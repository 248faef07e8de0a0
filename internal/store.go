package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Slot names. These are the only keys ever persisted.
const (
	SlotSavedPosts      = "savedPosts"
	SlotHiddenPostIDs   = "hiddenPostIds"
	SlotLikedPostIDs    = "likedPostIds"
	SlotDislikedReasons = "dislikedReasons"
	SlotHistory         = "history"
	SlotGeminiAPIKey    = "geminiApiKey"
	SlotMinimaxAPIKey   = "minimaxApiKey"
)

// PersistedSlots lists every persisted slot in a stable order
var PersistedSlots = []string{
	SlotSavedPosts,
	SlotHiddenPostIDs,
	SlotLikedPostIDs,
	SlotDislikedReasons,
	SlotHistory,
	SlotGeminiAPIKey,
	SlotMinimaxAPIKey,
}

// PersistedState is the allow-listed subset of client state that survives
// restarts. The active session and highlight set are deliberately absent.
type PersistedState struct {
	SavedPosts      []Post           `json:"savedPosts"`
	HiddenPostIDs   []string         `json:"hiddenPostIds"`
	LikedPostIDs    []string         `json:"likedPostIds"`
	DislikedReasons []DislikedReason `json:"dislikedReasons"`
	History         []HistoryEntry   `json:"history"`
	GeminiAPIKey    string           `json:"geminiApiKey"`
	MinimaxAPIKey   string           `json:"minimaxApiKey"`
}

// EmptyPersistedState returns the defaults used when nothing can be loaded
func EmptyPersistedState() PersistedState {
	return PersistedState{
		SavedPosts:      []Post{},
		HiddenPostIDs:   []string{},
		LikedPostIDs:    []string{},
		DislikedReasons: []DislikedReason{},
		History:         []HistoryEntry{},
	}
}

// Clone deep-copies the state so callers never share slices with the store
func (s PersistedState) Clone() PersistedState {
	out := PersistedState{
		SavedPosts:      ClonePosts(s.SavedPosts),
		HiddenPostIDs:   append([]string{}, s.HiddenPostIDs...),
		LikedPostIDs:    append([]string{}, s.LikedPostIDs...),
		DislikedReasons: append([]DislikedReason{}, s.DislikedReasons...),
		History:         make([]HistoryEntry, len(s.History)),
		GeminiAPIKey:    s.GeminiAPIKey,
		MinimaxAPIKey:   s.MinimaxAPIKey,
	}
	if out.SavedPosts == nil {
		out.SavedPosts = []Post{}
	}
	for i, h := range s.History {
		h.Posts = ClonePosts(h.Posts)
		out.History[i] = h
	}
	return out
}

// normalize repairs data written by older or foreign clients: nil slots
// become empty, the id sets lose duplicates, saved posts are unique by id
// and history obeys its ordering and size bounds.
func (s PersistedState) normalize() PersistedState {
	out := s.Clone()
	out.HiddenPostIDs = uniqueStrings(out.HiddenPostIDs)
	out.LikedPostIDs = uniqueStrings(out.LikedPostIDs)

	seen := make(map[string]bool, len(out.SavedPosts))
	saved := make([]Post, 0, len(out.SavedPosts))
	for _, p := range out.SavedPosts {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		saved = append(saved, p)
	}
	out.SavedPosts = saved

	history := []HistoryEntry{}
	for i := len(out.History) - 1; i >= 0; i-- {
		history = AddToHistory(history, out.History[i])
	}
	out.History = history
	return out
}

// encodeSlots encodes each slot separately so backends can store them
// independently
func encodeSlots(s PersistedState) (map[string][]byte, error) {
	values := map[string]interface{}{
		SlotSavedPosts:      s.SavedPosts,
		SlotHiddenPostIDs:   s.HiddenPostIDs,
		SlotLikedPostIDs:    s.LikedPostIDs,
		SlotDislikedReasons: s.DislikedReasons,
		SlotHistory:         s.History,
		SlotGeminiAPIKey:    s.GeminiAPIKey,
		SlotMinimaxAPIKey:   s.MinimaxAPIKey,
	}
	out := make(map[string][]byte, len(values))
	for _, key := range PersistedSlots {
		data, err := json.Marshal(values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal slot %s: %w", key, err)
		}
		out[key] = data
	}
	return out, nil
}

// decodeSlots rebuilds state from raw slot values. Unknown keys are ignored
// and a slot that fails to decode keeps its default.
func decodeSlots(source string, raw map[string][]byte) PersistedState {
	state := EmptyPersistedState()
	targets := map[string]interface{}{
		SlotSavedPosts:      &state.SavedPosts,
		SlotHiddenPostIDs:   &state.HiddenPostIDs,
		SlotLikedPostIDs:    &state.LikedPostIDs,
		SlotDislikedReasons: &state.DislikedReasons,
		SlotHistory:         &state.History,
		SlotGeminiAPIKey:    &state.GeminiAPIKey,
		SlotMinimaxAPIKey:   &state.MinimaxAPIKey,
	}
	defaults := EmptyPersistedState()
	for _, key := range PersistedSlots {
		data, ok := raw[key]
		if !ok || len(data) == 0 {
			continue
		}
		if err := json.Unmarshal(data, targets[key]); err != nil {
			LogWarn("%v", &ParseError{Source: source, Key: key, Err: err})
			resetSlot(&state, defaults, key)
		}
	}
	return state.normalize()
}

func resetSlot(state *PersistedState, defaults PersistedState, key string) {
	switch key {
	case SlotSavedPosts:
		state.SavedPosts = defaults.SavedPosts
	case SlotHiddenPostIDs:
		state.HiddenPostIDs = defaults.HiddenPostIDs
	case SlotLikedPostIDs:
		state.LikedPostIDs = defaults.LikedPostIDs
	case SlotDislikedReasons:
		state.DislikedReasons = defaults.DislikedReasons
	case SlotHistory:
		state.History = defaults.History
	case SlotGeminiAPIKey:
		state.GeminiAPIKey = ""
	case SlotMinimaxAPIKey:
		state.MinimaxAPIKey = ""
	}
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Persister is a durable home for PersistedState.
//
// Load never fails: missing or corrupt data yields defaults. Save writes the
// whole state atomically.
type Persister interface {
	Load() PersistedState
	Save(state PersistedState) error
	Close() error
}

// ErrStoreUnavailable is returned by a MemoryStore configured to fail
var ErrStoreUnavailable = errors.New("store unavailable")

// MemoryStore keeps state in memory only
type MemoryStore struct {
	mu        sync.Mutex
	state     PersistedState
	failSaves bool
	saves     int
}

// NewMemoryStore creates a MemoryStore seeded with state
func NewMemoryStore(state PersistedState) *MemoryStore {
	return &MemoryStore{state: state.normalize()}
}

// Load returns a copy of the stored state
func (m *MemoryStore) Load() PersistedState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Save replaces the stored state
func (m *MemoryStore) Save(state PersistedState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves {
		return &StorageError{Path: "memory", Op: "write", Err: ErrStoreUnavailable}
	}
	m.state = state.Clone()
	m.saves++
	return nil
}

// FailSaves makes subsequent saves fail
func (m *MemoryStore) FailSaves(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSaves = fail
}

// Saves returns the number of successful saves
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
