package internal

import (
	"sync"
)

// State is the client's single state container: the persisted side tables,
// the active session and the transient highlight set. Build one per process
// with NewState and pass it where it is needed.
//
// Mutations compute the next persisted state on a copy, hand it to the
// Persister, and then swap it in. A failed write is logged and the new
// in-memory state is kept regardless.
type State struct {
	mu          sync.Mutex
	persister   Persister
	persisted   PersistedState
	session     ActiveSession
	highlighted []string
	lastErr     error
}

// NewState loads persisted state (or defaults) from p. The active session
// always starts empty.
func NewState(p Persister) *State {
	if p == nil {
		p = NewMemoryStore(EmptyPersistedState())
	}
	return &State{
		persister:   p,
		persisted:   p.Load().normalize(),
		session:     emptySession(),
		highlighted: []string{},
	}
}

// Close releases the underlying persister
func (st *State) Close() error {
	return st.persister.Close()
}

// Snapshot returns a copy of the persisted slots
func (st *State) Snapshot() PersistedState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.persisted.Clone()
}

// LastPersistError returns the most recent write failure, if any
func (st *State) LastPersistError() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lastErr
}

// update applies fn to a copy of the persisted state and writes it through.
// The caller must not hold st.mu.
func (st *State) update(op string, fn func(*PersistedState) bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.persisted.Clone()
	if changed := fn(&next); !changed {
		return
	}
	st.persisted = next

	if err := st.persister.Save(next); err != nil {
		st.lastErr = err
		LogWarn("Failed to persist %s: %v", op, err)
		return
	}
	st.lastErr = nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
