package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// StateFileName is the JSON document written by FileStore
const StateFileName = "state.json"

// FileStore persists state as a single JSON document
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore writing to dir/state.json
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, StateFileName)}
}

// Path returns the state file path
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads the state file. A missing file is a first run; an unreadable
// or corrupt file is logged and treated the same way.
func (fs *FileStore) Load() PersistedState {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			LogWarn("%v", &StorageError{Path: fs.path, Op: "read", Err: err})
		} else {
			LogDebug("No state file at %s, starting fresh", fs.path)
		}
		return EmptyPersistedState()
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		LogWarn("%v", &ParseError{Source: StateFileName, Key: fs.path, Err: err})
		return EmptyPersistedState()
	}

	slots := make(map[string][]byte, len(raw))
	for k, v := range raw {
		slots[k] = v
	}
	return decodeSlots(StateFileName, slots)
}

// Save writes the whole state to a temp file and renames it into place so a
// crash never leaves a half-written document behind
func (fs *FileStore) Save(state PersistedState) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StorageError{Path: dir, Op: "open", Err: err}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return &StorageError{Path: dir, Op: "write", Err: err}
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &StorageError{Path: tmpPath, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Path: tmpPath, Op: "write", Err: err}
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return &StorageError{Path: tmpPath, Op: "write", Err: err}
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		return &StorageError{Path: fs.path, Op: "write", Err: err}
	}
	return nil
}

// Close is a no-op; every Save is already durable
func (fs *FileStore) Close() error {
	return nil
}
