package engagement

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// PersistedState is the client-local dedup state: the items this browsing
// session has already viewed or liked. It is advisory, not a correctness
// boundary; wiping it simply allows the signals to be sent again.
type PersistedState struct {
	Viewed []uuid.UUID `json:"viewed"`
	Liked  []uuid.UUID `json:"liked"`
}

// StateStore is the load-at-startup / save-on-change contract for the
// persisted engagement state.
type StateStore interface {
	Load() (PersistedState, error)
	Save(state PersistedState) error
}

// FileStateStore keeps the persisted state as a JSON file.
type FileStateStore struct {
	fs   afero.Fs
	path string
}

// NewFileStateStore creates a file-backed state store.
func NewFileStateStore(fsys afero.Fs, path string) *FileStateStore {
	return &FileStateStore{fs: fsys, path: path}
}

// Load reads the persisted state. A missing file means a fresh session.
func (s *FileStateStore) Load() (PersistedState, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return PersistedState{}, nil
		}
		return PersistedState{}, fmt.Errorf("engagement state load: %w", err)
	}

	var state PersistedState
	if err := json.Unmarshal(data, &state); err != nil {
		// Corrupt state is treated as wiped: dedup is advisory.
		return PersistedState{}, nil
	}
	return state, nil
}

// Save writes the persisted state.
func (s *FileStateStore) Save(state PersistedState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("engagement state save: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("engagement state save: %w", err)
	}
	return nil
}

var _ StateStore = (*FileStateStore)(nil)
