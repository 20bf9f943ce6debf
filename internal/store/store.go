// Package store persists tracked repositories and manual notes as a JSON file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
)

// EnvPath overrides the store location, mainly for tests and separate profiles.
const EnvPath = "YESTERGIT_DB_PATH"

const (
	appDir   = "yestergit"
	fileName = "db.json"
)

// nowFunc is replaced in tests.
var nowFunc = time.Now

// Note is a manually recorded activity entry.
type Note struct {
	ID      string    `json:"id,omitempty"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}

// State is the persisted document.
type State struct {
	Repositories []string `json:"repositories"`
	Entries      []Note   `json:"entries"`
}

// AddRepositories canonicalizes paths and appends the ones not already
// tracked. Paths that cannot be resolved are skipped. It returns the paths
// that were added.
func (s *State) AddRepositories(paths []string) []string {
	var added []string
	for _, p := range paths {
		abs, err := Canonicalize(p)
		if err != nil {
			continue
		}
		if slices.Contains(s.Repositories, abs) {
			continue
		}
		s.Repositories = append(s.Repositories, abs)
		added = append(added, abs)
	}
	return added
}

// AddNote appends a note stamped with the current UTC time.
func (s *State) AddNote(message string) Note {
	n := Note{
		ID:      uuid.New().String(),
		Message: message,
		Date:    nowFunc().UTC(),
	}
	s.Entries = append(s.Entries, n)
	return n
}

// Canonicalize returns the absolute path of p with symlinks resolved.
func Canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Store reads and writes a State at a fixed path.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Open resolves the store location and returns a Store for it.
func Open(override string) (*Store, error) {
	path, err := Path(override)
	if err != nil {
		return nil, err
	}
	return New(path), nil
}

// Path resolves the store file: an explicit override wins, then EnvPath,
// then the per-user configuration directory.
func Path(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the state from disk. A missing or empty file is an empty state.
func (s *Store) Load() (*State, error) {
	state := &State{Repositories: []string{}, Entries: []Note{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return nil, fmt.Errorf("failed to read store %s: %w", s.path, err)
	}

	if len(data) == 0 {
		return state, nil
	}

	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", s.path, err)
	}

	if state.Repositories == nil {
		state.Repositories = []string{}
	}
	if state.Entries == nil {
		state.Entries = []Note{}
	}
	return state, nil
}

// Save replaces the file on disk with state. Readers only ever observe the
// previous or the new complete file.
func (s *Store) Save(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return &PersistenceError{Path: s.path, Op: "marshal", Err: err}
	}

	tmp, err := s.writeTemp(data)
	if err != nil {
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return &PersistenceError{Path: s.path, Op: "rename", Err: err}
	}
	return nil
}

// writeTemp writes data to a synced temp file next to the store file and
// returns its path. The temp file is removed on failure.
func (s *Store) writeTemp(data []byte) (path string, err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &PersistenceError{Path: s.path, Op: "create directory", Err: err}
	}

	f, err := os.CreateTemp(dir, "."+fileName+"-*.tmp")
	if err != nil {
		return "", &PersistenceError{Path: s.path, Op: "create temp file", Err: err}
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := f.Chmod(0o600); err != nil {
		return "", &PersistenceError{Path: s.path, Op: "chmod temp file", Err: err}
	}
	if _, err := f.Write(data); err != nil {
		return "", &PersistenceError{Path: s.path, Op: "write temp file", Err: err}
	}
	if err := f.Sync(); err != nil {
		return "", &PersistenceError{Path: s.path, Op: "sync temp file", Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &PersistenceError{Path: s.path, Op: "close temp file", Err: err}
	}
	return f.Name(), nil
}
