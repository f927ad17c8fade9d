// Package state implements the StateStore port as a single JSON document on
// disk.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Bloomca/Discosaur/internal/domain"
	"github.com/Bloomca/Discosaur/internal/ports"
)

// Store reads and writes the persisted application state. Writes go through
// a temp file plus rename so a crash mid-write never truncates the previous
// state.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(filePath string) *Store {
	return &Store{path: filePath}
}

// Read loads the persisted state. A missing file is a fresh start and
// returns (nil, nil); a present but unparseable file is an error.
func (s *Store) Read() (*domain.AppState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var state domain.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing state file: %w", err)
	}
	return &state, nil
}

// Write persists the state, replacing the previous document atomically.
func (s *Store) Write(state *domain.AppState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".appstate-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// Verify that Store implements the StateStore port.
var _ ports.StateStore = (*Store)(nil)
