// Package store persists the bank state tree as a single JSON file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ccgrid/bank"
)

// FileRepository reads and writes the full state at a fixed path.
// Writes go to a temp file in the same directory followed by a rename,
// so a crash mid-write never clobbers the last good file.
type FileRepository struct {
	path string
}

// DefaultPath returns ~/.config/ccgrid/banks.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ccgrid", "banks.json"), nil
}

// NewFileRepository creates a repository rooted at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load reads the persisted state. A missing file is not an error: the
// caller gets a fresh default state. A corrupt file also yields a
// default state, plus the error so the caller can warn and carry on.
func (r *FileRepository) Load() (*bank.State, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return bank.NewState(), nil
		}
		return bank.NewState(), fmt.Errorf("read %s: %w", r.path, err)
	}

	st := &bank.State{}
	if err := json.Unmarshal(data, st); err != nil {
		return bank.NewState(), fmt.Errorf("parse %s: %w", r.path, err)
	}

	// Missing fields decode to zero values; Normalize fills defaults
	// and clamps everything back into range.
	st.Normalize()
	return st, nil
}

// Save atomically replaces the state file with the given tree.
func (r *FileRepository) Save(st *bank.State) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "banks-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
