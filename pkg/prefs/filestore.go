package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists preferences as a JSON document on disk.
type FileStore struct {
	path string
}

// NewFileStore builds a FileStore writing to path. Parent directories are
// created on first save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("prefs: file store path is required")
	}
	return &FileStore{path: path}, nil
}

// Load reads the stored document. A missing file yields zero preferences.
func (f *FileStore) Load() (Preferences, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Preferences{}, nil
		}
		return Preferences{}, err
	}
	var prefs Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return prefs, nil
}

// Save writes the document, replacing any previous contents.
func (f *FileStore) Save(prefs Preferences) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o644)
}
