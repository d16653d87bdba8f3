package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/kryptkit/krypt"
)

// FileStore persists history as the JSON export format in one file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path. The file and its
// directory are created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the history file. A missing file is an empty history.
func (s *FileStore) Load(ctx context.Context) ([]krypt.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var exported krypt.ExportedHistory
	if err := json.Unmarshal(data, &exported); err != nil {
		return nil, fmt.Errorf("parse history file: %w", err)
	}
	if err := exported.Validate(); err != nil {
		return nil, err
	}
	return exported.Entries, nil
}

// Save writes entries to a temporary file in the same directory and renames
// it over the history file, so readers never see a partial write.
func (s *FileStore) Save(ctx context.Context, entries []krypt.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entries == nil {
		entries = []krypt.HistoryEntry{}
	}

	data, err := json.MarshalIndent(&krypt.ExportedHistory{
		Version:    krypt.ExportVersion,
		ExportedAt: time.Now().UTC(),
		Entries:    entries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}
