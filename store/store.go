package store

import (
	"fmt"
	"strings"

	"github.com/kryptkit/krypt"
)

// Backend names a history store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// ParseBackend accepts file, sqlite or memory in any case. An empty string
// selects BackendFile.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendFile, nil
	case BackendFile, BackendSQLite, BackendMemory:
		return b, nil
	}
	return "", fmt.Errorf("unknown history backend %q", s)
}

// Open returns the store for backend at path. path is ignored for the
// memory backend and opts apply only to the sqlite backend. The returned
// close function releases any resources and is never nil.
func Open(backend Backend, path string, opts ...SQLiteOption) (krypt.HistoryStore, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case BackendMemory:
		return krypt.NewMemoryStore(), noop, nil
	case BackendFile, "":
		if path == "" {
			return nil, noop, fmt.Errorf("file backend requires a path")
		}
		return NewFileStore(path), noop, nil
	case BackendSQLite:
		if path == "" {
			return nil, noop, fmt.Errorf("sqlite backend requires a path")
		}
		s, err := NewSQLiteStore(path, opts...)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown history backend %q", backend)
}
