package krypt

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// HistoryCapacity is the number of entries kept in the history log.
const HistoryCapacity = 10

// Preview lengths, in runes, used by NewHistoryEntry.
const (
	KeyHintLength = 6
	PreviewLength = 40
)

// HistoryEntry records one cipher operation. It never holds a full key.
type HistoryEntry struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	Mode          Mode      `json:"mode"`
	Action        Action    `json:"action"`
	KeyHint       string    `json:"keyHint"`
	InputPreview  string    `json:"inputPreview"`
	OutputPreview string    `json:"outputPreview"`
}

// NewHistoryEntry builds an entry with truncated key and text previews.
func NewHistoryEntry(mode Mode, action Action, key, input, output string, now time.Time) HistoryEntry {
	return HistoryEntry{
		ID:            uuid.NewString(),
		Date:          now,
		Mode:          mode,
		Action:        action,
		KeyHint:       truncateRunes(key, KeyHintLength),
		InputPreview:  truncateRunes(input, PreviewLength),
		OutputPreview: truncateRunes(output, PreviewLength),
	}
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// HistoryStore persists the history log. Implementations need not be safe
// for concurrent use; History serializes calls.
type HistoryStore interface {
	// Load returns the stored entries, newest first.
	Load(ctx context.Context) ([]HistoryEntry, error)
	// Save replaces the stored entries.
	Save(ctx context.Context, entries []HistoryEntry) error
}

// History is a fixed-capacity log of operations, newest first.
// It is safe for concurrent use.
type History struct {
	mu      sync.RWMutex
	entries []HistoryEntry
	store   HistoryStore
}

// NewHistory loads the log from store. A nil store keeps the log in memory.
// Stored logs longer than HistoryCapacity are trimmed to the newest entries.
func NewHistory(ctx context.Context, store HistoryStore) (*History, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	entries, err := store.Load(ctx)
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	if len(entries) > HistoryCapacity {
		entries = entries[:HistoryCapacity]
	}
	return &History{
		entries: slices.Clone(entries),
		store:   store,
	}, nil
}

// Add inserts entry at the front, evicts the oldest entries beyond
// HistoryCapacity and persists the result. An entry without an ID gets one.
// The in-memory log is updated even if persisting fails.
func (h *History) Add(ctx context.Context, entry HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entries := make([]HistoryEntry, 0, min(len(h.entries)+1, HistoryCapacity))
	entries = append(entries, entry)
	entries = append(entries, h.entries...)
	if len(entries) > HistoryCapacity {
		entries = entries[:HistoryCapacity]
	}
	h.entries = entries

	return h.saveLocked(ctx)
}

// Clear empties the log.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil
	return h.saveLocked(ctx)
}

// List returns a copy of the log, newest first.
func (h *History) List() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.entries)
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// replace swaps in a new log and persists it.
func (h *History) replace(ctx context.Context, entries []HistoryEntry) error {
	if len(entries) > HistoryCapacity {
		entries = entries[:HistoryCapacity]
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = slices.Clone(entries)
	return h.saveLocked(ctx)
}

func (h *History) saveLocked(ctx context.Context) error {
	if err := h.store.Save(ctx, slices.Clone(h.entries)); err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	return nil
}
