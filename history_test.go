package krypt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func newEntry(i int) HistoryEntry {
	return HistoryEntry{
		ID:            fmt.Sprintf("entry-%d", i),
		Date:          time.Date(2025, 1, 1, 0, 0, i, 0, time.UTC),
		Mode:          ModeXOR,
		Action:        ActionEncrypt,
		KeyHint:       "12",
		InputPreview:  fmt.Sprintf("input %d", i),
		OutputPreview: "out",
	}
}

func TestHistory_AddNewestFirst(t *testing.T) {
	ctx := context.Background()
	h, err := NewHistory(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := h.Add(ctx, newEntry(i)); err != nil {
			t.Fatal(err)
		}
	}

	list := h.List()
	for i, want := range []string{"entry-2", "entry-1", "entry-0"} {
		if list[i].ID != want {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, want)
		}
	}
}

func TestHistory_CapacityEviction(t *testing.T) {
	ctx := context.Background()
	h, _ := NewHistory(ctx, nil)

	for i := 0; i < 15; i++ {
		if err := h.Add(ctx, newEntry(i)); err != nil {
			t.Fatal(err)
		}
	}

	list := h.List()
	if len(list) != HistoryCapacity {
		t.Fatalf("len = %d, want %d", len(list), HistoryCapacity)
	}
	for i, e := range list {
		want := fmt.Sprintf("entry-%d", 14-i)
		if e.ID != want {
			t.Errorf("list[%d] = %s, want %s", i, e.ID, want)
		}
	}
}

func TestHistory_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	h, _ := NewHistory(ctx, store)
	h.Add(ctx, newEntry(1))

	if err := h.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
	stored, _ := store.Load(ctx)
	if len(stored) != 0 {
		t.Errorf("store still has %d entries", len(stored))
	}
}

func TestHistory_AssignsID(t *testing.T) {
	ctx := context.Background()
	h, _ := NewHistory(ctx, nil)

	e := newEntry(0)
	e.ID = ""
	h.Add(ctx, e)

	if h.List()[0].ID == "" {
		t.Error("entry without ID should get one")
	}
}

func TestHistory_ListIsCopy(t *testing.T) {
	ctx := context.Background()
	h, _ := NewHistory(ctx, nil)
	h.Add(ctx, newEntry(0))

	list := h.List()
	list[0].KeyHint = "changed"
	if h.List()[0].KeyHint != "12" {
		t.Error("mutating List() result changed the history")
	}
}

func TestHistory_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	h1, _ := NewHistory(ctx, store)
	for i := 0; i < 4; i++ {
		h1.Add(ctx, newEntry(i))
	}

	h2, err := NewHistory(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if h2.Len() != 4 || h2.List()[0].ID != "entry-3" {
		t.Errorf("reloaded history = %+v", h2.List())
	}
}

func TestNewHistory_TrimsOversizedStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	entries := make([]HistoryEntry, 0, 12)
	for i := 11; i >= 0; i-- {
		entries = append(entries, newEntry(i))
	}
	store.Save(ctx, entries)

	h, _ := NewHistory(ctx, store)
	if h.Len() != HistoryCapacity {
		t.Fatalf("Len() = %d", h.Len())
	}
	if h.List()[0].ID != "entry-11" {
		t.Errorf("newest = %s", h.List()[0].ID)
	}
}

type failingStore struct {
	loadErr error
	saveErr error
}

func (s *failingStore) Load(context.Context) ([]HistoryEntry, error) { return nil, s.loadErr }
func (s *failingStore) Save(context.Context, []HistoryEntry) error { return s.saveErr }

func TestHistory_StoreErrors(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("disk full")

	_, err := NewHistory(ctx, &failingStore{loadErr: cause})
	var storeErr *StoreError
	if !errors.As(err, &storeErr) || storeErr.Op != "load" || !errors.Is(err, cause) {
		t.Errorf("load error = %v", err)
	}

	h, err := NewHistory(ctx, &failingStore{saveErr: cause})
	if err != nil {
		t.Fatal(err)
	}
	err = h.Add(ctx, newEntry(0))
	if !errors.As(err, &storeErr) || storeErr.Op != "save" {
		t.Errorf("save error = %v", err)
	}
	if h.Len() != 1 {
		t.Error("in-memory log should be updated even when saving fails")
	}
}

func TestHistory_ConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	h, _ := NewHistory(ctx, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Add(ctx, newEntry(i))
			_ = h.List()
		}(i)
	}
	wg.Wait()

	if h.Len() != HistoryCapacity {
		t.Errorf("Len() = %d, want %d", h.Len(), HistoryCapacity)
	}
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewMemoryStore()
	if _, err := store.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load: %v", err)
	}
	if err := store.Save(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Save: %v", err)
	}
}

func TestNewHistoryEntry(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	long := strings.Repeat("x", 100)

	e := NewHistoryEntry(ModeSecure, ActionEncrypt, "AAAAAAAAAAAA", long, "short", now)

	if e.ID == "" {
		t.Error("ID should be set")
	}
	if !e.Date.Equal(now) {
		t.Errorf("Date = %v", e.Date)
	}
	if e.KeyHint != "AAAAAA" {
		t.Errorf("KeyHint = %q", e.KeyHint)
	}
	if len(e.InputPreview) != PreviewLength {
		t.Errorf("InputPreview length = %d", len(e.InputPreview))
	}
	if e.OutputPreview != "short" {
		t.Errorf("OutputPreview = %q", e.OutputPreview)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"", 6, ""},
		{"abc", 6, "abc"},
		{"abcdef", 6, "abcdef"},
		{"abcdefg", 6, "abcdef"},
		{"héllo wörld", 7, "héllo w"},
		{"✓✓✓✓", 2, "✓✓"},
	}

	for _, tt := range tests {
		if got := truncateRunes(tt.s, tt.n); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}
