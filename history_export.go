package krypt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ExportVersion is the current export format version.
const ExportVersion = 1

// ExportedHistory is the portable form of the history log.
// Entries carry key hints, not keys.
type ExportedHistory struct {
	// Version is the export format version. MUST be 1.
	Version int `json:"version"`
	// ExportedAt is the export timestamp. Informational only.
	ExportedAt time.Time `json:"exportedAt"`
	// Entries are newest first.
	Entries []HistoryEntry `json:"entries"`
}

// Validate checks the export version and every entry.
func (e *ExportedHistory) Validate() error {
	if e.Version != ExportVersion {
		return fmt.Errorf("%w: unsupported version %d, expected %d", ErrInvalidImportData, e.Version, ExportVersion)
	}

	seen := make(map[string]struct{}, len(e.Entries))
	for i, entry := range e.Entries {
		if entry.ID == "" {
			return fmt.Errorf("%w: entry %d: id is required", ErrInvalidImportData, i)
		}
		if _, dup := seen[entry.ID]; dup {
			return fmt.Errorf("%w: entry %d: duplicate id %s", ErrInvalidImportData, i, entry.ID)
		}
		seen[entry.ID] = struct{}{}

		if !entry.Mode.Valid() {
			return fmt.Errorf("%w: entry %d: unknown mode %q", ErrInvalidImportData, i, entry.Mode)
		}
		if !entry.Action.Valid() {
			return fmt.Errorf("%w: entry %d: unknown action %q", ErrInvalidImportData, i, entry.Action)
		}
		if entry.Date.IsZero() {
			return fmt.Errorf("%w: entry %d: date is required", ErrInvalidImportData, i)
		}
	}
	return nil
}

// Export returns the current log in portable form.
func (h *History) Export() *ExportedHistory {
	return &ExportedHistory{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Entries:    h.List(),
	}
}

// Import validates data and replaces the log with its entries, keeping at
// most HistoryCapacity of the newest.
func (h *History) Import(ctx context.Context, data *ExportedHistory) error {
	if data == nil {
		return fmt.Errorf("%w: no data", ErrInvalidImportData)
	}
	if err := data.Validate(); err != nil {
		return err
	}
	return h.replace(ctx, data.Entries)
}

// ExportToFile writes the log to path as indented JSON with owner-only
// permissions.
func (h *History) ExportToFile(filePath string) error {
	data, err := json.MarshalIndent(h.Export(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// ImportFromFile reads an export written by ExportToFile and imports it.
func (h *History) ImportFromFile(ctx context.Context, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var exported ExportedHistory
	if err := json.Unmarshal(data, &exported); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImportData, err)
	}
	return h.Import(ctx, &exported)
}
