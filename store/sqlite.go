package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kryptkit/krypt"
)

// HistoryEntryModel is the gorm model for one history row.
type HistoryEntryModel struct {
	ID            string    `gorm:"type:char(36);primaryKey"`
	Position      int       `gorm:"not null;index:idx_position"`
	Date          time.Time `gorm:"not null"`
	Mode          string    `gorm:"type:varchar(16);not null"`
	Action        string    `gorm:"type:varchar(16);not null"`
	KeyHint       string    `gorm:"type:varchar(32);not null;default:''"`
	InputPreview  string    `gorm:"type:text;not null;default:''"`
	OutputPreview string    `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name.
func (HistoryEntryModel) TableName() string {
	return "history_entries"
}

// BeforeCreate assigns a UUID to rows without an ID.
func (m *HistoryEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

func (m *HistoryEntryModel) toEntry() krypt.HistoryEntry {
	return krypt.HistoryEntry{
		ID:            m.ID,
		Date:          m.Date,
		Mode:          krypt.Mode(m.Mode),
		Action:        krypt.Action(m.Action),
		KeyHint:       m.KeyHint,
		InputPreview:  m.InputPreview,
		OutputPreview: m.OutputPreview,
	}
}

func fromEntry(e krypt.HistoryEntry, position int) HistoryEntryModel {
	return HistoryEntryModel{
		ID:            e.ID,
		Position:      position,
		Date:          e.Date.UTC(),
		Mode:          string(e.Mode),
		Action:        string(e.Action),
		KeyHint:       e.KeyHint,
		InputPreview:  e.InputPreview,
		OutputPreview: e.OutputPreview,
	}
}

// SQLiteStore persists history in a SQLite database.
type SQLiteStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithLogger sets the logger used for database failures.
// Default: a discarding logger.
func WithLogger(logger *slog.Logger) SQLiteOption {
	return func(s *SQLiteStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSQLiteStore opens (creating if needed) the database at path and
// migrates the history table.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return NewSQLiteStoreFromDB(db, opts...)
}

// NewSQLiteStoreFromDB uses an existing gorm connection.
func NewSQLiteStoreFromDB(db *gorm.DB, opts ...SQLiteOption) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&HistoryEntryModel{}); err != nil {
		return nil, fmt.Errorf("migrate history table: %w", err)
	}
	s := &SQLiteStore{db: db, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load returns the stored entries, newest first.
func (s *SQLiteStore) Load(ctx context.Context) ([]krypt.HistoryEntry, error) {
	var models []HistoryEntryModel
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&models).Error; err != nil {
		s.logger.ErrorContext(ctx, "failed to load history",
			"operation", "load",
			"error", err,
		)
		return nil, err
	}

	entries := make([]krypt.HistoryEntry, len(models))
	for i := range models {
		entries[i] = models[i].toEntry()
	}
	return entries, nil
}

// Save replaces every stored row in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, entries []krypt.HistoryEntry) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&HistoryEntryModel{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		models := make([]HistoryEntryModel, len(entries))
		for i, e := range entries {
			models[i] = fromEntry(e, i)
		}
		return tx.Create(&models).Error
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save history",
			"operation", "save",
			"entries", len(entries),
			"error", err,
		)
		return err
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
