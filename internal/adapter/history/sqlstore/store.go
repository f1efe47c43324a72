// Package sqlstore keeps search history in SQLite through GORM.
// It offers the same contract as the file store: newest-first listing and a
// bounded number of searches, evicting the oldest on overflow.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/flight-search/airfare-matrix/internal/domain"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/timeutil"
)

// searchRow is one saved search. Seq preserves insertion order independent of clock skew.
type searchRow struct {
	Seq           uint                 `gorm:"primaryKey;autoIncrement"`
	ID            string               `gorm:"size:36;uniqueIndex;not null"`
	Timestamp     time.Time            `gorm:"not null"`
	TripName      string               `gorm:"not null"`
	Origins       []string             `gorm:"serializer:json"`
	Destinations  []string             `gorm:"serializer:json"`
	DepartureDate string               `gorm:"size:10"`
	ReturnDate    string               `gorm:"size:10"`
	Results       domain.ResultMatrix  `gorm:"serializer:json"`
	Averages      domain.AverageRecord `gorm:"serializer:json"`
}

func (searchRow) TableName() string {
	return "search_history"
}

func (r searchRow) entry() domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:            r.ID,
		Timestamp:     r.Timestamp.UTC(),
		TripName:      r.TripName,
		Origins:       r.Origins,
		Destinations:  r.Destinations,
		DepartureDate: r.DepartureDate,
		ReturnDate:    r.ReturnDate,
	}
}

// Store implements domain.HistoryStore on SQLite.
type Store struct {
	db         *gorm.DB
	maxEntries int
	clock      timeutil.Clock
	log        zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for entry timestamps.
func WithClock(c timeutil.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithMaxEntries overrides the history cap.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// Open opens (creating if needed) the SQLite database at path and migrates the schema.
func Open(path string, log zerolog.Logger, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: newGormLogger(log.With().Str("component", "gorm").Logger()),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open history database (%s): %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB instance: %w", err)
	}
	// SQLite serializes writers; one connection avoids "database is locked".
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return New(db, log, opts...)
}

// New wraps an open GORM handle and migrates the schema.
func New(db *gorm.DB, log zerolog.Logger, opts ...Option) (*Store, error) {
	s := &Store{
		db:         db,
		maxEntries: domain.DefaultHistoryLimit,
		clock:      timeutil.NewRealClock(),
		log:        log.With().Str("component", "history").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := db.AutoMigrate(&searchRow{}); err != nil {
		return nil, fmt.Errorf("migrate history schema: %w", err)
	}
	return s, nil
}

// SaveSearch inserts the search and deletes rows beyond the cap in one transaction.
func (s *Store) SaveSearch(ctx context.Context, rec domain.SearchRecord) (string, error) {
	id := uuid.NewString()
	entry := domain.NewHistoryEntry(id, s.clock.Now(), rec.Request)
	row := searchRow{
		ID:            entry.ID,
		Timestamp:     entry.Timestamp,
		TripName:      entry.TripName,
		Origins:       entry.Origins,
		Destinations:  entry.Destinations,
		DepartureDate: entry.DepartureDate,
		ReturnDate:    entry.ReturnDate,
		Results:       rec.Results,
		Averages:      rec.Averages,
	}

	var evicted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		var seqs []uint
		if err := tx.Model(&searchRow{}).Order("seq DESC").Pluck("seq", &seqs).Error; err != nil {
			return err
		}
		if len(seqs) <= s.maxEntries {
			return nil
		}

		res := tx.Where("seq IN ?", seqs[s.maxEntries:]).Delete(&searchRow{})
		evicted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHistoryPersistence, err)
	}

	s.log.Info().
		Str("history_id", id).
		Str("trip_name", entry.TripName).
		Int64("evicted", evicted).
		Msg("Saved search")

	return id, nil
}

// ListHistory returns all entries newest first, without their result payloads.
func (s *Store) ListHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	var rows []searchRow
	err := s.db.WithContext(ctx).
		Omit("results", "averages").
		Order("seq DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries := make([]domain.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

// GetDetail returns the saved search with id.
func (s *Store) GetDetail(ctx context.Context, id string) (*domain.HistoryDetail, error) {
	var row searchRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSearchNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get history detail: %w", err)
	}

	return &domain.HistoryDetail{
		HistoryEntry: row.entry(),
		Results:      row.Results,
		Averages:     row.Averages,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ domain.HistoryStore = (*Store)(nil)
