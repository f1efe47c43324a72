// Package filestore keeps search history as an index file plus one detail file per search.
//
// Layout under the history directory:
//
//	index.json   newest-first []domain.HistoryEntry, at most MaxEntries long
//	{id}.json    domain.HistoryDetail for one search
package filestore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flight-search/airfare-matrix/internal/domain"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/fileutil"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/timeutil"
)

const indexFile = "index.json"

// Store implements domain.HistoryStore on the local filesystem.
type Store struct {
	mu         sync.RWMutex
	dir        string
	index      []domain.HistoryEntry
	maxEntries int
	clock      timeutil.Clock
	newID      func() string
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

// WithMaxEntries overrides the index cap.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// New opens the history directory and loads its index. A missing index starts empty.
func New(dir string, log zerolog.Logger, opts ...Option) (*Store, error) {
	s := &Store{
		dir:        dir,
		maxEntries: domain.DefaultHistoryLimit,
		clock:      timeutil.NewRealClock(),
		newID:      uuid.NewString,
		log:        log.With().Str("component", "history").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := fileutil.ReadJSON(s.indexPath(), &s.index); err != nil {
		return nil, fmt.Errorf("load history index: %w", err)
	}

	// A cap lowered since the last run applies on the next save.
	s.log.Debug().Str("dir", dir).Int("entries", len(s.index)).Msg("Loaded history index")
	return s, nil
}

// SaveSearch writes the detail record, prepends the entry to the index and
// evicts the oldest entries beyond the cap along with their detail files.
func (s *Store) SaveSearch(_ context.Context, rec domain.SearchRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	entry := domain.NewHistoryEntry(id, s.clock.Now(), rec.Request)
	detail := domain.HistoryDetail{
		HistoryEntry: entry,
		Results:      rec.Results,
		Averages:     rec.Averages,
	}

	if err := fileutil.WriteJSON(s.detailPath(id), detail); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHistoryPersistence, err)
	}

	next := make([]domain.HistoryEntry, 0, len(s.index)+1)
	next = append(next, entry)
	next = append(next, s.index...)

	var evicted []domain.HistoryEntry
	if len(next) > s.maxEntries {
		evicted = next[s.maxEntries:]
		next = next[:s.maxEntries]
	}

	if err := fileutil.WriteJSON(s.indexPath(), next); err != nil {
		if rmErr := fileutil.RemoveIfExists(s.detailPath(id)); rmErr != nil {
			s.log.Error().Err(rmErr).Str("history_id", id).Msg("Failed to roll back detail file")
		}
		return "", fmt.Errorf("%w: %v", domain.ErrHistoryPersistence, err)
	}
	s.index = next

	for _, old := range evicted {
		if err := fileutil.RemoveIfExists(s.detailPath(old.ID)); err != nil {
			s.log.Error().Err(err).Str("history_id", old.ID).Msg("Failed to delete evicted detail file")
			continue
		}
		s.log.Debug().Str("history_id", old.ID).Msg("Evicted history entry")
	}

	s.log.Info().
		Str("history_id", id).
		Str("trip_name", entry.TripName).
		Int("entries", len(s.index)).
		Msg("Saved search")

	return id, nil
}

// ListHistory returns a copy of the index, newest first.
func (s *Store) ListHistory(_ context.Context) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.HistoryEntry, len(s.index))
	copy(out, s.index)
	return out, nil
}

// GetDetail reads the detail record for id.
func (s *Store) GetDetail(_ context.Context, id string) (*domain.HistoryDetail, error) {
	// Ids are uuids; anything else could escape the history directory.
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSearchNotFound, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var detail domain.HistoryDetail
	found, err := fileutil.ReadJSON(s.detailPath(id), &detail)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrSearchNotFound, id)
	}
	return &detail, nil
}

func (s *Store) indexPath() string {
	return filepath.Join(s.dir, indexFile)
}

func (s *Store) detailPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

var _ domain.HistoryStore = (*Store)(nil)
