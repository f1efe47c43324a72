// Package filecache is a price cache persisted as a single JSON snapshot file.
//
// Every Set rewrites the whole snapshot before returning, so a restart recovers
// every live entry. Expired entries are purged when the snapshot is loaded and
// are never returned by Get.
package filecache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/flight-search/airfare-matrix/internal/domain"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/fileutil"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/timeutil"
)

// DefaultTTL is how long a cached price is trusted.
const DefaultTTL = 24 * time.Hour

// Entry is one cached price in the snapshot.
type Entry struct {
	Price     float64   `json:"price"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store implements domain.PriceCache on a JSON file.
// An empty path keeps the cache in memory only.
type Store struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
	clock   timeutil.Clock
	log     zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for expiry.
func WithClock(c timeutil.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// New loads the snapshot at path, drops expired entries and persists the cleaned snapshot.
// A missing file starts an empty cache. So does an unreadable or corrupt one: the
// failure is logged and the next Set overwrites the snapshot.
func New(path string, log zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		path:    path,
		entries: make(map[string]Entry),
		clock:   timeutil.NewRealClock(),
		log:     log.With().Str("component", "filecache").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if path == "" {
		return s
	}

	found, err := fileutil.ReadJSON(path, &s.entries)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("Error loading price cache, starting empty")
		s.entries = make(map[string]Entry)
		return s
	}
	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}

	purged := s.purgeLocked()
	if found {
		s.log.Info().
			Str("path", path).
			Int("entries", len(s.entries)).
			Int("purged", purged).
			Msg("Loaded price cache")
	}
	if purged > 0 {
		if err := s.persistLocked(); err != nil {
			s.log.Error().Err(err).Str("path", path).Msg("Failed to persist cleaned price cache")
		}
	}

	return s
}

// Get returns the cached price for key. Expired entries are dropped and reported absent.
func (s *Store) Get(_ context.Context, key domain.LookupKey) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key.String()
	e, ok := s.entries[k]
	if !ok {
		return 0, false, nil
	}
	if !s.clock.Now().Before(e.ExpiresAt) {
		delete(s.entries, k)
		return 0, false, nil
	}
	return e.Price, true, nil
}

// Set stores price under key with an expiry of ttl from now and persists the snapshot.
// A non-positive ttl falls back to DefaultTTL.
func (s *Store) Set(_ context.Context, key domain.LookupKey, price float64, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key.String()] = Entry{
		Price:     price,
		ExpiresAt: s.clock.Now().Add(ttl),
	}
	return s.persistLocked()
}

// Purge removes expired entries and persists the snapshot if anything changed.
// It returns the number of entries removed.
func (s *Store) Purge() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.purgeLocked()
	if n == 0 {
		return 0, nil
	}
	return n, s.persistLocked()
}

// Len returns the number of entries held, including any not yet purged.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) purgeLocked() int {
	now := s.clock.Now()
	purged := 0
	for k, e := range s.entries {
		if !now.Before(e.ExpiresAt) {
			delete(s.entries, k)
			purged++
		}
	}
	return purged
}

func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	if err := fileutil.WriteJSON(s.path, s.entries); err != nil {
		return fmt.Errorf("persist cache snapshot: %w", err)
	}
	return nil
}

var _ domain.PriceCache = (*Store)(nil)
