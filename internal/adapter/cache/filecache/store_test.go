package filecache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flight-search/airfare-matrix/internal/domain"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/fileutil"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/timeutil"
)

var jfkLax = domain.NewLookupKey("JFK", "LAX", "2024-01-01", "2024-01-08")

func newStore(t *testing.T, path string, clock *timeutil.MockClock) *Store {
	t.Helper()
	return New(path, zerolog.Nop(), WithClock(clock))
}

func TestStore_GetAfterSetUntilExpiry(t *testing.T) {
	ctx := context.Background()
	clock := timeutil.NewMockClockFromString("2024-01-01T00:00:00Z")
	s := newStore(t, filepath.Join(t.TempDir(), "cache.json"), clock)

	require.NoError(t, s.Set(ctx, jfkLax, 250, time.Hour))

	price, ok, err := s.Get(ctx, jfkLax)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 250.0, price)

	clock.Advance(59 * time.Minute)
	_, ok, _ = s.Get(ctx, jfkLax)
	assert.True(t, ok, "still valid just before expiry")

	clock.Advance(time.Minute)
	_, ok, err = s.Get(ctx, jfkLax)
	require.NoError(t, err)
	assert.False(t, ok, "expired exactly at expiresAt")
	assert.Equal(t, 0, s.Len(), "expired entry dropped on read")
}

func TestStore_MissingKey(t *testing.T) {
	s := newStore(t, "", timeutil.NewMockClock(time.Now()))

	price, ok, err := s.Get(context.Background(), jfkLax)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, price)
}

func TestStore_KeyIsOrderSensitive(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, "", timeutil.NewMockClock(time.Now()))

	require.NoError(t, s.Set(ctx, jfkLax, 250, time.Hour))

	_, ok, _ := s.Get(ctx, domain.NewLookupKey("LAX", "JFK", "2024-01-01", "2024-01-08"))
	assert.False(t, ok)
}

func TestStore_SetOverwritesWithFreshExpiry(t *testing.T) {
	ctx := context.Background()
	clock := timeutil.NewMockClockFromString("2024-01-01T00:00:00Z")
	s := newStore(t, "", clock)

	require.NoError(t, s.Set(ctx, jfkLax, 250, time.Hour))
	clock.Advance(50 * time.Minute)
	require.NoError(t, s.Set(ctx, jfkLax, 199.5, time.Hour))
	clock.Advance(50 * time.Minute)

	price, ok, _ := s.Get(ctx, jfkLax)
	assert.True(t, ok)
	assert.Equal(t, 199.5, price)
}

func TestStore_DefaultTTL(t *testing.T) {
	ctx := context.Background()
	clock := timeutil.NewMockClockFromString("2024-01-01T00:00:00Z")
	s := newStore(t, "", clock)

	require.NoError(t, s.Set(ctx, jfkLax, 250, 0))

	clock.Advance(DefaultTTL - time.Second)
	_, ok, _ := s.Get(ctx, jfkLax)
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok, _ = s.Get(ctx, jfkLax)
	assert.False(t, ok)
}

func TestStore_SetPersistsSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache", "flightCache.json")
	clock := timeutil.NewMockClockFromString("2024-01-01T00:00:00Z")
	s := newStore(t, path, clock)

	require.NoError(t, s.Set(ctx, jfkLax, 250, 24*time.Hour))

	var snapshot map[string]Entry
	found, err := fileutil.ReadJSON(path, &snapshot)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, Entry{
		Price:     250,
		ExpiresAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}, snapshot["JFK-LAX-2024-01-01-2024-01-08"])
}

func TestStore_RestartRecoversLiveEntriesAndPurgesExpired(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.json")
	clock := timeutil.NewMockClockFromString("2024-01-01T00:00:00Z")

	first := newStore(t, path, clock)
	short := domain.NewLookupKey("JFK", "SFO", "2024-01-01", "2024-01-08")
	require.NoError(t, first.Set(ctx, jfkLax, 250, 24*time.Hour))
	require.NoError(t, first.Set(ctx, short, 300, time.Hour))

	clock.Advance(2 * time.Hour)
	second := newStore(t, path, clock)

	assert.Equal(t, 1, second.Len())
	price, ok, _ := second.Get(ctx, jfkLax)
	assert.True(t, ok)
	assert.Equal(t, 250.0, price)

	var snapshot map[string]Entry
	_, err := fileutil.ReadJSON(path, &snapshot)
	require.NoError(t, err)
	assert.NotContains(t, snapshot, short.String(), "cleaned snapshot persisted on load")
}

func TestNew_UnusableSnapshotStartsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "not json"},
		{name: "truncated", content: `{"JFK-LAX-2024-01-01-2024-01-08":{"price":250,"expi`},
		{name: "wrong shape", content: `[1,2,3]`},
		{name: "null", content: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "cache.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			s := New(path, zerolog.Nop())
			require.NotNil(t, s)
			assert.Equal(t, 0, s.Len())

			require.NoError(t, s.Set(ctx, jfkLax, 250, time.Hour))
			price, ok, err := s.Get(ctx, jfkLax)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 250.0, price)

			// The next Set replaced the bad snapshot.
			restarted := New(path, zerolog.Nop())
			assert.Equal(t, 1, restarted.Len())
		})
	}
}

func TestNew_UnreadablePathStillServesFromMemory(t *testing.T) {
	ctx := context.Background()
	parent := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	s := New(filepath.Join(parent, "cache.json"), zerolog.Nop())
	require.NotNil(t, s)

	assert.Error(t, s.Set(ctx, jfkLax, 250, time.Hour), "persist failure is reported to the caller")
	price, ok, err := s.Get(ctx, jfkLax)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 250.0, price)
}

func TestStore_Purge(t *testing.T) {
	ctx := context.Background()
	clock := timeutil.NewMockClockFromString("2024-01-01T00:00:00Z")
	s := newStore(t, filepath.Join(t.TempDir(), "cache.json"), clock)

	require.NoError(t, s.Set(ctx, jfkLax, 250, time.Hour))
	n, err := s.Purge()
	require.NoError(t, err)
	assert.Zero(t, n)

	clock.Advance(time.Hour)
	n, err = s.Purge()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, s.Len())
}

func TestStore_ConcurrentSet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.json")
	s := newStore(t, path, timeutil.NewMockClockFromString("2024-01-01T00:00:00Z"))

	destinations := []string{"LAX", "SFO", "ORD", "MIA", "SEA", "BOS", "DEN", "ATL"}
	var wg sync.WaitGroup
	for i, d := range destinations {
		wg.Add(1)
		go func(d string, price float64) {
			defer wg.Done()
			assert.NoError(t, s.Set(ctx, domain.NewLookupKey("JFK", d, "2024-01-01", "2024-01-08"), price, time.Hour))
		}(d, float64(100+i))
	}
	wg.Wait()

	reloaded := newStore(t, path, timeutil.NewMockClockFromString("2024-01-01T00:00:00Z"))
	assert.Equal(t, len(destinations), reloaded.Len(), "no lost updates")
}
