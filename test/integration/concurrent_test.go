package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flight-search/airfare-matrix/internal/domain"
	"github.com/flight-search/airfare-matrix/test/mock"
)

// TestConcurrent_MultipleSearchRequests tests that concurrent searches each
// receive a complete matrix and their own history entry.
func TestConcurrent_MultipleSearchRequests(t *testing.T) {
	// Arrange
	provider := mock.NewProvider("amadeus").
		WithDelay(5 * time.Millisecond).
		WithDefaultOffers(mock.Offer(180, "PT3H", 1))
	ts := NewTestServer(t, provider)

	numRequests := 10
	var wg sync.WaitGroup
	results := make([]Response, numRequests)

	// Act - Fire concurrent requests
	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = ts.Search(DefaultSearchRequest())
		}(i)
	}

	wg.Wait()

	// Assert - All requests should succeed with distinct ids
	ids := make(map[string]struct{}, numRequests)
	for i := 0; i < numRequests; i++ {
		require.Equal(t, http.StatusOK, results[i].Code, "request %d should succeed", i)

		resp, err := results[i].ParseSearchResponse()
		require.NoError(t, err)
		assert.Len(t, resp.Results, 2, "request %d should have both destinations", i)
		for _, dest := range []string{"LAX", "SFO"} {
			for _, origin := range []string{"JFK", "BOS"} {
				assert.Equal(t, 180.0, resp.Results[dest][origin].Price)
			}
		}
		ids[resp.ID] = struct{}{}
	}
	assert.Len(t, ids, numRequests)

	history, err := ts.History.ListHistory(context.Background())
	require.NoError(t, err)
	assert.Len(t, history, numRequests)

	// Four routes, each fetched at most once per concurrent wave and then cached.
	assert.LessOrEqual(t, provider.CallCount(), 4*numRequests)
	assert.Equal(t, 4, ts.Cache.Len())
}

// TestConcurrent_LookupsShareOneProviderCall verifies concurrent misses on
// the same route are collapsed into a single provider call.
func TestConcurrent_LookupsShareOneProviderCall(t *testing.T) {
	// Arrange
	provider := mock.NewProvider("amadeus").
		WithDelay(50*time.Millisecond).
		WithRoute("JFK", "LAX", mock.Offer(321, "PT6H", 1))
	stack := NewStack(t, provider)

	numCallers := 8
	var wg sync.WaitGroup
	prices := make([]domain.PriceResult, numCallers)

	// Act
	for i := 0; i < numCallers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			prices[idx] = stack.Lookup.Lookup(context.Background(), "JFK", "LAX", DepartureDate, ReturnDate)
		}(i)
	}
	wg.Wait()

	// Assert
	for i, p := range prices {
		assert.Equal(t, 321.0, p.Price, "caller %d", i)
	}
	assert.Equal(t, 1, provider.RouteCallCount("JFK", "LAX"))
}

// TestConcurrent_CallerCancellationDoesNotFailOthers cancels one caller while
// another waits on the same shared provider call.
func TestConcurrent_CallerCancellationDoesNotFailOthers(t *testing.T) {
	provider := mock.NewProvider("amadeus").
		WithDelay(60*time.Millisecond).
		WithRoute("JFK", "LAX", mock.Offer(321, "PT6H", 1))
	stack := NewStack(t, provider)

	impatient, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	var patientResult, impatientResult domain.PriceResult

	wg.Add(2)
	go func() {
		defer wg.Done()
		impatientResult = stack.Lookup.Lookup(impatient, "JFK", "LAX", DepartureDate, ReturnDate)
	}()
	go func() {
		defer wg.Done()
		patientResult = stack.Lookup.Lookup(context.Background(), "JFK", "LAX", DepartureDate, ReturnDate)
	}()
	wg.Wait()

	assert.True(t, impatientResult.Failed())
	assert.Equal(t, 321.0, patientResult.Price)
	assert.Equal(t, 1, provider.RouteCallCount("JFK", "LAX"))
}

// TestConcurrent_HistoryCapHolds runs more concurrent searches than the
// history keeps and checks the cap and eviction.
func TestConcurrent_HistoryCapHolds(t *testing.T) {
	// Arrange
	const maxEntries = 3
	provider := mock.NewProvider("amadeus").WithDefaultOffers(mock.Offer(90, "PT1H", 1))
	stack := NewStack(t, provider, WithMaxEntries(maxEntries))

	numSearches := 12
	var wg sync.WaitGroup
	ids := make([]string, numSearches)
	errs := make([]error, numSearches)

	// Act
	for i := 0; i < numSearches; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			result, err := stack.UseCase.RunSearch(context.Background(), DefaultSearchRequestDomain())
			errs[idx] = err
			if err == nil {
				ids[idx] = result.ID
			}
		}(i)
	}
	wg.Wait()

	// Assert
	for i, err := range errs {
		require.NoError(t, err, "search %d", i)
	}

	history, err := stack.History.ListHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, maxEntries)

	kept := make(map[string]struct{}, maxEntries)
	for _, entry := range history {
		kept[entry.ID] = struct{}{}
	}

	for _, id := range ids {
		_, err := stack.History.GetDetail(context.Background(), id)
		if _, ok := kept[id]; ok {
			assert.NoError(t, err, "kept entry %s should have a detail", id)
		} else {
			assert.ErrorIs(t, err, domain.ErrSearchNotFound, "evicted entry %s should be gone", id)
		}
	}
}

// TestConcurrent_ProgressStreamDuringSearch subscribes over HTTP while a search runs.
func TestConcurrent_ProgressStreamDuringSearch(t *testing.T) {
	provider := mock.NewProvider("amadeus").WithDefaultOffers(mock.Offer(90, "PT1H", 1))
	ts := NewTestServer(t, provider)

	srv := newHTTPServer(t, ts)
	stream := openProgressStream(t, srv.URL)

	done := make(chan Response, 1)
	go func() {
		done <- ts.Search(SearchRequestBody{
			Origins:       []string{"JFK"},
			Destinations:  []string{"LAX"},
			DepartureDate: DepartureDate,
			ReturnDate:    ReturnDate,
		})
	}()

	assert.Equal(t, "Searching flights from JFK to LAX...", stream.next(t))
	assert.Equal(t, "Progress: 100%", stream.next(t))
	assert.Equal(t, "Search completed", stream.next(t))

	select {
	case resp := <-done:
		assert.Equal(t, http.StatusOK, resp.Code)
	case <-time.After(2 * time.Second):
		t.Fatal("search did not finish")
	}
}
