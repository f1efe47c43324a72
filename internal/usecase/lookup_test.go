package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/flight-search/airfare-matrix/internal/domain"
)

const (
	depDate = "2024-01-01"
	retDate = "2024-01-08"
)

var jfkLaxKey = domain.NewLookupKey("JFK", "LAX", depDate, retDate)

func offer(price float64, segments int, duration string) domain.Offer {
	return domain.Offer{
		TotalPrice:  price,
		Currency:    "USD",
		Itineraries: []domain.Itinerary{{Duration: duration, Segments: segments}},
	}
}

func newLookupMocks(t *testing.T) (*gomock.Controller, *domain.MockQuoteProvider, *domain.MockPriceCache) {
	ctrl := gomock.NewController(t)
	provider := domain.NewMockQuoteProvider(ctrl)
	provider.EXPECT().Name().Return("mock").AnyTimes()
	cache := domain.NewMockPriceCache(ctrl)
	return ctrl, provider, cache
}

func TestNewPriceLookup_Config(t *testing.T) {
	tests := []struct {
		name        string
		config      *LookupConfig
		wantTTL     time.Duration
		wantTimeout time.Duration
	}{
		{"nil uses defaults", nil, DefaultCacheTTL, DefaultProviderTimeout},
		{"zero values use defaults", &LookupConfig{}, DefaultCacheTTL, DefaultProviderTimeout},
		{"custom values", &LookupConfig{CacheTTL: time.Hour, ProviderTimeout: time.Second}, time.Hour, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewPriceLookup(nil, nil, tt.config, zerolog.Nop())
			assert.Equal(t, tt.wantTTL, l.cacheTTL)
			assert.Equal(t, tt.wantTimeout, l.providerTimeout)
		})
	}
}

func TestLookup_SameAirportIsFree(t *testing.T) {
	// No expectations: any cache or provider call fails the test.
	_, provider, cache := newLookupMocks(t)
	l := NewPriceLookup(provider, cache, nil, zerolog.Nop())

	got := l.Lookup(context.Background(), "JFK", "JFK", depDate, retDate)

	assert.Equal(t, domain.ZeroPrice(), got)
	assert.False(t, got.Failed())
}

func TestLookup_CacheHitSkipsProvider(t *testing.T) {
	_, provider, cache := newLookupMocks(t)
	cache.EXPECT().Get(gomock.Any(), jfkLaxKey).Return(250.0, true, nil)

	l := NewPriceLookup(provider, cache, nil, zerolog.Nop())
	got := l.Lookup(context.Background(), "JFK", "LAX", depDate, retDate)

	assert.Equal(t, 250.0, got.Price)
	assert.Nil(t, got.NumFlights, "metadata is not cached")
	assert.Empty(t, got.Duration)
	assert.False(t, got.Failed())
}

func TestLookup_MissQueriesProviderAndCaches(t *testing.T) {
	_, provider, cache := newLookupMocks(t)
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), jfkLaxKey).Return(0.0, false, nil),
		provider.EXPECT().Search(gomock.Any(), domain.QuoteRequest{
			OriginLocationCode:      "JFK",
			DestinationLocationCode: "LAX",
			DepartureDate:           depDate,
			ReturnDate:              retDate,
			Adults:                  1,
			CurrencyCode:            "USD",
			Max:                     2,
		}).Return([]domain.Offer{offer(250.40, 2, "PT7H5M"), offer(300, 1, "PT6H")}, nil),
		cache.EXPECT().Set(gomock.Any(), jfkLaxKey, 250.40, time.Hour).Return(nil),
	)

	l := NewPriceLookup(provider, cache, &LookupConfig{CacheTTL: time.Hour}, zerolog.Nop())
	got := l.Lookup(context.Background(), "JFK", "LAX", depDate, retDate)

	assert.Equal(t, 250.40, got.Price)
	require.NotNil(t, got.NumFlights)
	assert.Equal(t, 2, *got.NumFlights)
	assert.Equal(t, "PT7H5M", got.Duration)
	assert.False(t, got.Failed())
}

func TestLookup_FailuresDegradeToZero(t *testing.T) {
	tests := []struct {
		name       string
		offers     []domain.Offer
		err        error
		panicValue any
		wantErr    string
	}{
		{name: "provider error", err: errors.New("connection refused"), wantErr: "connection refused"},
		{name: "missing credentials", err: domain.NewProviderError("mock", domain.ErrMissingCredentials), wantErr: "credentials"},
		{name: "empty offers", offers: []domain.Offer{}, wantErr: domain.ErrNoOffers.Error()},
		{name: "offer without itineraries", offers: []domain.Offer{{TotalPrice: 100}}, wantErr: domain.ErrMalformedOffer.Error()},
		{name: "provider panics", panicValue: "boom", wantErr: "panic: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, provider, cache := newLookupMocks(t)
			cache.EXPECT().Get(gomock.Any(), jfkLaxKey).Return(0.0, false, nil)
			provider.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
				func(ctx context.Context, q domain.QuoteRequest) ([]domain.Offer, error) {
					if tt.panicValue != nil {
						panic(tt.panicValue)
					}
					return tt.offers, tt.err
				})
			// No Set expectation: failures must not be cached.

			l := NewPriceLookup(provider, cache, nil, zerolog.Nop())
			got := l.Lookup(context.Background(), "JFK", "LAX", depDate, retDate)

			assert.Zero(t, got.Price)
			assert.Nil(t, got.NumFlights)
			assert.True(t, got.Failed())
			assert.Contains(t, got.Error, tt.wantErr)
		})
	}
}

func TestLookup_CacheReadErrorFallsBackToProvider(t *testing.T) {
	_, provider, cache := newLookupMocks(t)
	cache.EXPECT().Get(gomock.Any(), jfkLaxKey).Return(0.0, false, errors.New("disk on fire"))
	provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]domain.Offer{offer(199, 1, "PT6H")}, nil)
	cache.EXPECT().Set(gomock.Any(), jfkLaxKey, 199.0, DefaultCacheTTL).Return(nil)

	l := NewPriceLookup(provider, cache, nil, zerolog.Nop())
	got := l.Lookup(context.Background(), "JFK", "LAX", depDate, retDate)

	assert.Equal(t, 199.0, got.Price)
}

func TestLookup_CacheWriteErrorStillReturnsPrice(t *testing.T) {
	_, provider, cache := newLookupMocks(t)
	cache.EXPECT().Get(gomock.Any(), jfkLaxKey).Return(0.0, false, nil)
	provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]domain.Offer{offer(199, 1, "PT6H")}, nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("read-only filesystem"))

	l := NewPriceLookup(provider, cache, nil, zerolog.Nop())
	got := l.Lookup(context.Background(), "JFK", "LAX", depDate, retDate)

	assert.Equal(t, 199.0, got.Price)
	assert.False(t, got.Failed())
}

func TestLookup_ProviderTimeout(t *testing.T) {
	_, provider, cache := newLookupMocks(t)
	cache.EXPECT().Get(gomock.Any(), jfkLaxKey).Return(0.0, false, nil)
	provider.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.QuoteRequest) ([]domain.Offer, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	l := NewPriceLookup(provider, cache, &LookupConfig{ProviderTimeout: 20 * time.Millisecond}, zerolog.Nop())

	start := time.Now()
	got := l.Lookup(context.Background(), "JFK", "LAX", depDate, retDate)

	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, got.Failed())
	assert.Contains(t, got.Error, domain.ErrProviderTimeout.Error())
}

func TestLookup_CallerCancellation(t *testing.T) {
	_, provider, cache := newLookupMocks(t)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	cache.EXPECT().Get(gomock.Any(), jfkLaxKey).Return(0.0, false, nil)
	provider.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.QuoteRequest) ([]domain.Offer, error) {
			<-release
			return nil, errors.New("released")
		}).AnyTimes()

	l := NewPriceLookup(provider, cache, nil, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got := l.Lookup(ctx, "JFK", "LAX", depDate, retDate)
	assert.True(t, got.Failed())
	assert.Contains(t, got.Error, context.DeadlineExceeded.Error())
}

func TestLookup_ConcurrentMissesShareOneProviderCall(t *testing.T) {
	const callers = 8
	_, provider, cache := newLookupMocks(t)

	var entered sync.WaitGroup
	entered.Add(callers)
	cache.EXPECT().Get(gomock.Any(), jfkLaxKey).DoAndReturn(
		func(ctx context.Context, key domain.LookupKey) (float64, bool, error) {
			entered.Done()
			return 0, false, nil
		}).Times(callers)
	provider.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.QuoteRequest) ([]domain.Offer, error) {
			entered.Wait()
			time.Sleep(50 * time.Millisecond)
			return []domain.Offer{offer(250, 1, "PT6H")}, nil
		}).Times(1)
	cache.EXPECT().Set(gomock.Any(), jfkLaxKey, 250.0, gomock.Any()).Return(nil).Times(1)

	l := NewPriceLookup(provider, cache, nil, zerolog.Nop())

	var wg sync.WaitGroup
	results := make([]domain.PriceResult, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.Lookup(context.Background(), "JFK", "LAX", depDate, retDate)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, 250.0, r.Price)
	}
}
