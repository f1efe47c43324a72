package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/flight-search/airfare-matrix/internal/domain"
)

// Default lookup settings.
const (
	DefaultCacheTTL        = 24 * time.Hour
	DefaultProviderTimeout = 15 * time.Second
)

// PriceLooker prices one origin/destination/date tuple. Failures are reported
// inside the PriceResult, never as an error.
type PriceLooker interface {
	Lookup(ctx context.Context, origin, destination, departureDate, returnDate string) domain.PriceResult
}

// LookupConfig contains configuration options for PriceLookup.
type LookupConfig struct {
	CacheTTL        time.Duration
	ProviderTimeout time.Duration
}

// DefaultLookupConfig returns the default configuration.
func DefaultLookupConfig() LookupConfig {
	return LookupConfig{
		CacheTTL:        DefaultCacheTTL,
		ProviderTimeout: DefaultProviderTimeout,
	}
}

// PriceLookup consults the cache and falls back to the quote provider.
// Concurrent misses for the same key share one provider call.
type PriceLookup struct {
	provider        domain.QuoteProvider
	cache           domain.PriceCache
	cacheTTL        time.Duration
	providerTimeout time.Duration
	group           singleflight.Group
	log             zerolog.Logger
}

// NewPriceLookup creates a PriceLookup. If config is nil, defaults are used.
func NewPriceLookup(provider domain.QuoteProvider, cache domain.PriceCache, config *LookupConfig, log zerolog.Logger) *PriceLookup {
	cfg := DefaultLookupConfig()
	if config != nil {
		if config.CacheTTL > 0 {
			cfg.CacheTTL = config.CacheTTL
		}
		if config.ProviderTimeout > 0 {
			cfg.ProviderTimeout = config.ProviderTimeout
		}
	}

	return &PriceLookup{
		provider:        provider,
		cache:           cache,
		cacheTTL:        cfg.CacheTTL,
		providerTimeout: cfg.ProviderTimeout,
		log:             log.With().Str("component", "price_lookup").Logger(),
	}
}

// Lookup returns the price for one route. A same-airport pair is free and
// touches neither cache nor provider. Cache hits carry no flight metadata.
func (l *PriceLookup) Lookup(ctx context.Context, origin, destination, departureDate, returnDate string) domain.PriceResult {
	key := domain.NewLookupKey(origin, destination, departureDate, returnDate)
	if key.SameAirport() {
		return domain.ZeroPrice()
	}

	price, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		l.log.Warn().Err(err).Str("key", key.String()).Msg("Cache read failed, querying provider")
	} else if ok {
		l.log.Debug().Str("key", key.String()).Float64("price", price).Msg("Using cached price")
		return domain.CachedPrice(price)
	}

	ch := l.group.DoChan(key.String(), func() (interface{}, error) {
		// Detached so one caller giving up does not fail the others sharing this call.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.providerTimeout)
		defer cancel()
		return l.fetch(fetchCtx, key)
	})

	select {
	case <-ctx.Done():
		return domain.FailedPrice(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			l.log.Warn().
				Err(res.Err).
				Str("provider", l.provider.Name()).
				Str("key", key.String()).
				Msg("Price lookup failed")
			return domain.FailedPrice(res.Err)
		}
		return res.Val.(domain.PriceResult)
	}
}

// fetch queries the provider, takes the first offer and caches its price.
func (l *PriceLookup) fetch(ctx context.Context, key domain.LookupKey) (result domain.PriceResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.NewProviderError(l.provider.Name(), fmt.Errorf("panic: %v", r))
		}
	}()

	start := time.Now()
	offers, err := l.provider.Search(ctx, domain.NewQuoteRequest(key))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !domain.IsProviderTimeout(err) {
			return domain.PriceResult{}, domain.NewProviderTimeoutError(l.provider.Name())
		}
		return domain.PriceResult{}, err
	}
	if len(offers) == 0 {
		return domain.PriceResult{}, domain.NewProviderError(l.provider.Name(), domain.ErrNoOffers)
	}

	first := offers[0]
	if len(first.Itineraries) == 0 {
		return domain.PriceResult{}, domain.NewProviderError(l.provider.Name(),
			fmt.Errorf("%w: first offer has no itineraries", domain.ErrMalformedOffer))
	}

	outbound := first.Itineraries[0]
	segments := outbound.Segments
	result = domain.PriceResult{
		Price:      first.TotalPrice,
		NumFlights: &segments,
		Duration:   outbound.Duration,
	}

	l.log.Info().
		Str("key", key.String()).
		Float64("price", result.Price).
		Int("flights", segments).
		Str("duration", outbound.Duration).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched airfare price")

	// The cache is an optimization; a failed write still returns the fresh price.
	if err := l.cache.Set(ctx, key, result.Price, l.cacheTTL); err != nil {
		l.log.Error().Err(err).Str("key", key.String()).Msg("Failed to cache price")
	}

	return result, nil
}

var _ PriceLooker = (*PriceLookup)(nil)
