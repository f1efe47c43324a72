// Package mock provides test doubles for the airfare matrix system.
// These mocks are designed for integration testing where we need
// configurable behavior (delays, errors, specific responses).
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/flight-search/airfare-matrix/internal/domain"
)

// Provider is a configurable mock implementation of domain.QuoteProvider.
// Routes are keyed "ORIGIN-DEST"; unknown routes get the default offers.
type Provider struct {
	name          string
	routes        map[string][]domain.Offer
	routeErrors   map[string]error
	defaultOffers []domain.Offer
	err           error
	delay         time.Duration
	calls         map[string]int
	mu            sync.Mutex
}

// NewProvider creates a new mock provider with the given name.
// The provider is configured using the builder pattern methods.
func NewProvider(name string) *Provider {
	return &Provider{
		name:        name,
		routes:      make(map[string][]domain.Offer),
		routeErrors: make(map[string]error),
		calls:       make(map[string]int),
	}
}

// WithRoute configures the offers returned for one origin/destination.
func (p *Provider) WithRoute(origin, destination string, offers ...domain.Offer) *Provider {
	p.routes[routeKey(origin, destination)] = offers
	return p
}

// WithRouteError makes one origin/destination fail with err.
func (p *Provider) WithRouteError(origin, destination string, err error) *Provider {
	p.routeErrors[routeKey(origin, destination)] = err
	return p
}

// WithDefaultOffers configures the offers returned for routes without an explicit entry.
func (p *Provider) WithDefaultOffers(offers ...domain.Offer) *Provider {
	p.defaultOffers = offers
	return p
}

// WithError configures the provider to fail every route with err.
func (p *Provider) WithError(err error) *Provider {
	p.err = err
	return p
}

// WithDelay configures the provider to wait the given duration before responding.
// This is useful for testing timeout behavior.
func (p *Provider) WithDelay(d time.Duration) *Provider {
	p.delay = d
	return p
}

// Name returns the provider's unique identifier.
func (p *Provider) Name() string {
	return p.name
}

// Search implements domain.QuoteProvider.Search.
// It respects context cancellation, applies configured delay,
// and returns configured offers or error.
func (p *Provider) Search(ctx context.Context, req domain.QuoteRequest) ([]domain.Offer, error) {
	key := routeKey(req.OriginLocationCode, req.DestinationLocationCode)

	p.mu.Lock()
	p.calls[key]++
	offers, hasRoute := p.routes[key]
	routeErr := p.routeErrors[key]
	defaults := p.defaultOffers
	err := p.err
	delay := p.delay
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err != nil {
		return nil, err
	}
	if routeErr != nil {
		return nil, routeErr
	}
	if hasRoute {
		return offers, nil
	}
	return defaults, nil
}

// CallCount returns the total number of Search calls.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, n := range p.calls {
		total += n
	}
	return total
}

// RouteCallCount returns how many times one origin/destination was searched.
func (p *Provider) RouteCallCount(origin, destination string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[routeKey(origin, destination)]
}

// Reset resets the call counts to zero.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = make(map[string]int)
}

// Ensure Provider implements domain.QuoteProvider at compile time.
var _ domain.QuoteProvider = (*Provider)(nil)

func routeKey(origin, destination string) string {
	return origin + "-" + destination
}

// Offer returns a priced offer whose outbound itinerary has the given duration and segment count.
func Offer(price float64, duration string, segments int) domain.Offer {
	return domain.Offer{
		TotalPrice: price,
		Currency:   domain.DefaultCurrency,
		Itineraries: []domain.Itinerary{
			{Duration: duration, Segments: segments},
			{Duration: duration, Segments: segments},
		},
	}
}
