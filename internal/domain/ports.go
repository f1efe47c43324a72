package domain

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=domain

import (
	"context"
	"time"
)

// QuoteRequest is the query sent to an external price-quote provider.
type QuoteRequest struct {
	OriginLocationCode      string
	DestinationLocationCode string
	DepartureDate           string
	ReturnDate              string
	Adults                  int
	CurrencyCode            string
	Max                     int
}

// NewQuoteRequest builds the fixed-shape provider query for a lookup key.
func NewQuoteRequest(key LookupKey) QuoteRequest {
	return QuoteRequest{
		OriginLocationCode:      key.Origin,
		DestinationLocationCode: key.Destination,
		DepartureDate:           key.DepartureDate,
		ReturnDate:              key.ReturnDate,
		Adults:                  DefaultAdults,
		CurrencyCode:            DefaultCurrency,
		Max:                     DefaultMaxOffer,
	}
}

// Offer is one priced itinerary option returned by a provider.
type Offer struct {
	TotalPrice  float64
	Currency    string
	Itineraries []Itinerary
}

// Itinerary is one direction of an offer.
type Itinerary struct {
	// Duration is the ISO-8601 duration string reported by the provider (e.g. "PT5H30M")
	Duration string

	// Segments is the number of flights on this itinerary
	Segments int
}

// QuoteProvider is an external flight-pricing API.
type QuoteProvider interface {
	// Name returns the provider identifier used in logs and errors.
	Name() string

	// Search returns candidate offers for the request, best first.
	Search(ctx context.Context, req QuoteRequest) ([]Offer, error)
}

// PriceCache stores prices by lookup key with an expiry.
type PriceCache interface {
	// Get returns the cached price, or ok=false if absent or expired.
	Get(ctx context.Context, key LookupKey) (price float64, ok bool, err error)

	// Set stores the price with a fresh expiry of ttl from now.
	Set(ctx context.Context, key LookupKey, price float64, ttl time.Duration) error
}

// HistoryStore is the size-bounded log of completed searches.
type HistoryStore interface {
	// SaveSearch persists a completed search and returns its id.
	SaveSearch(ctx context.Context, rec SearchRecord) (string, error)

	// ListHistory returns the index, newest first.
	ListHistory(ctx context.Context) ([]HistoryEntry, error)

	// GetDetail returns the full record for id, or ErrSearchNotFound.
	GetDetail(ctx context.Context, id string) (*HistoryDetail, error)
}

// ProgressPublisher receives human-readable progress messages.
type ProgressPublisher interface {
	Publish(message string)
}
