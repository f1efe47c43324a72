// Package domain contains the core entities of the airfare matrix service.
// Lookup keys, price results, search requests and history records are provider-agnostic
// and shared by every adapter and use case in the system.
package domain

import "strings"

// Provider request constants. A lookup always asks for one adult, priced in USD,
// and considers at most two candidate offers.
const (
	DefaultAdults   = 1
	DefaultCurrency = "USD"
	DefaultMaxOffer = 2
)

// LookupKey identifies one priced route and date combination.
// It is order-sensitive: JFK→LAX and LAX→JFK are different keys.
type LookupKey struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
}

// NewLookupKey builds a LookupKey from normalized airport codes and ISO dates.
func NewLookupKey(origin, destination, departureDate, returnDate string) LookupKey {
	return LookupKey{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: departureDate,
		ReturnDate:    returnDate,
	}
}

// String returns the cache index form of the key, e.g. "JFK-LAX-2024-01-01-2024-01-08".
func (k LookupKey) String() string {
	return strings.Join([]string{k.Origin, k.Destination, k.DepartureDate, k.ReturnDate}, "-")
}

// SameAirport reports whether origin and destination are the same airport.
func (k LookupKey) SameAirport() bool {
	return k.Origin == k.Destination
}

// PriceResult is the outcome of a single price lookup.
// A failed lookup degrades to a zero price with an error annotation.
type PriceResult struct {
	// Price is the total round-trip fare in USD (0 when unknown or free)
	Price float64 `json:"price"`

	// NumFlights is the number of segments on the outbound itinerary
	NumFlights *int `json:"numFlights,omitempty"`

	// Duration is the outbound itinerary duration as reported by the provider (e.g. "PT5H30M")
	Duration string `json:"duration,omitempty"`

	// Error describes why the lookup degraded to a zero price
	Error string `json:"error,omitempty"`
}

// ZeroPrice returns the result for a same-airport pair, which is free by definition.
func ZeroPrice() PriceResult {
	return PriceResult{Price: 0}
}

// CachedPrice wraps a cached price. Flight metadata is not cached and is reported absent.
func CachedPrice(price float64) PriceResult {
	return PriceResult{Price: price}
}

// FailedPrice returns a zero-price result annotated with the lookup failure.
func FailedPrice(err error) PriceResult {
	msg := "lookup failed"
	if err != nil {
		msg = err.Error()
	}
	return PriceResult{Price: 0, Error: msg}
}

// HasPrice reports whether the result carries a strictly positive fare.
func (r PriceResult) HasPrice() bool {
	return r.Price > 0
}

// Failed reports whether the lookup degraded because of an error.
func (r PriceResult) Failed() bool {
	return r.Error != ""
}
