package amadeus

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/flight-search/airfare-matrix/internal/domain"
)

// normalize converts API offers to domain offers, preserving order.
// The first offer is the priced one: if it is unusable the result is
// ErrMalformedOffer. Later unusable offers are skipped.
func normalize(offers []flightOffer) ([]domain.Offer, error) {
	result := make([]domain.Offer, 0, len(offers))

	for i, o := range offers {
		normalized, err := normalizeOffer(o)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOffer, err)
			}
			continue
		}
		result = append(result, normalized)
	}

	return result, nil
}

func normalizeOffer(o flightOffer) (domain.Offer, error) {
	total, err := parsePrice(o.Price.Total)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("offer %s: %w", o.ID, err)
	}
	if len(o.Itineraries) == 0 {
		return domain.Offer{}, fmt.Errorf("offer %s: no itineraries", o.ID)
	}

	itineraries := make([]domain.Itinerary, 0, len(o.Itineraries))
	for _, it := range o.Itineraries {
		itineraries = append(itineraries, domain.Itinerary{
			Duration: it.Duration,
			Segments: len(it.Segments),
		})
	}

	currency := o.Price.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	return domain.Offer{
		TotalPrice:  total,
		Currency:    currency,
		Itineraries: itineraries,
	}, nil
}

// parsePrice parses the decimal string the API uses for amounts, e.g. "546.70".
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing price total")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price total %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite price total %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price total %q", s)
	}
	return v, nil
}
