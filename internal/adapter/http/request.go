package http

import (
	"strings"

	"github.com/flight-search/airfare-matrix/internal/domain"
)

// SearchMatrixRequest represents the request body for a price-matrix search.
type SearchMatrixRequest struct {
	// TripName is an optional label shown in the history list
	TripName string `json:"tripName" example:"Summer trip"`

	// Origins are the IATA codes of the departure airports
	Origins []string `json:"origins" example:"JFK,BOS"`

	// Destinations are the IATA codes of the arrival airports
	Destinations []string `json:"destinations" example:"LAX,SFO"`

	// DepartureDate is the outbound date in YYYY-MM-DD format
	DepartureDate string `json:"departureDate" example:"2025-07-01"`

	// ReturnDate is the inbound date in YYYY-MM-DD format
	ReturnDate string `json:"returnDate" example:"2025-07-08"`
}

// ToDomain converts the request body to a domain.SearchRequest.
// A single element holding a comma-separated list ("JFK, BOS") is expanded,
// which is what a plain text input submits.
func (r *SearchMatrixRequest) ToDomain() domain.SearchRequest {
	return domain.SearchRequest{
		TripName:      r.TripName,
		Origins:       splitCodes(r.Origins),
		Destinations:  splitCodes(r.Destinations),
		DepartureDate: r.DepartureDate,
		ReturnDate:    r.ReturnDate,
	}
}

func splitCodes(codes []string) []string {
	if codes == nil {
		return nil
	}
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if !strings.Contains(c, ",") {
			out = append(out, c)
			continue
		}
		for _, part := range strings.Split(c, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
