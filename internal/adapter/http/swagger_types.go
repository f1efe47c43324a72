// Package http provides swagger type definitions for API documentation.
// The result maps are keyed by airport code, which swag cannot describe from the domain types directly.
package http

// SwaggerPriceResult is one cell of the price matrix.
// @Description Outcome of a single origin/destination lookup
type SwaggerPriceResult struct {
	// Price is the round-trip fare in USD; 0 when no fare was found
	Price float64 `json:"price" example:"320.5"`

	// NumFlights is the number of outbound segments (absent for cached prices)
	NumFlights *int `json:"numFlights,omitempty" example:"1"`

	// Duration is the outbound ISO-8601 duration (absent for cached prices)
	Duration string `json:"duration,omitempty" example:"PT6H10M"`

	// Error explains why the lookup degraded to 0
	Error string `json:"error,omitempty" example:""`
}

// SwaggerDestinationAverage is the summary row for one destination.
// @Description Mean fare and mean duration for a destination
type SwaggerDestinationAverage struct {
	Price    float64 `json:"price" example:"285.25"`
	Duration string  `json:"duration,omitempty" example:"5h 45m"`
}

// SwaggerSearchResponse represents a completed search.
// @Description Price matrix keyed destination then origin, plus per-destination averages
type SwaggerSearchResponse struct {
	Success  bool                                     `json:"success" example:"true"`
	ID       string                                   `json:"id" example:"3f1c2a9e-8d8f-4a8e-9f51-0b7f0c3c9a11"`
	Results  map[string]map[string]SwaggerPriceResult `json:"results"`
	Averages map[string]SwaggerDestinationAverage     `json:"averages"`
}

// SwaggerHistoryDetail represents a saved search.
// @Description History record with its full results
type SwaggerHistoryDetail struct {
	Success       bool                                     `json:"success" example:"true"`
	ID            string                                   `json:"id" example:"3f1c2a9e-8d8f-4a8e-9f51-0b7f0c3c9a11"`
	Timestamp     string                                   `json:"timestamp" example:"2024-01-01T10:00:00Z"`
	TripName      string                                   `json:"tripName" example:"Summer trip"`
	Origins       []string                                 `json:"origins" example:"JFK,BOS"`
	Destinations  []string                                 `json:"destinations" example:"LAX,SFO"`
	DepartureDate string                                   `json:"departureDate" example:"2024-07-01"`
	ReturnDate    string                                   `json:"returnDate" example:"2024-07-08"`
	Results       map[string]map[string]SwaggerPriceResult `json:"results"`
	Averages      map[string]SwaggerDestinationAverage     `json:"averages"`
}
