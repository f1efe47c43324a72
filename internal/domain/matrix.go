package domain

// ResultMatrix maps destination → origin → PriceResult.
type ResultMatrix map[string]map[string]PriceResult

// NewResultMatrix creates an empty matrix keyed by every destination.
func NewResultMatrix(destinations []string) ResultMatrix {
	m := make(ResultMatrix, len(destinations))
	for _, d := range destinations {
		if _, ok := m[d]; !ok {
			m[d] = make(map[string]PriceResult)
		}
	}
	return m
}

// Set records the result for one cell.
func (m ResultMatrix) Set(destination, origin string, r PriceResult) {
	row, ok := m[destination]
	if !ok {
		row = make(map[string]PriceResult)
		m[destination] = row
	}
	row[origin] = r
}

// Get returns the result for one cell.
func (m ResultMatrix) Get(destination, origin string) (PriceResult, bool) {
	row, ok := m[destination]
	if !ok {
		return PriceResult{}, false
	}
	r, ok := row[origin]
	return r, ok
}

// DestinationAverage summarizes the prices found for one destination.
type DestinationAverage struct {
	// Price is the mean of the strictly positive fares (0 if none)
	Price float64 `json:"price"`

	// Duration is the mean itinerary duration, e.g. "5h 30m" (absent if no cell reported one)
	Duration string `json:"duration,omitempty"`
}

// AverageRecord maps destination → DestinationAverage.
type AverageRecord map[string]DestinationAverage

// SearchResult is the outcome of a completed sweep.
type SearchResult struct {
	// ID is the history id the search was saved under
	ID string `json:"id"`

	// Results is the fully populated price matrix
	Results ResultMatrix `json:"results"`

	// Averages holds the per-destination averages
	Averages AverageRecord `json:"averages"`
}
