package domain

import "time"

// DefaultHistoryLimit is the maximum number of searches kept in the history index.
const DefaultHistoryLimit = 50

// HistoryEntry is the lightweight index record of a completed search.
type HistoryEntry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	TripName      string    `json:"tripName"`
	Origins       []string  `json:"origins"`
	Destinations  []string  `json:"destinations"`
	DepartureDate string    `json:"departureDate"`
	ReturnDate    string    `json:"returnDate"`
}

// HistoryDetail is a HistoryEntry plus the full results of the search.
type HistoryDetail struct {
	HistoryEntry
	Results  ResultMatrix  `json:"results"`
	Averages AverageRecord `json:"averages"`
}

// SearchRecord is what the aggregator hands to the history store on completion.
type SearchRecord struct {
	Request  SearchRequest
	Results  ResultMatrix
	Averages AverageRecord
}

// NewHistoryEntry builds the index record for a search saved at the given time.
// A blank trip name is replaced with DefaultTripName.
func NewHistoryEntry(id string, at time.Time, req SearchRequest) HistoryEntry {
	name := req.TripName
	if name == "" {
		name = DefaultTripName(at)
	}
	return HistoryEntry{
		ID:            id,
		Timestamp:     at,
		TripName:      name,
		Origins:       append([]string(nil), req.Origins...),
		Destinations:  append([]string(nil), req.Destinations...),
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
	}
}

// DefaultTripName labels an unnamed search by its timestamp.
func DefaultTripName(at time.Time) string {
	return "Search " + at.UTC().Format(time.RFC3339)
}
