// Package export renders a price matrix as a spreadsheet: CSV for the batch
// tool and XLSX for downloads and batch output.
package export

import (
	"github.com/flight-search/airfare-matrix/internal/domain"
)

// NoFlight is shown in XLSX cells that have no positive price.
const NoFlight = "No flight available"

// HeaderCorner labels the first header cell.
const HeaderCorner = "Origin/Destination"

// Table is a matrix laid out for rendering: one row per origin, one column per destination.
type Table struct {
	Origins      []string
	Destinations []string
	Results      domain.ResultMatrix
	Averages     domain.AverageRecord
}

// NewTable lays out results. Duplicate codes collapse to their first occurrence.
func NewTable(origins, destinations []string, results domain.ResultMatrix, averages domain.AverageRecord) Table {
	return Table{
		Origins:      distinct(origins),
		Destinations: distinct(destinations),
		Results:      results,
		Averages:     averages,
	}
}

// FromDetail lays out a saved search.
func FromDetail(d *domain.HistoryDetail) Table {
	return NewTable(d.Origins, d.Destinations, d.Results, d.Averages)
}

// Cell returns the result for one origin/destination, or the zero result if absent.
func (t Table) Cell(origin, destination string) domain.PriceResult {
	r, _ := t.Results.Get(destination, origin)
	return r
}

func distinct(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
