package http

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flight-search/airfare-matrix/internal/domain"
)

func TestSearchMatrixRequest_ToDomain(t *testing.T) {
	tests := []struct {
		name     string
		request  SearchMatrixRequest
		expected domain.SearchRequest
	}{
		{
			name: "arrays pass through",
			request: SearchMatrixRequest{
				TripName:      "Summer",
				Origins:       []string{"JFK", "bos"},
				Destinations:  []string{"LAX"},
				DepartureDate: "2024-01-01",
				ReturnDate:    "2024-01-08",
			},
			expected: domain.SearchRequest{
				TripName:      "Summer",
				Origins:       []string{"JFK", "bos"},
				Destinations:  []string{"LAX"},
				DepartureDate: "2024-01-01",
				ReturnDate:    "2024-01-08",
			},
		},
		{
			name: "comma separated element is expanded",
			request: SearchMatrixRequest{
				Origins:      []string{"JFK, BOS,,EWR"},
				Destinations: []string{"LAX", "SFO,SEA"},
			},
			expected: domain.SearchRequest{
				Origins:      []string{"JFK", "BOS", "EWR"},
				Destinations: []string{"LAX", "SFO", "SEA"},
			},
		},
		{
			name:     "nil lists stay nil",
			request:  SearchMatrixRequest{},
			expected: domain.SearchRequest{},
		},
		{
			name: "empty element is kept for validation",
			request: SearchMatrixRequest{
				Origins: []string{""},
			},
			expected: domain.SearchRequest{
				Origins: []string{""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.request.ToDomain())
		})
	}
}
