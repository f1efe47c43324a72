package response

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"

	"github.com/flight-search/airfare-matrix/internal/domain"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	Subscribers int    `json:"subscribers"`
}

// SearchResultsResponse is the body of a completed search.
type SearchResultsResponse struct {
	Success  bool                 `json:"success"`
	ID       string               `json:"id"`
	Results  domain.ResultMatrix  `json:"results"`
	Averages domain.AverageRecord `json:"averages"`
}

// HistoryItem is one history index entry plus a human-readable age.
type HistoryItem struct {
	domain.HistoryEntry
	Age string `json:"age"`
}

// HistoryResponse is the body of the history listing.
type HistoryResponse struct {
	Success bool          `json:"success"`
	History []HistoryItem `json:"history"`
}

// HistoryDetailResponse is the body of a single history record.
// The detail fields are inlined next to success.
type HistoryDetailResponse struct {
	Success bool `json:"success"`
	*domain.HistoryDetail
}

// Health writes a health check response.
func Health(c echo.Context, subscribers int) error {
	return c.JSON(http.StatusOK, &HealthResponse{
		Status:      "ok",
		Subscribers: subscribers,
	})
}

// SearchResults writes a 200 OK response with a completed search.
func SearchResults(c echo.Context, result *domain.SearchResult) error {
	return c.JSON(http.StatusOK, &SearchResultsResponse{
		Success:  true,
		ID:       result.ID,
		Results:  result.Results,
		Averages: result.Averages,
	})
}

// History writes the history index, labelling each entry with its age relative to now.
func History(c echo.Context, entries []domain.HistoryEntry, now time.Time) error {
	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			HistoryEntry: e,
			Age:          humanize.RelTime(e.Timestamp, now, "ago", "from now"),
		})
	}
	return c.JSON(http.StatusOK, &HistoryResponse{
		Success: true,
		History: items,
	})
}

// HistoryDetail writes a single history record.
func HistoryDetail(c echo.Context, detail *domain.HistoryDetail) error {
	return c.JSON(http.StatusOK, &HistoryDetailResponse{
		Success:       true,
		HistoryDetail: detail,
	})
}
