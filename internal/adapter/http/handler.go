// Package http provides the HTTP handler layer for the airfare matrix API.
// It handles request parsing, response formatting, error mapping and the progress stream.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/flight-search/airfare-matrix/internal/adapter/http/response"
	"github.com/flight-search/airfare-matrix/internal/domain"
	"github.com/flight-search/airfare-matrix/internal/export"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/broadcast"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/timeutil"
	"github.com/flight-search/airfare-matrix/internal/usecase"
)

// DefaultKeepalive is the interval between comment frames on an idle progress stream.
const DefaultKeepalive = 15 * time.Second

// ProgressSource hands out progress subscriptions to stream clients.
type ProgressSource interface {
	Subscribe() *broadcast.Subscription
	Unsubscribe(sub *broadcast.Subscription)
	SubscriberCount() int
}

// HandlerConfig holds optional handler settings.
type HandlerConfig struct {
	// Keepalive is the comment-frame interval on the progress stream
	Keepalive time.Duration

	// Clock supplies "now" for history ages
	Clock timeutil.Clock
}

// SearchHandler handles HTTP requests for search, progress and history endpoints.
type SearchHandler struct {
	useCase   usecase.MatrixSearchUseCase
	history   domain.HistoryStore
	progress  ProgressSource
	keepalive time.Duration
	clock     timeutil.Clock
	log       zerolog.Logger
}

// NewSearchHandler creates a new SearchHandler.
// A nil config uses DefaultKeepalive and the real clock.
func NewSearchHandler(uc usecase.MatrixSearchUseCase, history domain.HistoryStore, progress ProgressSource, cfg *HandlerConfig, log zerolog.Logger) *SearchHandler {
	h := &SearchHandler{
		useCase:   uc,
		history:   history,
		progress:  progress,
		keepalive: DefaultKeepalive,
		clock:     timeutil.NewRealClock(),
		log:       log.With().Str("component", "http").Logger(),
	}
	if cfg != nil {
		if cfg.Keepalive > 0 {
			h.keepalive = cfg.Keepalive
		}
		if cfg.Clock != nil {
			h.clock = cfg.Clock
		}
	}
	return h
}

// Search handles POST /api/v1/search
//
// @Summary Run a price-matrix search
// @Description Prices every origin/destination pair, streams progress on /status and saves the result to history
// @Tags search
// @Accept json
// @Produce json
// @Param request body SearchMatrixRequest true "Search request"
// @Success 200 {object} SwaggerSearchResponse
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 500 {object} response.ErrorDetail "History persistence failed"
// @Failure 504 {object} response.ErrorDetail "Request cancelled"
// @Router /search [post]
func (h *SearchHandler) Search(c echo.Context) error {
	var req SearchMatrixRequest

	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	// A sweep runs for as long as the provider needs; the server write timeout must not cut it off.
	clearWriteDeadline(c)

	result, err := h.useCase.RunSearch(c.Request().Context(), req.ToDomain())
	if err != nil {
		return h.handleError(c, err)
	}

	return response.SearchResults(c, result)
}

// History handles GET /api/v1/history
//
// @Summary List saved searches
// @Description Returns the history index, newest first
// @Tags history
// @Produce json
// @Success 200 {object} response.HistoryResponse
// @Failure 500 {object} response.ErrorDetail
// @Router /history [get]
func (h *SearchHandler) History(c echo.Context) error {
	entries, err := h.history.ListHistory(c.Request().Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return response.History(c, entries, h.clock.Now())
}

// HistoryDetail handles GET /api/v1/history/:id
//
// @Summary Get a saved search
// @Description Returns the full results of one saved search
// @Tags history
// @Produce json
// @Param id path string true "Search id"
// @Success 200 {object} SwaggerHistoryDetail
// @Failure 404 {object} response.ErrorDetail
// @Router /history/{id} [get]
func (h *SearchHandler) HistoryDetail(c echo.Context) error {
	detail, err := h.history.GetDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return response.HistoryDetail(c, detail)
}

// ExportHistory handles GET /api/v1/history/:id/export
//
// @Summary Export a saved search
// @Description Downloads the saved price matrix as an Excel workbook
// @Tags history
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Search id"
// @Success 200 {file} file
// @Failure 404 {object} response.ErrorDetail
// @Router /history/{id}/export [get]
func (h *SearchHandler) ExportHistory(c echo.Context) error {
	detail, err := h.history.GetDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, export.XLSXContentType)
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName(detail.TripName)))
	res.WriteHeader(http.StatusOK)

	if err := export.WriteXLSX(res, export.FromDetail(detail)); err != nil {
		// Headers are already sent; nothing useful can be returned to the client.
		h.log.Error().Err(err).Str("id", detail.ID).Msg("Failed to write export")
	}
	return nil
}

// Health handles GET /health
//
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Router /health [get]
func (h *SearchHandler) Health(c echo.Context) error {
	return response.Health(c, h.progress.SubscriberCount())
}

// handleError maps domain errors to appropriate HTTP responses.
func (h *SearchHandler) handleError(c echo.Context, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return response.ValidationError(c, verr.Fields)
	}

	if errors.Is(err, domain.ErrInvalidRequest) {
		return response.ValidationErrorWithMessage(c, err.Error())
	}

	if errors.Is(err, domain.ErrSearchNotFound) {
		return response.NotFound(c)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return response.GatewayTimeout(c)
	}

	if errors.Is(err, context.Canceled) {
		return response.RequestCancelled(c)
	}

	if errors.Is(err, domain.ErrHistoryPersistence) {
		return response.HistoryFailed(c)
	}

	h.log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
	return response.InternalServerError(c)
}

// clearWriteDeadline lifts the server write timeout for a long-running response.
// Writers that do not support deadlines (e.g. test recorders) are left alone.
func clearWriteDeadline(c echo.Context) {
	_ = http.NewResponseController(c.Response()).SetWriteDeadline(time.Time{})
}
