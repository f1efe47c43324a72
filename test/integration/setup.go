// Package integration provides helpers and integration tests for the airfare matrix service.
// Integration tests verify that components work together correctly: HTTP handlers,
// the matrix search use case, the price cache, the history store and a mock provider.
package integration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/flight-search/airfare-matrix/internal/adapter/cache/filecache"
	"github.com/flight-search/airfare-matrix/internal/adapter/history/filestore"
	httpAdapter "github.com/flight-search/airfare-matrix/internal/adapter/http"
	"github.com/flight-search/airfare-matrix/internal/adapter/http/middleware"
	"github.com/flight-search/airfare-matrix/internal/domain"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/broadcast"
	"github.com/flight-search/airfare-matrix/internal/usecase"
	"github.com/flight-search/airfare-matrix/test/mock"
	"github.com/flight-search/airfare-matrix/test/testutil"
)

// Default dates used by integration requests.
const (
	DepartureDate = "2024-07-01"
	ReturnDate    = "2024-07-08"
)

// Stack holds the wired components behind a TestServer.
type Stack struct {
	Provider *mock.Provider
	Cache    *filecache.Store
	History  *filestore.Store
	Progress *broadcast.Broadcaster
	Lookup   *usecase.PriceLookup
	UseCase  usecase.MatrixSearchUseCase
}

// StackOption customizes NewStack.
type StackOption func(*stackConfig)

type stackConfig struct {
	maxEntries int
	lookup     *usecase.LookupConfig
}

// WithMaxEntries caps the history index.
func WithMaxEntries(n int) StackOption {
	return func(c *stackConfig) {
		c.maxEntries = n
	}
}

// WithLookupConfig overrides the price lookup configuration.
func WithLookupConfig(cfg *usecase.LookupConfig) StackOption {
	return func(c *stackConfig) {
		c.lookup = cfg
	}
}

// NewStack wires an in-memory price cache, a history store in a temp dir,
// a broadcaster and the matrix search use case around the given provider.
func NewStack(t *testing.T, provider *mock.Provider, opts ...StackOption) *Stack {
	t.Helper()

	cfg := stackConfig{maxEntries: domain.DefaultHistoryLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	log := zerolog.Nop()

	cache := filecache.New("", log)

	history, err := filestore.New(t.TempDir(), log, filestore.WithMaxEntries(cfg.maxEntries))
	require.NoError(t, err)

	progress := broadcast.New(64, log)
	t.Cleanup(progress.Close)

	lookup := usecase.NewPriceLookup(provider, cache, cfg.lookup, log)

	return &Stack{
		Provider: provider,
		Cache:    cache,
		History:  history,
		Progress: progress,
		Lookup:   lookup,
		UseCase:  usecase.NewMatrixSearchUseCase(lookup, progress, history, log),
	}
}

// TestServer wraps an Echo instance and provides helper methods for integration testing.
type TestServer struct {
	*Stack
	Echo    *echo.Echo
	Handler *httpAdapter.SearchHandler
}

// NewTestServer creates a test server with the full middleware chain and routes.
func NewTestServer(t *testing.T, provider *mock.Provider, opts ...StackOption) *TestServer {
	t.Helper()

	stack := NewStack(t, provider, opts...)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	handler := httpAdapter.NewSearchHandler(stack.UseCase, stack.History, stack.Progress, nil, zerolog.Nop())
	middleware.Setup(e, zerolog.Nop())
	httpAdapter.RegisterRoutes(e, handler)

	return &TestServer{
		Stack:   stack,
		Echo:    e,
		Handler: handler,
	}
}

// Request represents a test HTTP request configuration.
type Request struct {
	Method      string
	Path        string
	Body        interface{}
	RawBody     string
	ContentType string
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(req Request) Response {
	var bodyReader *bytes.Reader
	switch {
	case req.RawBody != "":
		bodyReader = bytes.NewReader([]byte(req.RawBody))
	case req.Body != nil:
		bodyBytes, _ := json.Marshal(req.Body)
		bodyReader = bytes.NewReader(bodyBytes)
	default:
		bodyReader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bodyReader)

	if req.ContentType != "" {
		httpReq.Header.Set(echo.HeaderContentType, req.ContentType)
	} else if req.Body != nil || req.RawBody != "" {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, httpReq)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// Search posts a search request body.
func (ts *TestServer) Search(body interface{}) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/search",
		Body:   body,
	})
}

// Get issues a GET request.
func (ts *TestServer) Get(path string) Response {
	return ts.Do(Request{
		Method: http.MethodGet,
		Path:   path,
	})
}

// SearchResponse mirrors the search endpoint's success body.
type SearchResponse struct {
	Success  bool                 `json:"success"`
	ID       string               `json:"id"`
	Results  domain.ResultMatrix  `json:"results"`
	Averages domain.AverageRecord `json:"averages"`
}

// HistoryItem mirrors one element of the history list.
type HistoryItem struct {
	domain.HistoryEntry
	Age string `json:"age"`
}

// HistoryResponse mirrors the history endpoint's success body.
type HistoryResponse struct {
	Success bool          `json:"success"`
	History []HistoryItem `json:"history"`
}

// ParseSearchResponse parses the response body as a SearchResponse.
func (r *Response) ParseSearchResponse() (*SearchResponse, error) {
	var resp SearchResponse
	if err := json.Unmarshal(r.Body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParseHistory parses the response body as a HistoryResponse.
func (r *Response) ParseHistory() (*HistoryResponse, error) {
	var resp HistoryResponse
	if err := json.Unmarshal(r.Body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParseDetail parses the response body as a history detail.
func (r *Response) ParseDetail() (*domain.HistoryDetail, error) {
	var resp domain.HistoryDetail
	if err := json.Unmarshal(r.Body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParseError parses the response body to extract error information.
func (r *Response) ParseError() (map[string]interface{}, error) {
	var errResp map[string]interface{}
	if err := json.Unmarshal(r.Body, &errResp); err != nil {
		return nil, err
	}
	return errResp, nil
}

// SearchRequestBody is a helper struct for building search request bodies.
type SearchRequestBody struct {
	TripName      string   `json:"tripName,omitempty"`
	Origins       []string `json:"origins"`
	Destinations  []string `json:"destinations"`
	DepartureDate string   `json:"departureDate"`
	ReturnDate    string   `json:"returnDate"`
}

// DefaultSearchRequest returns a valid two-by-two search body.
func DefaultSearchRequest() SearchRequestBody {
	return SearchRequestBody{
		TripName:      "Summer",
		Origins:       []string{"JFK", "BOS"},
		Destinations:  []string{"LAX", "SFO"},
		DepartureDate: DepartureDate,
		ReturnDate:    ReturnDate,
	}
}

// DefaultSearchRequestDomain returns DefaultSearchRequest as a domain request.
func DefaultSearchRequestDomain() domain.SearchRequest {
	body := DefaultSearchRequest()
	return domain.SearchRequest{
		TripName:      body.TripName,
		Origins:       body.Origins,
		Destinations:  body.Destinations,
		DepartureDate: body.DepartureDate,
		ReturnDate:    body.ReturnDate,
	}
}

// newHTTPServer serves ts over a real listener, needed for streaming responses.
func newHTTPServer(t *testing.T, ts *TestServer) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(ts.Echo)
	t.Cleanup(srv.Close)
	return srv
}

// progressStream reads server-sent events from the status endpoint.
type progressStream struct {
	reader *bufio.Reader
}

// openProgressStream connects to the status endpoint and returns once the
// response headers have arrived.
func openProgressStream(t *testing.T, baseURL string) *progressStream {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/v1/status", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		resp.Body.Close()
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get(echo.HeaderContentType))

	return &progressStream{reader: bufio.NewReader(resp.Body)}
}

// next returns the data of the next event. The stream's context bounds the wait.
func (s *progressStream) next(t *testing.T) string {
	t.Helper()
	return testutil.ReadEvent(t, s.reader)
}
