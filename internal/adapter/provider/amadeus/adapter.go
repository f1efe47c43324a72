// Package amadeus queries the Amadeus Self-Service flight offers API for round-trip prices.
package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/flight-search/airfare-matrix/internal/domain"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/retry"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/timeutil"
)

// ProviderName is the unique identifier for the Amadeus provider.
const ProviderName = "amadeus"

const (
	// DefaultBaseURL is the Amadeus test environment.
	DefaultBaseURL = "https://test.api.amadeus.com"

	offersPath   = "/v2/shopping/flight-offers"
	maxBodyBytes = 4 << 20
)

// Config holds the client settings.
type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string

	// Timeout bounds each HTTP round trip. Zero leaves it to the caller's context.
	Timeout time.Duration

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client

	// Clock overrides the clock used for token expiry (tests).
	Clock timeutil.Clock
}

// Adapter implements domain.QuoteProvider against the Amadeus API.
type Adapter struct {
	baseURL string
	client  *http.Client
	tokens  *tokenSource
	hasAuth bool
	log     zerolog.Logger
}

// NewAdapter creates an Amadeus adapter. Missing credentials are not an error here;
// every Search then fails with ErrMissingCredentials.
func NewAdapter(cfg Config, log zerolog.Logger) *Adapter {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = timeutil.NewRealClock()
	}

	l := log.With().Str("provider", ProviderName).Logger()

	return &Adapter{
		baseURL: baseURL,
		client:  client,
		tokens:  newTokenSource(baseURL, cfg.APIKey, cfg.APISecret, client, clock, l),
		hasAuth: cfg.APIKey != "" && cfg.APISecret != "",
		log:     l,
	}
}

// Name returns the provider identifier.
func (a *Adapter) Name() string {
	return ProviderName
}

// Search calls the flight offers endpoint once and returns the normalized offers.
func (a *Adapter) Search(ctx context.Context, q domain.QuoteRequest) ([]domain.Offer, error) {
	if !a.hasAuth {
		return nil, domain.NewProviderError(ProviderName, domain.ErrMissingCredentials)
	}

	token, err := a.tokens.Token(ctx)
	if err != nil {
		if retry.IsPermanent(err) && ctx.Err() == nil {
			return nil, domain.NewProviderError(ProviderName, fmt.Errorf("acquire token: %w", err))
		}
		return nil, a.wrapTransportError(ctx, fmt.Errorf("acquire token: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+offersPath+"?"+queryParams(q).Encode(), nil)
	if err != nil {
		return nil, domain.NewProviderError(ProviderName, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.amadeus+json, application/json")

	start := time.Now()
	res, err := a.client.Do(req)
	if err != nil {
		return nil, a.wrapTransportError(ctx, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, a.wrapTransportError(ctx, fmt.Errorf("read response: %w", err))
	}

	a.log.Debug().
		Str("origin", q.OriginLocationCode).
		Str("destination", q.DestinationLocationCode).
		Int("status", res.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Flight offers response")

	if res.StatusCode == http.StatusUnauthorized {
		a.tokens.Invalidate()
	}
	if res.StatusCode >= 400 {
		return nil, statusError(res.StatusCode, body)
	}

	var payload flightOffersResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewProviderError(ProviderName, fmt.Errorf("%w: %v", domain.ErrMalformedOffer, err))
	}

	offers, err := normalize(payload.Data)
	if err != nil {
		return nil, domain.NewProviderError(ProviderName, err)
	}
	return offers, nil
}

func queryParams(q domain.QuoteRequest) url.Values {
	return url.Values{
		"originLocationCode":      {q.OriginLocationCode},
		"destinationLocationCode": {q.DestinationLocationCode},
		"departureDate":           {q.DepartureDate},
		"returnDate":              {q.ReturnDate},
		"adults":                  {strconv.Itoa(q.Adults)},
		"currencyCode":            {q.CurrencyCode},
		"max":                     {strconv.Itoa(q.Max)},
	}
}

func (a *Adapter) wrapTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewProviderTimeoutError(ProviderName)
	}
	if ctx.Err() != nil {
		return domain.NewProviderError(ProviderName, ctx.Err())
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return domain.NewProviderTimeoutError(ProviderName)
	}
	return domain.NewRetryableProviderError(ProviderName, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err))
}

func statusError(status int, body []byte) error {
	msg := http.StatusText(status)
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && len(er.Errors) > 0 {
		e := er.Errors[0]
		msg = strings.TrimSpace(e.Title + ": " + e.Detail)
	}

	err := fmt.Errorf("status %d: %s", status, msg)
	if status >= 500 || status == http.StatusTooManyRequests {
		return domain.NewRetryableProviderError(ProviderName, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err))
	}
	return domain.NewProviderError(ProviderName, err)
}

var _ domain.QuoteProvider = (*Adapter)(nil)
