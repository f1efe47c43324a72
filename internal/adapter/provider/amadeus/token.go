package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/flight-search/airfare-matrix/internal/domain"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/retry"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/timeutil"
)

const (
	tokenPath = "/v1/security/oauth2/token"

	// expiryMargin refreshes a token slightly before the server expires it.
	expiryMargin = 30 * time.Second
)

// tokenSource fetches and caches OAuth2 client-credentials tokens.
type tokenSource struct {
	mu        sync.Mutex
	endpoint  string
	apiKey    string
	apiSecret string
	client    *http.Client
	clock     timeutil.Clock
	policy    retry.Policy
	log       zerolog.Logger

	token     string
	expiresAt time.Time
}

func newTokenSource(baseURL, apiKey, apiSecret string, client *http.Client, clock timeutil.Clock, log zerolog.Logger) *tokenSource {
	ts := &tokenSource{
		endpoint:  strings.TrimSuffix(baseURL, "/") + tokenPath,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    client,
		clock:     clock,
		log:       log,
	}
	ts.policy = retry.TokenPolicy.WithOnRetry(func(attempt int, err error, wait time.Duration) {
		ts.log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("Token request failed, retrying")
	})
	return ts
}

// Token returns a valid access token, fetching a new one when the cached token is about to expire.
func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && ts.clock.Now().Before(ts.expiresAt) {
		return ts.token, nil
	}

	resp, err := retry.Do(ctx, ts.policy, ts.fetch)
	if err != nil {
		return "", err
	}

	lifetime := time.Duration(resp.ExpiresIn)*time.Second - expiryMargin
	if lifetime < 0 {
		lifetime = 0
	}
	ts.token = resp.AccessToken
	ts.expiresAt = ts.clock.Now().Add(lifetime)

	ts.log.Debug().Int("expires_in", resp.ExpiresIn).Msg("Acquired access token")
	return ts.token, nil
}

// Invalidate drops the cached token so the next call fetches a new one.
func (ts *tokenSource) Invalidate() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.token = ""
	ts.expiresAt = time.Time{}
}

func (ts *tokenSource) fetch(ctx context.Context) (tokenResponse, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {ts.apiKey},
		"client_secret": {ts.apiSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return tokenResponse{}, retry.Permanent(fmt.Errorf("build token request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := ts.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return tokenResponse{}, retry.Permanent(ctx.Err())
		}
		return tokenResponse{}, fmt.Errorf("%w: token request: %v", domain.ErrProviderUnavailable, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return tokenResponse{}, fmt.Errorf("read token response: %w", err)
	}

	switch {
	case res.StatusCode >= 500:
		return tokenResponse{}, fmt.Errorf("%w: token endpoint returned %d", domain.ErrProviderUnavailable, res.StatusCode)
	case res.StatusCode >= 400:
		var oe oauthError
		_ = json.Unmarshal(body, &oe)
		return tokenResponse{}, retry.Permanent(fmt.Errorf("token rejected (%d): %s %s",
			res.StatusCode, oe.Error, oe.ErrorDescription))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return tokenResponse{}, retry.Permanent(fmt.Errorf("decode token response: %w", err))
	}
	if tr.AccessToken == "" {
		return tokenResponse{}, retry.Permanent(fmt.Errorf("token response missing access_token"))
	}
	return tr, nil
}
