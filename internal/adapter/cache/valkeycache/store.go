// Package valkeycache is a price cache backed by Valkey. Expiry is delegated to
// the server with SET EX, so expired prices are never returned.
package valkeycache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	valkeylib "github.com/valkey-io/valkey-go"

	"github.com/flight-search/airfare-matrix/internal/domain"
)

const (
	// DefaultConnectTimeout bounds the initial ping.
	DefaultConnectTimeout = 5 * time.Second

	// DefaultTTL is used when Set is called with a non-positive ttl.
	DefaultTTL = 24 * time.Hour

	priceNamespace = "price"
)

// Config holds the connection settings.
type Config struct {
	Address        string
	Password       string
	DB             int
	KeyPrefix      string
	ConnectTimeout time.Duration
}

// Store implements domain.PriceCache on Valkey.
type Store struct {
	client valkeylib.Client
	prefix string
	log    zerolog.Logger
}

// Dial connects to Valkey and verifies the connection with a ping.
// The caller must Close the returned store.
func Dial(cfg Config, log zerolog.Logger) (*Store, error) {
	opts := valkeylib.ClientOption{
		InitAddress: []string{cfg.Address},
		SelectDB:    cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	client, err := valkeylib.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = DefaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey (timeout: %v): %w", timeout, err)
	}

	return New(client, cfg.KeyPrefix, log), nil
}

// New wraps an existing client.
func New(client valkeylib.Client, keyPrefix string, log zerolog.Logger) *Store {
	return &Store{
		client: client,
		prefix: keyPrefix,
		log:    log.With().Str("component", "valkeycache").Logger(),
	}
}

// Key returns the Valkey key for a lookup, e.g. "airfare:price:JFK-LAX-2024-01-01-2024-01-08".
func (s *Store) Key(key domain.LookupKey) string {
	return buildKey(s.prefix, priceNamespace, key.String())
}

// Get returns the cached price, or ok=false on a Valkey nil reply.
func (s *Store) Get(ctx context.Context, key domain.LookupKey) (float64, bool, error) {
	cmd := s.client.B().Get().Key(s.Key(key)).Build()

	raw, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkeylib.IsValkeyNil(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get cached price: %w", err)
	}

	price, err := decodePrice(raw)
	if err != nil {
		return 0, false, err
	}
	return price, true, nil
}

// Set stores price under key with a server-side expiry of ttl.
func (s *Store) Set(ctx context.Context, key domain.LookupKey, price float64, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	cmd := s.client.B().Set().
		Key(s.Key(key)).
		Value(encodePrice(price)).
		Ex(ttl).
		Build()

	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set cached price: %w", err)
	}
	s.log.Debug().Str("key", key.String()).Float64("price", price).Dur("ttl", ttl).Msg("Cached price")
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

// Close releases the connection.
func (s *Store) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func buildKey(prefix string, parts ...string) string {
	prefix = strings.TrimSuffix(prefix, ":")
	if prefix == "" {
		return strings.Join(parts, ":")
	}
	return prefix + ":" + strings.Join(parts, ":")
}

func encodePrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func decodePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("decode cached price %q: %w", raw, err)
	}
	return price, nil
}

var _ domain.PriceCache = (*Store)(nil)
