// Package main is the entry point for the airfare matrix service.
//
//	@title						Airfare Matrix API
//	@version					1.0.0
//	@description				Aggregates round-trip fares across a matrix of origin and destination airports, streams search progress and keeps a bounded search history.
//
//	@contact.name				API Support
//	@contact.url				https://github.com/flight-search/airfare-matrix/issues
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:3000
//	@BasePath					/api/v1
//
//	@schemes					http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Import generated docs for swagger
	_ "github.com/flight-search/airfare-matrix/docs"

	"github.com/flight-search/airfare-matrix/internal/adapter/cache/filecache"
	"github.com/flight-search/airfare-matrix/internal/adapter/cache/valkeycache"
	"github.com/flight-search/airfare-matrix/internal/adapter/history/filestore"
	"github.com/flight-search/airfare-matrix/internal/adapter/history/sqlstore"
	matrixhttp "github.com/flight-search/airfare-matrix/internal/adapter/http"
	"github.com/flight-search/airfare-matrix/internal/adapter/http/middleware"
	"github.com/flight-search/airfare-matrix/internal/adapter/provider/amadeus"
	"github.com/flight-search/airfare-matrix/internal/config"
	"github.com/flight-search/airfare-matrix/internal/domain"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/broadcast"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/logger"
	"github.com/flight-search/airfare-matrix/internal/usecase"
)

const (
	shutdownTimeout = 10 * time.Second
	serviceName     = "airfare-matrix"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	log := setupLogger(cfg)
	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("cache_backend", cfg.Cache.Backend).
		Str("history_backend", cfg.History.Backend).
		Msg("Configuration loaded")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	cache, closeCache, err := newPriceCache(cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	history, closeHistory, err := newHistoryStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeHistory()

	if !cfg.HasProviderCredentials() {
		log.Warn().Msg("AMADEUS_API_KEY / AMADEUS_API_SECRET not set; every lookup will report missing credentials")
	}
	provider := amadeus.NewAdapter(amadeus.Config{
		BaseURL:   cfg.Provider.BaseURL,
		APIKey:    cfg.Provider.APIKey,
		APISecret: cfg.Provider.APISecret,
		Timeout:   cfg.Provider.Timeout,
	}, log)

	progress := broadcast.New(cfg.Stream.Buffer, log)

	lookup := usecase.NewPriceLookup(provider, cache, &usecase.LookupConfig{
		CacheTTL:        cfg.Cache.TTL,
		ProviderTimeout: cfg.Provider.Timeout,
	}, log)
	searchUseCase := usecase.NewMatrixSearchUseCase(lookup, progress, history, log)

	handler := matrixhttp.NewSearchHandler(searchUseCase, history, progress, &matrixhttp.HandlerConfig{
		Keepalive: cfg.Stream.Keepalive,
	}, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupWithConfig(e, log, middleware.RecoveryConfig{
		DisablePrintStack: cfg.IsProduction(),
	})
	matrixhttp.RegisterRoutes(e, handler)
	matrixhttp.RegisterStatic(e, cfg.Server.PublicDir)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return waitForShutdown(e, progress, errCh, log)
}

// setupLogger builds the service logger from config and installs it globally.
func setupLogger(cfg *config.Config) zerolog.Logger {
	l := logger.New(logger.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		EnableCaller: cfg.IsDevelopment(),
		ServiceName:  serviceName,
	})
	logger.SetGlobal(l)
	return l
}

// newPriceCache selects the cache backend. The returned func releases it.
func newPriceCache(cfg *config.Config, log zerolog.Logger) (domain.PriceCache, func(), error) {
	switch cfg.Cache.Backend {
	case config.BackendValkey:
		store, err := valkeycache.Dial(valkeycache.Config{
			Address:   cfg.Valkey.Address,
			Password:  cfg.Valkey.Password,
			DB:        cfg.Valkey.DB,
			KeyPrefix: cfg.Valkey.KeyPrefix,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect price cache: %w", err)
		}
		return store, store.Close, nil
	default:
		return filecache.New(cfg.Cache.File, log), func() {}, nil
	}
}

// newHistoryStore selects the history backend. The returned func releases it.
func newHistoryStore(cfg *config.Config, log zerolog.Logger) (domain.HistoryStore, func(), error) {
	switch cfg.History.Backend {
	case config.BackendSQLite:
		store, err := sqlstore.Open(cfg.History.SQLitePath, log, sqlstore.WithMaxEntries(cfg.History.MaxEntries))
		if err != nil {
			return nil, nil, fmt.Errorf("open history: %w", err)
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing history database")
			}
		}, nil
	default:
		store, err := filestore.New(cfg.History.Dir, log, filestore.WithMaxEntries(cfg.History.MaxEntries))
		if err != nil {
			return nil, nil, fmt.Errorf("open history: %w", err)
		}
		return store, func() {}, nil
	}
}

// waitForShutdown blocks until an interrupt signal or a server error, then shuts down.
// Progress streams are closed first so that Shutdown does not wait on them.
func waitForShutdown(e *echo.Echo, progress *broadcast.Broadcaster, errCh <-chan error, log zerolog.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		progress.Close()
		return fmt.Errorf("start server: %w", err)
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")
	progress.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
	return nil
}
