// Package main is the offline batch entry point: it prices an origin × destination
// grid read from two files and writes the table as CSV or XLSX.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/flight-search/airfare-matrix/internal/adapter/cache/filecache"
	"github.com/flight-search/airfare-matrix/internal/adapter/provider/amadeus"
	"github.com/flight-search/airfare-matrix/internal/batch"
	"github.com/flight-search/airfare-matrix/internal/config"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/logger"
	"github.com/flight-search/airfare-matrix/internal/usecase"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cacheFile string

	cmd := &cobra.Command{
		Use:   "airfare-batch <origins-file> <destinations-file> <departure-date> <return-date> <output>",
		Short: "Price an origin/destination grid and write it as a table",
		Long: `Reads one airport code per line from each list, prices every round trip
for the given dates and writes a table with one row per origin and one
column per destination. An output path ending in .xlsx produces a workbook;
anything else produces CSV.`,
		Args:          cobra.ExactArgs(5),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), batch.Options{
				OriginsFile:      args[0],
				DestinationsFile: args[1],
				DepartureDate:    args[2],
				ReturnDate:       args[3],
				OutputPath:       args[4],
			}, cacheFile)
		},
	}

	cmd.Flags().StringVar(&cacheFile, "cache", "", "persist prices to this JSON file between runs (default: in-memory only)")
	return cmd
}

func runBatch(ctx context.Context, opts batch.Options, cacheFile string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      "console",
		ServiceName: "airfare-batch",
	})

	if !cfg.HasProviderCredentials() {
		log.Warn().Msg("AMADEUS_API_KEY / AMADEUS_API_SECRET not set; every price will be reported as 0")
	}

	cache := filecache.New(cacheFile, log)

	provider := amadeus.NewAdapter(amadeus.Config{
		BaseURL:   cfg.Provider.BaseURL,
		APIKey:    cfg.Provider.APIKey,
		APISecret: cfg.Provider.APISecret,
		Timeout:   cfg.Provider.Timeout,
	}, log)

	lookup := usecase.NewPriceLookup(provider, cache, &usecase.LookupConfig{
		CacheTTL:        cfg.Cache.TTL,
		ProviderTimeout: cfg.Provider.Timeout,
	}, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := batch.NewRunner(lookup, log).Run(ctx, opts)
	if err != nil {
		return err
	}

	printSummary(log, summary)
	return nil
}

func printSummary(log zerolog.Logger, s *batch.Summary) {
	log.Info().
		Str("output", s.OutputPath).
		Str("format", s.Format).
		Str("size", humanize.Bytes(uint64(s.Bytes))).
		Str("elapsed", s.Elapsed.Round(time.Millisecond).String()).
		Msgf("Airfare prices for %s pairs (%s priced, %s failed) have been written to %s",
			humanize.Comma(int64(s.Pairs)),
			humanize.Comma(int64(s.Priced)),
			humanize.Comma(int64(s.Failed)),
			s.OutputPath)
}
