package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/flight-search/airfare-matrix/internal/domain"
)

// Progress messages published during a sweep.
const (
	searchingFormat  = "Searching flights from %s to %s..."
	progressFormat   = "Progress: %d%%"
	MessageCompleted = "Search completed"
)

// MatrixSearchUseCase defines the interface for price-matrix searches.
type MatrixSearchUseCase interface {
	// RunSearch prices every origin/destination pair, publishes progress,
	// saves the completed search to history and returns it.
	RunSearch(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
}

type matrixSearchUseCase struct {
	lookup    PriceLooker
	publisher domain.ProgressPublisher
	history   domain.HistoryStore
	log       zerolog.Logger
}

// NewMatrixSearchUseCase creates a MatrixSearchUseCase.
func NewMatrixSearchUseCase(lookup PriceLooker, publisher domain.ProgressPublisher, history domain.HistoryStore, log zerolog.Logger) MatrixSearchUseCase {
	return &matrixSearchUseCase{
		lookup:    lookup,
		publisher: publisher,
		history:   history,
		log:       log.With().Str("component", "matrix_search").Logger(),
	}
}

// RunSearch implements MatrixSearchUseCase.RunSearch.
// Validation errors are returned before any lookup. A cancelled context stops
// the sweep before the next lookup and nothing is saved.
func (uc *matrixSearchUseCase) RunSearch(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	uc.log.Info().
		Strs("origins", req.Origins).
		Strs("destinations", req.Destinations).
		Str("departure_date", req.DepartureDate).
		Str("return_date", req.ReturnDate).
		Int("pairs", req.TotalPairs()).
		Msg("Search started")

	results, averages, err := Sweep(ctx, uc.lookup, req, uc.publish)
	if err != nil {
		uc.log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("Search abandoned")
		return nil, err
	}
	uc.publish(MessageCompleted)

	// The sweep finished; a client leaving now must not lose the completed search.
	id, err := uc.history.SaveSearch(context.WithoutCancel(ctx), domain.SearchRecord{
		Request:  req,
		Results:  results,
		Averages: averages,
	})
	if err != nil {
		uc.log.Error().Err(err).Msg("Failed to save search history")
		if !errors.Is(err, domain.ErrHistoryPersistence) {
			err = fmt.Errorf("%w: %v", domain.ErrHistoryPersistence, err)
		}
		return nil, err
	}

	uc.log.Info().
		Str("history_id", id).
		Dur("elapsed", time.Since(start)).
		Msg("Search completed")

	return &domain.SearchResult{
		ID:       id,
		Results:  results,
		Averages: averages,
	}, nil
}

func (uc *matrixSearchUseCase) publish(msg string) {
	uc.log.Debug().Str("message", msg).Msg("Progress")
	if uc.publisher != nil {
		uc.publisher.Publish(msg)
	}
}

// Sweep prices the grid destination-major: every origin for the first destination,
// then every origin for the next. onProgress, when set, receives a message before
// and after each lookup. The context is checked before each lookup; on
// cancellation the partial matrix is discarded and the context error returned.
func Sweep(ctx context.Context, lookup PriceLooker, req domain.SearchRequest, onProgress func(string)) (domain.ResultMatrix, domain.AverageRecord, error) {
	if onProgress == nil {
		onProgress = func(string) {}
	}

	results := domain.NewResultMatrix(req.Destinations)
	averages := make(domain.AverageRecord, len(req.Destinations))
	total := req.TotalPairs()
	completed := 0

	for _, destination := range req.Destinations {
		var acc averageAccumulator

		for _, origin := range req.Origins {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}

			onProgress(fmt.Sprintf(searchingFormat, origin, destination))
			result := lookup.Lookup(ctx, origin, destination, req.DepartureDate, req.ReturnDate)
			results.Set(destination, origin, result)
			acc.add(result)

			completed++
			onProgress(fmt.Sprintf(progressFormat, percent(completed, total)))
		}

		averages[destination] = acc.average()
	}

	return results, averages, nil
}

func percent(done, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// averageAccumulator tracks one destination's positive prices and reported durations.
type averageAccumulator struct {
	priceSum      float64
	priceCount    int
	durationSum   time.Duration
	durationCount int
}

func (a *averageAccumulator) add(r domain.PriceResult) {
	if r.HasPrice() {
		a.priceSum += r.Price
		a.priceCount++
	}
	if r.Duration == "" {
		return
	}
	if d, err := parseISODuration(r.Duration); err == nil {
		a.durationSum += d
		a.durationCount++
	}
}

func (a *averageAccumulator) average() domain.DestinationAverage {
	var avg domain.DestinationAverage
	if a.priceCount > 0 {
		avg.Price = a.priceSum / float64(a.priceCount)
	}
	if a.durationCount > 0 {
		avg.Duration = formatDuration(a.durationSum / time.Duration(a.durationCount))
	}
	return avg
}
