// Package batch runs a price-matrix sweep offline and writes the table to a file.
// It reuses the server's sweep but bypasses progress streaming and history.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/flight-search/airfare-matrix/internal/domain"
	"github.com/flight-search/airfare-matrix/internal/export"
	"github.com/flight-search/airfare-matrix/internal/infrastructure/fileutil"
	"github.com/flight-search/airfare-matrix/internal/usecase"
)

// Options are the positional inputs of a batch run.
type Options struct {
	OriginsFile      string
	DestinationsFile string
	DepartureDate    string
	ReturnDate       string
	OutputPath       string
}

// Summary describes a finished run.
type Summary struct {
	OutputPath string
	Format     string
	Origins    int
	Pairs      int
	Priced     int
	Failed     int
	Bytes      int64
	Elapsed    time.Duration
}

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// FormatFor picks the output format from the file extension: ".xlsx" writes a workbook, anything else CSV.
func FormatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// ReadCodes reads one airport code per line. Blank lines and lines starting with '#' are skipped.
func ReadCodes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return parseCodes(f)
}

func parseCodes(r io.Reader) ([]string, error) {
	var codes []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		codes = append(codes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return codes, nil
}

// Runner executes batch sweeps against a PriceLooker.
type Runner struct {
	lookup usecase.PriceLooker
	log    zerolog.Logger
}

// NewRunner creates a Runner.
func NewRunner(lookup usecase.PriceLooker, log zerolog.Logger) *Runner {
	return &Runner{
		lookup: lookup,
		log:    log.With().Str("component", "batch").Logger(),
	}
}

// Run reads the airport lists, sweeps every pair and writes the table to OutputPath.
// The output file is replaced atomically, so a failed run leaves any previous file intact.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()

	origins, err := ReadCodes(opts.OriginsFile)
	if err != nil {
		return nil, fmt.Errorf("read origins: %w", err)
	}
	destinations, err := ReadCodes(opts.DestinationsFile)
	if err != nil {
		return nil, fmt.Errorf("read destinations: %w", err)
	}

	req := domain.SearchRequest{
		Origins:       origins,
		Destinations:  destinations,
		DepartureDate: opts.DepartureDate,
		ReturnDate:    opts.ReturnDate,
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	results, averages, err := usecase.Sweep(ctx, r.lookup, req, func(msg string) {
		r.log.Info().Msg(msg)
	})
	if err != nil {
		return nil, err
	}

	table := export.NewTable(req.Origins, req.Destinations, results, averages)
	format := FormatFor(opts.OutputPath)

	var written int64
	err = fileutil.WriteAtomic(opts.OutputPath, func(w io.Writer) error {
		cw := &countingWriter{w: w}
		var werr error
		if format == FormatXLSX {
			werr = export.WriteXLSX(cw, table)
		} else {
			werr = export.WriteCSV(cw, table)
		}
		written = cw.n
		return werr
	})
	if err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	summary := &Summary{
		OutputPath: opts.OutputPath,
		Format:     format,
		Origins:    len(table.Origins),
		Pairs:      req.TotalPairs(),
		Bytes:      written,
		Elapsed:    time.Since(start),
	}
	for _, row := range results {
		for _, cell := range row {
			switch {
			case cell.Failed():
				summary.Failed++
			case cell.HasPrice():
				summary.Priced++
			}
		}
	}
	return summary, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
