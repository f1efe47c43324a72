package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes the header "Origin/Destination,<destinations...>" followed by
// one row per origin with prices to two decimals. Missing prices are written as 0.00.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	header := append([]string{HeaderCorner}, t.Destinations...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, origin := range t.Origins {
		row := make([]string, 0, len(t.Destinations)+1)
		row = append(row, origin)
		for _, dest := range t.Destinations {
			row = append(row, strconv.FormatFloat(t.Cell(origin, dest).Price, 'f', 2, 64))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", origin, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
