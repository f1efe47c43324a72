package export

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the matrix.
const SheetName = "Flight Results"

// XLSXContentType is the media type of a workbook download.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// defaultFileStem names an export whose trip name has no usable characters.
const defaultFileStem = "flight-results"

const (
	columnWidth = 20
	priceFormat = `"$"#,##0.00`
)

// WriteXLSX writes the table as a workbook with a single "Flight Results" sheet.
// Row 1 holds destinations, then one row per origin, then an "Average" row and
// an "Avg Duration" row.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	priceFmt := priceFormat
	priceStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &priceFmt})
	if err != nil {
		return fmt.Errorf("create price style: %w", err)
	}

	header := make([]interface{}, 0, len(t.Destinations)+1)
	header = append(header, HeaderCorner)
	for _, d := range t.Destinations {
		header = append(header, d)
	}
	if err := setRow(f, 1, header, 0); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", cellName(len(header), 1), headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	row := 2
	for _, origin := range t.Origins {
		values := make([]interface{}, 0, len(t.Destinations)+1)
		values = append(values, origin)
		for _, dest := range t.Destinations {
			cell := t.Cell(origin, dest)
			if cell.HasPrice() {
				values = append(values, cell.Price)
			} else {
				values = append(values, NoFlight)
			}
		}
		if err := setRow(f, row, values, priceStyle); err != nil {
			return err
		}
		row++
	}

	avgPrices := []interface{}{"Average"}
	avgDurations := []interface{}{"Avg Duration"}
	for _, dest := range t.Destinations {
		avg := t.Averages[dest]
		avgPrices = append(avgPrices, avg.Price)
		duration := avg.Duration
		if duration == "" {
			duration = "N/A"
		}
		avgDurations = append(avgDurations, duration)
	}
	if err := setRow(f, row, avgPrices, priceStyle); err != nil {
		return err
	}
	if err := setRow(f, row+1, avgDurations, 0); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, cellName(1, row), cellName(1, row+1), headerStyle); err != nil {
		return fmt.Errorf("style average labels: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(t.Destinations) + 1)
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, columnWidth); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []interface{}, style int) error {
	start := cellName(1, row)
	if err := f.SetSheetRow(SheetName, start, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	if style != 0 && len(values) > 1 {
		if err := f.SetCellStyle(SheetName, cellName(2, row), cellName(len(values), row), style); err != nil {
			return fmt.Errorf("style row %d: %w", row, err)
		}
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// FileName derives a download name such as "Summer_trip.xlsx" from a trip name.
// Anything other than letters, digits, '-' and '_' becomes '_'.
func FileName(tripName string) string {
	stem := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, strings.TrimSpace(tripName))
	if strings.Trim(stem, "_") == "" {
		stem = defaultFileStem
	}
	return stem + ".xlsx"
}
