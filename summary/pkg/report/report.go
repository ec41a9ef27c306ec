package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx/v3"
)

// Placeholder fills the trailing column of every row.
const Placeholder = 1.1

const sheetName = "Results"

type Format int

const (
	CSV Format = iota
	XLSX
)

func (f Format) String() string {
	return [...]string{"csv", "xlsx"}[f]
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "csv":
		return CSV, nil
	case "xlsx":
		return XLSX, nil
	default:
		return CSV, fmt.Errorf("unknown report format: %s", s)
	}
}

type Row struct {
	Label  string
	Values []float64
}

type Table struct {
	Rows []Row
}

// NewTable builds the manual and auto rows, each followed by the placeholder column.
func NewTable(manual, auto []float64) Table {
	row := func(label string, values []float64) Row {
		vs := make([]float64, 0, len(values)+1)
		vs = append(vs, values...)
		return Row{Label: label, Values: append(vs, Placeholder)}
	}
	return Table{Rows: []Row{row("Manual", manual), row("Auto", auto)}}
}

// WriteCSV writes the table values without header or labels.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	for _, row := range t.Rows {
		record := make([]string, len(row.Values))
		for i, v := range row.Values {
			record[i] = FormatFloat(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("unable to write row %s: %w", row.Label, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the table values to a single sheet, one row per table row.
func WriteXLSX(w io.Writer, t Table) error {
	file := xlsx.NewFile()
	sh, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("unable to add sheet: %w", err)
	}

	for _, row := range t.Rows {
		r := sh.AddRow()
		for _, v := range row.Values {
			r.AddCell().SetFloat(v)
		}
	}

	return file.Write(w)
}

// Save writes the table to path in the given format. The file is only created once the
// table has been computed, so a failed run leaves no partial output.
func Save(path string, format Format, t Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create report: %w", err)
	}

	switch format {
	case XLSX:
		err = WriteXLSX(file, t)
	default:
		err = WriteCSV(file, t)
	}
	if err != nil {
		file.Close()
		return fmt.Errorf("unable to write report: %w", err)
	}
	return file.Close()
}

// FormatFloat prints the shortest representation that round-trips, the way Python's repr
// does: exponent form below 1e-4 or from 1e16, otherwise decimal with a trailing ".0" on
// whole numbers.
func FormatFloat(v float64) string {
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
