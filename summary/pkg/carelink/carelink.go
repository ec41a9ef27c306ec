// Package carelink reads Medtronic CareLink CSV exports. Exports are stored newest first;
// everything returned here is in chronological order.
package carelink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"ichor/summary/defs"
)

const (
	DateColumn    = "Date"
	TimeColumn    = "Time"
	GlucoseColumn = "Sensor Glucose (mg/dL)"
	AlarmColumn   = "Alarm"
)

var ErrMissingHeader = errors.New("missing header")

// LoadCGM reads sensor glucose readings from the CGM export at path.
func LoadCGM(path string, layouts []string) ([]defs.Reading, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open cgm data: %w", err)
	}
	defer file.Close()

	trs, err := ReadCGM(file, layouts)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return trs, nil
}

// LoadInsulin reads pump events from the insulin export at path.
func LoadInsulin(path string, layouts []string) ([]defs.InsulinEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open insulin data: %w", err)
	}
	defer file.Close()

	ins, err := ReadInsulin(file, layouts)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return ins, nil
}

func ReadCGM(r io.Reader, layouts []string) ([]defs.Reading, error) {
	var trs []defs.Reading
	err := readRows(r, []string{DateColumn, TimeColumn, GlucoseColumn}, func(line int, fields []string) error {
		ts, err := parseTime(fields[0], fields[1], layouts)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		tr := defs.Reading{Time: ts}
		if value := strings.TrimSpace(fields[2]); value == "" {
			tr.Missing = true
		} else if tr.Mgdl, err = strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("line %d: unable to parse glucose: %w", line, err)
		}

		trs = append(trs, tr)
		return nil
	})
	if err != nil {
		return nil, err
	}

	reversed := make([]defs.Reading, len(trs))
	for i, tr := range trs {
		reversed[len(trs)-i-1] = tr
	}
	return reversed, nil
}

func ReadInsulin(r io.Reader, layouts []string) ([]defs.InsulinEvent, error) {
	var ins []defs.InsulinEvent
	err := readRows(r, []string{DateColumn, TimeColumn, AlarmColumn}, func(line int, fields []string) error {
		ts, err := parseTime(fields[0], fields[1], layouts)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		ins = append(ins, defs.InsulinEvent{Time: ts, Alarm: strings.TrimSpace(fields[2])})
		return nil
	})
	if err != nil {
		return nil, err
	}

	reversed := make([]defs.InsulinEvent, len(ins))
	for i, in := range ins {
		reversed[len(ins)-i-1] = in
	}
	return reversed, nil
}

// readRows calls fn with the named columns of every record after the header. The header is
// the first record holding all of the named columns.
func readRows(r io.Reader, columns []string, fn func(line int, fields []string) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var index []int
	fields := make([]string, len(columns))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("unable to read csv record: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if index == nil {
			index = headerIndex(record, columns)
			continue
		}

		for i, col := range index {
			if col < len(record) {
				fields[i] = record[col]
			} else {
				fields[i] = ""
			}
		}
		if err := fn(line, fields); err != nil {
			return err
		}
	}

	if index == nil {
		return fmt.Errorf("%w: expected columns %q", ErrMissingHeader, columns)
	}
	return nil
}

func headerIndex(record []string, columns []string) []int {
	positions := make(map[string]int, len(record))
	for i, name := range record {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := positions[name]; !ok {
			positions[name] = i
		}
	}

	index := make([]int, len(columns))
	for i, col := range columns {
		pos, ok := positions[col]
		if !ok {
			return nil
		}
		index[i] = pos
	}
	return index
}

func parseTime(date, clock string, layouts []string) (time.Time, error) {
	value := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp %q", value)
}
