// Package report writes computed statements and coherence results as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/liasse/internal/model"
)

// Header is the CSV header of a statement file.
const Header = "ref,label,current,prior,variation_pct"

// DiscrepancyHeader is the CSV header of a coherence file.
const DiscrepancyHeader = "description,expected,actual,delta"

const (
	numFields    = 5
	colRef       = 0
	colLabel     = 1
	colCurrent   = 2
	colPrior     = 3
	colVariation = 4

	// CoherenceFile is written next to the statement files by WriteDir.
	CoherenceFile = "coherence.csv"
)

// MarshalLine converts a ComputedLine to a CSV row. Null values are left blank.
func MarshalLine(l model.ComputedLine) []string {
	row := make([]string, numFields)
	row[colRef] = l.Ref
	row[colLabel] = l.Label
	row[colCurrent] = formatNull(l.Current)
	row[colPrior] = formatNull(l.Prior)
	row[colVariation] = formatNull(l.Variation)
	return row
}

// UnmarshalLine converts a CSV row to a ComputedLine.
func UnmarshalLine(record []string) (model.ComputedLine, error) {
	if len(record) != numFields {
		return model.ComputedLine{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	l := model.ComputedLine{Ref: record[colRef], Label: record[colLabel]}
	var err error
	if l.Current, err = parseNull(record[colCurrent]); err != nil {
		return model.ComputedLine{}, fmt.Errorf("parsing current %q: %w", record[colCurrent], err)
	}
	if l.Prior, err = parseNull(record[colPrior]); err != nil {
		return model.ComputedLine{}, fmt.Errorf("parsing prior %q: %w", record[colPrior], err)
	}
	if l.Variation, err = parseNull(record[colVariation]); err != nil {
		return model.ComputedLine{}, fmt.Errorf("parsing variation %q: %w", record[colVariation], err)
	}
	return l, nil
}

// WriteLines writes one statement (including header).
func WriteLines(w io.Writer, lines []model.ComputedLine) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, l := range lines {
		if err := cw.Write(MarshalLine(l)); err != nil {
			return fmt.Errorf("writing line %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadLines reads a statement written by WriteLines.
func ReadLines(r io.Reader) ([]model.ComputedLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var lines []model.ComputedLine
	for i, rec := range records[1:] {
		l, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// WriteDiscrepancies writes failed coherence checks (including header).
func WriteDiscrepancies(w io.Writer, ds []model.Discrepancy) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(DiscrepancyHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, d := range ds {
		row := []string{d.Description, d.Expected.String(), d.Actual.String(), d.Delta.String()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing discrepancy %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDir writes <dir>/<statement>.csv for every statement and
// <dir>/coherence.csv for the discrepancies, creating dir if needed.
func WriteDir(dir string, statements map[string][]model.ComputedLine, ds []model.Discrepancy) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}
	for name, lines := range statements {
		if err := writeFile(filepath.Join(dir, name+".csv"), func(w io.Writer) error { return WriteLines(w, lines) }); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	if err := writeFile(filepath.Join(dir, CoherenceFile), func(w io.Writer) error { return WriteDiscrepancies(w, ds) }); err != nil {
		return fmt.Errorf("writing coherence: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func parseNull(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
