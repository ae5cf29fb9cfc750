package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/liasse/internal/model"
)

// Header is the CSV header for a trial balance file.
const Header = "account,label,debit,credit"

const (
	numFields = 4
	colAcct   = 0
	colLabel  = 1
	colDebit  = 2
	colCredit = 3
)

// ReadEntries reads all trial-balance rows. Codes are normalized but not validated; see Build.
func ReadEntries(r io.Reader) ([]model.LedgerEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading trial balance CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []model.LedgerEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries to w (including header).
func WriteEntries(w io.Writer, entries []model.LedgerEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts an entry to a CSV row. Zero amounts are left blank.
func MarshalEntry(e model.LedgerEntry) []string {
	row := make([]string, numFields)
	row[colAcct] = e.Account
	row[colLabel] = e.Label
	if !e.Debit.IsZero() {
		row[colDebit] = e.Debit.String()
	}
	if !e.Credit.IsZero() {
		row[colCredit] = e.Credit.String()
	}
	return row
}

// UnmarshalEntry converts a CSV row to an entry.
func UnmarshalEntry(record []string) (model.LedgerEntry, error) {
	if len(record) != numFields {
		return model.LedgerEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	debit, err := parseAmount(record[colDebit])
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
	}
	credit, err := parseAmount(record[colCredit])
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
	}

	return model.LedgerEntry{
		Account: model.NormalizeCode(record[colAcct]),
		Label:   strings.TrimSpace(record[colLabel]),
		Debit:   debit,
		Credit:  credit,
	}, nil
}

// parseAmount accepts blanks as zero and tolerates thousands separated by spaces ("1 250 000").
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
