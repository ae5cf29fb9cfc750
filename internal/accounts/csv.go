package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cleared-dev/liasse/internal/model"
)

const (
	numFields     = 7
	colCode       = 0
	colLabel      = 1
	colClass      = 2
	colNature     = 3
	colNormalSide = 4
	colMandatory  = 5
	colSectors    = 6
)

// Header is the CSV header for a chart of accounts file.
const Header = "code,label,class,nature,normal_side,mandatory,sectors"

// ReadAccounts reads a chart of accounts CSV.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes a chart of accounts CSV.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colCode] = acct.Code
	row[colLabel] = acct.Label
	row[colClass] = strconv.Itoa(acct.Class)
	row[colNature] = string(acct.Nature)
	row[colNormalSide] = string(acct.NormalSide)
	row[colMandatory] = strconv.FormatBool(acct.Mandatory)
	row[colSectors] = strings.Join(acct.Sectors, ";")
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	code := model.NormalizeCode(record[colCode])
	if !model.ValidCode(code) {
		return model.Account{}, fmt.Errorf("code %q: %w", record[colCode], model.ErrInvalidAccountCode)
	}

	class, err := strconv.Atoi(record[colClass])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing class %q: %w", record[colClass], err)
	}
	if class != model.ClassOf(code) {
		return model.Account{}, fmt.Errorf("class %d does not match code %s", class, code)
	}

	nature := model.Nature(record[colNature])
	if !nature.Valid() {
		return model.Account{}, fmt.Errorf("unknown nature %q", record[colNature])
	}

	side := model.Side(record[colNormalSide])
	if !side.Valid() {
		return model.Account{}, fmt.Errorf("unknown normal side %q", record[colNormalSide])
	}

	mandatory, err := strconv.ParseBool(record[colMandatory])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing mandatory %q: %w", record[colMandatory], err)
	}

	var sectors []string
	if record[colSectors] != "" {
		sectors = strings.Split(record[colSectors], ";")
	}

	return model.Account{
		Code:       code,
		Label:      record[colLabel],
		Class:      class,
		Nature:     nature,
		NormalSide: side,
		Mandatory:  mandatory,
		Sectors:    sectors,
	}, nil
}
