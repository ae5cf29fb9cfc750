package ledger

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/liasse/internal/model"
)

// ValidationError describes one rejected trial-balance row.
type ValidationError struct {
	Row         int // 1-based position in the input
	Account     string
	Description string
	Err         error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("row %d [%s]: %s", e.Row, e.Account, e.Description)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// Options controls snapshot construction.
type Options struct {
	// MergeDuplicates sums rows that share an account instead of rejecting them.
	MergeDuplicates bool
}

// Validate checks entries for malformed codes, negative totals and duplicate accounts.
func Validate(entries []model.LedgerEntry, opts Options) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)

	for i, e := range entries {
		row := i + 1
		code := model.NormalizeCode(e.Account)

		if !model.ValidCode(code) {
			errs = append(errs, ValidationError{
				Row:         row,
				Account:     e.Account,
				Description: "account code must be 2 to 6 digits",
				Err:         model.ErrInvalidAccountCode,
			})
		}
		if e.Debit.IsNegative() {
			errs = append(errs, ValidationError{
				Row:         row,
				Account:     e.Account,
				Description: fmt.Sprintf("debit total %s is negative", e.Debit),
				Err:         model.ErrNegativeAmount,
			})
		}
		if e.Credit.IsNegative() {
			errs = append(errs, ValidationError{
				Row:         row,
				Account:     e.Account,
				Description: fmt.Sprintf("credit total %s is negative", e.Credit),
				Err:         model.ErrNegativeAmount,
			})
		}

		if first, dup := seen[code]; dup && !opts.MergeDuplicates {
			errs = append(errs, ValidationError{
				Row:         row,
				Account:     e.Account,
				Description: fmt.Sprintf("account already present on row %d", first),
				Err:         model.ErrDuplicateAccount,
			})
		} else if !dup {
			seen[code] = row
		}
	}
	return errs
}

// Build validates entries and returns the snapshot for period.
// All validation failures are joined into the returned error.
func Build(period string, entries []model.LedgerEntry, opts Options) (*model.Snapshot, error) {
	if verrs := Validate(entries, opts); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, v := range verrs {
			errs[i] = v
		}
		return nil, fmt.Errorf("ledger %s: %w", period, errors.Join(errs...))
	}

	normalized := make([]model.LedgerEntry, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		e.Account = model.NormalizeCode(e.Account)
		if i, ok := index[e.Account]; ok {
			merged := &normalized[i]
			merged.Debit = merged.Debit.Add(e.Debit)
			merged.Credit = merged.Credit.Add(e.Credit)
			continue
		}
		index[e.Account] = len(normalized)
		normalized = append(normalized, e)
	}
	return model.NewSnapshot(period, normalized), nil
}
