package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one trial-balance row: the period totals of a single account.
type LedgerEntry struct {
	Account string
	Label   string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// Net returns debit minus credit.
func (e LedgerEntry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// Snapshot is the immutable set of ledger entries for one fiscal period, ordered by account.
type Snapshot struct {
	period  string
	entries []LedgerEntry
}

// NewSnapshot copies and sorts entries. The caller keeps ownership of the input slice.
func NewSnapshot(period string, entries []LedgerEntry) *Snapshot {
	sorted := make([]LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Account < sorted[j].Account
	})
	return &Snapshot{period: period, entries: sorted}
}

// Period returns the fiscal period label, e.g. "2024".
func (s *Snapshot) Period() string {
	return s.period
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// At returns the i-th entry in account order.
func (s *Snapshot) At(i int) LedgerEntry {
	return s.entries[i]
}

// Entries returns a copy of all entries.
func (s *Snapshot) Entries() []LedgerEntry {
	out := make([]LedgerEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Totals returns the sum of debits and credits across the snapshot.
func (s *Snapshot) Totals() (debit, credit decimal.Decimal) {
	for _, e := range s.entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}
