// Package aggregate reduces ledger entries to statement line values by account prefix.
package aggregate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/liasse/internal/model"
)

// DefaultPrecision rounds to whole currency units.
const DefaultPrecision int32 = 0

// Aggregator evaluates leaf lines against a snapshot. The zero value rounds to whole units.
type Aggregator struct {
	precision int32
}

// New returns an Aggregator rounding results to precision decimal places.
func New(precision int32) Aggregator {
	return Aggregator{precision: precision}
}

// Precision returns the rounding precision.
func (a Aggregator) Precision() int32 {
	return a.precision
}

// EvaluateLeaf sums the entries whose account starts with one of leaf.Prefixes,
// reduced according to leaf.Sign. A leaf without prefixes yields null.
// An entry matching several prefixes counts once.
func (a Aggregator) EvaluateLeaf(snap *model.Snapshot, leaf model.Leaf) decimal.NullDecimal {
	if len(leaf.Prefixes) == 0 {
		return decimal.NullDecimal{}
	}

	sum := decimal.Zero
	for i := 0; i < snap.Len(); i++ {
		e := snap.At(i)
		if !matchesAny(e.Account, leaf.Prefixes) {
			continue
		}
		sum = sum.Add(reduce(e, leaf.Sign))
	}
	if leaf.Negate {
		sum = sum.Neg()
	}
	return decimal.NewNullDecimal(sum.Round(a.precision))
}

func reduce(e model.LedgerEntry, sign model.Sign) decimal.Decimal {
	switch sign {
	case model.SignCreditPositive:
		return clamp(e.Credit.Sub(e.Debit))
	case model.SignDebitPositive:
		return clamp(e.Debit.Sub(e.Credit))
	default:
		return e.Net()
	}
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func matchesAny(code string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// PrefixIndex reports whether any known account starts with a prefix.
// *accounts.Registry satisfies it.
type PrefixIndex interface {
	HasPrefix(prefix string) bool
}

// UnknownPrefixes lists the prefixes of leaf that match no account in idx.
// Such prefixes are not an error; the leaf just aggregates over fewer entries.
func UnknownPrefixes(leaf model.Leaf, idx PrefixIndex) []string {
	var unknown []string
	for _, p := range leaf.Prefixes {
		if !idx.HasPrefix(p) {
			unknown = append(unknown, p)
		}
	}
	return unknown
}
