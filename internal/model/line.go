package model

import "github.com/shopspring/decimal"

// Sign selects how a leaf line reduces the entries it matched.
type Sign string

const (
	// SignCreditPositive sums max(0, credit-debit) per entry.
	SignCreditPositive Sign = "CREDIT_POSITIVE"
	// SignDebitPositive sums max(0, debit-credit) per entry.
	SignDebitPositive Sign = "DEBIT_POSITIVE"
	// SignNet sums debit-credit without clamping.
	SignNet Sign = "NET"
)

// Valid reports whether s is a known sign convention.
func (s Sign) Valid() bool {
	switch s {
	case SignCreditPositive, SignDebitPositive, SignNet:
		return true
	}
	return false
}

// LineDefinition is either a Leaf or a Derived line. The set is closed.
type LineDefinition interface {
	LineRef() string
	LineLabel() string
	isLine()
}

// Leaf is computed from ledger entries whose account starts with one of Prefixes.
// A leaf without prefixes is a header row and evaluates to null.
type Leaf struct {
	Ref      string
	Label    string
	Prefixes []string
	Sign     Sign
	Negate   bool // flip the reduced sum, for expense or deduction lines
}

func (l Leaf) LineRef() string   { return l.Ref }
func (l Leaf) LineLabel() string { return l.Label }
func (Leaf) isLine()             {}

// Derived is the sum of other lines of the same schema.
type Derived struct {
	Ref      string
	Label    string
	Children []string
}

func (d Derived) LineRef() string   { return d.Ref }
func (d Derived) LineLabel() string { return d.Label }
func (Derived) isLine()             {}

// ComputedLine pairs the current and prior values of a statement line.
type ComputedLine struct {
	Ref       string
	Label     string
	Current   decimal.NullDecimal
	Prior     decimal.NullDecimal
	Variation decimal.NullDecimal // percent
}

// Discrepancy is a failed coherence check.
type Discrepancy struct {
	Description string
	Expected    decimal.Decimal
	Actual      decimal.Decimal
	Delta       decimal.Decimal // actual - expected
}

// ValidationResult is the outcome of a batch of coherence checks.
type ValidationResult struct {
	OK            bool
	Discrepancies []Discrepancy
}
