// Package coherence checks cross-statement equalities within a tolerance.
package coherence

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/liasse/internal/model"
)

// DefaultEpsilon tolerates one currency unit of rounding drift.
var DefaultEpsilon = decimal.NewFromInt(1)

// Check is one expected/actual pair.
type Check struct {
	Label    string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

// Validator compares checks against a fixed tolerance.
type Validator struct {
	epsilon decimal.Decimal
}

// New returns a Validator. A negative epsilon is treated as zero.
func New(epsilon decimal.Decimal) *Validator {
	if epsilon.IsNegative() {
		epsilon = decimal.Zero
	}
	return &Validator{epsilon: epsilon}
}

// Epsilon returns the tolerance.
func (v *Validator) Epsilon() decimal.Decimal {
	return v.epsilon
}

// Validate passes a check when |expected - actual| <= epsilon.
// Failing checks are reported in input order with delta = actual - expected.
func (v *Validator) Validate(checks []Check) model.ValidationResult {
	res := model.ValidationResult{OK: true}
	for _, c := range checks {
		delta := c.Actual.Sub(c.Expected)
		if delta.Abs().LessThanOrEqual(v.epsilon) {
			continue
		}
		res.OK = false
		res.Discrepancies = append(res.Discrepancies, model.Discrepancy{
			Description: c.Label,
			Expected:    c.Expected,
			Actual:      c.Actual,
			Delta:       delta,
		})
	}
	return res
}
