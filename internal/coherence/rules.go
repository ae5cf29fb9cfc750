package coherence

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/liasse/internal/model"
)

//go:embed rules.yaml
var defaultRules []byte

//go:embed rules-smt.yaml
var minimalRules []byte

// Rule declares a check between two statement lines, each written "statement.REF".
type Rule struct {
	Label    string `yaml:"label"`
	Expected string `yaml:"expected"`
	Actual   string `yaml:"actual"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// Period selects which column of the computed lines a rule reads.
type Period int

const (
	Current Period = iota
	Prior
)

func (p Period) String() string {
	if p == Prior {
		return "prior"
	}
	return "current"
}

// ParseRules decodes a rules document and checks every reference is well formed.
func ParseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing coherence rules: %w", err)
	}
	for _, r := range f.Rules {
		for _, ref := range []string{r.Expected, r.Actual} {
			if _, _, err := splitRef(ref); err != nil {
				return nil, fmt.Errorf("rule %q: %w", r.Label, err)
			}
		}
	}
	return f.Rules, nil
}

// DefaultRules returns the built-in SYSCOHADA cross-statement checks.
func DefaultRules() ([]Rule, error) {
	return ParseRules(defaultRules)
}

// RulesFor returns the built-in checks between the statements of sys.
func RulesFor(sys model.System) ([]Rule, error) {
	switch sys {
	case model.SystemNormal:
		return ParseRules(defaultRules)
	case model.SystemMinimal:
		return ParseRules(minimalRules)
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownSystem, sys)
	}
}

func splitRef(s string) (stmt, ref string, err error) {
	stmt, ref, ok := strings.Cut(s, ".")
	if !ok || stmt == "" || ref == "" {
		return "", "", fmt.Errorf("%w: %q is not statement.REF", model.ErrInvalidLine, s)
	}
	return stmt, ref, nil
}

// Resolve turns rules into checks over computed statements keyed by name.
// Rules with a null operand in the chosen period are skipped, which drops
// every prior-period check when no prior snapshot was supplied.
func Resolve(rules []Rule, results map[string][]model.ComputedLine, p Period) ([]Check, error) {
	checks := make([]Check, 0, len(rules))
	for _, r := range rules {
		expected, err := lookup(results, r.Expected, p)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Label, err)
		}
		actual, err := lookup(results, r.Actual, p)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Label, err)
		}
		if !expected.Valid || !actual.Valid {
			continue
		}
		label := r.Label
		if p == Prior {
			label += " (N-1)"
		}
		checks = append(checks, Check{Label: label, Expected: expected.Decimal, Actual: actual.Decimal})
	}
	return checks, nil
}

func lookup(results map[string][]model.ComputedLine, qualified string, p Period) (decimal.NullDecimal, error) {
	stmt, ref, err := splitRef(qualified)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	lines, ok := results[stmt]
	if !ok {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %s", model.ErrUnknownStatement, stmt)
	}
	for _, l := range lines {
		if l.Ref != ref {
			continue
		}
		if p == Prior {
			return l.Prior, nil
		}
		return l.Current, nil
	}
	return decimal.NullDecimal{}, fmt.Errorf("%w: %s", model.ErrMissingLineReference, qualified)
}
