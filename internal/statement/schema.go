// Package statement holds validated statement schemas and evaluates them against ledger snapshots.
package statement

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cleared-dev/liasse/internal/model"
)

// Built-in statement names.
const (
	BalanceSheetAssets      = "balance-sheet-assets"
	BalanceSheetLiabilities = "balance-sheet-liabilities"
	IncomeStatement         = "income-statement"
	CashFlow                = "cash-flow"
	FundsFlow               = "funds-flow"

	MinimalBalanceSheetAssets      = "smt-balance-sheet-assets"
	MinimalBalanceSheetLiabilities = "smt-balance-sheet-liabilities"
	MinimalIncomeStatement         = "smt-income-statement"
)

// SchemaError reports why a schema was rejected.
type SchemaError struct {
	Statement string
	Ref       string   // offending line
	Path      []string // cycle path, or [ref, missing child]
	Err       error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "statement %s", e.Statement)
	if e.Ref != "" {
		fmt.Fprintf(&b, ": line %s", e.Ref)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(e.Path, " -> "))
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Schema is an ordered, validated list of line definitions for one statement.
// It is immutable and safe to share across evaluations.
type Schema struct {
	name    string
	version string
	lines   []model.LineDefinition
	byRef   map[string]int
	order   []int // topological: every line after its children
}

// NewSchema validates lines and computes their evaluation order.
// Duplicate refs, unresolved children and cycles are rejected.
func NewSchema(name string, lines []model.LineDefinition) (*Schema, error) {
	s := &Schema{
		name:  name,
		lines: slices.Clone(lines),
		byRef: make(map[string]int, len(lines)),
	}

	for i, l := range s.lines {
		if err := s.checkLine(l); err != nil {
			return nil, err
		}
		if _, dup := s.byRef[l.LineRef()]; dup {
			return nil, &SchemaError{Statement: name, Ref: l.LineRef(), Err: model.ErrDuplicateLineRef}
		}
		s.byRef[l.LineRef()] = i
	}

	for _, l := range s.lines {
		d, ok := l.(model.Derived)
		if !ok {
			continue
		}
		for _, child := range d.Children {
			if _, ok := s.byRef[child]; !ok {
				return nil, &SchemaError{
					Statement: name,
					Ref:       d.Ref,
					Path:      []string{d.Ref, child},
					Err:       model.ErrMissingLineReference,
				}
			}
		}
	}

	order, err := s.sort()
	if err != nil {
		return nil, err
	}
	s.order = order
	return s, nil
}

func (s *Schema) checkLine(l model.LineDefinition) error {
	invalid := func(format string, args ...any) error {
		return &SchemaError{
			Statement: s.name,
			Ref:       l.LineRef(),
			Err:       fmt.Errorf("%w: %s", model.ErrInvalidLine, fmt.Sprintf(format, args...)),
		}
	}

	if l.LineRef() == "" {
		return invalid("empty ref")
	}
	switch l := l.(type) {
	case model.Leaf:
		if len(l.Prefixes) > 0 && !l.Sign.Valid() {
			return invalid("unknown sign %q", l.Sign)
		}
		for _, p := range l.Prefixes {
			if !model.ValidPrefix(p) {
				return invalid("bad account prefix %q", p)
			}
		}
	}
	return nil
}

const (
	unvisited = iota
	visiting
	done
)

// sort is a depth-first post-order walk in declaration order, so independent
// lines keep their relative order.
func (s *Schema) sort() ([]int, error) {
	state := make([]int, len(s.lines))
	order := make([]int, 0, len(s.lines))
	var stack []string

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			ref := s.lines[i].LineRef()
			start := slices.Index(stack, ref)
			path := append(slices.Clone(stack[start:]), ref)
			return &SchemaError{Statement: s.name, Ref: ref, Path: path, Err: model.ErrCycleDetected}
		}

		state[i] = visiting
		stack = append(stack, s.lines[i].LineRef())
		if d, ok := s.lines[i].(model.Derived); ok {
			for _, child := range d.Children {
				if err := visit(s.byRef[child]); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
		order = append(order, i)
		return nil
	}

	for i := range s.lines {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Name returns the statement name, e.g. "income-statement".
func (s *Schema) Name() string { return s.name }

// Version returns the schema artifact version, if any.
func (s *Schema) Version() string { return s.version }

// Len returns the number of lines.
func (s *Schema) Len() int { return len(s.lines) }

// Lines returns the line definitions in declaration order.
func (s *Schema) Lines() []model.LineDefinition {
	return slices.Clone(s.lines)
}

// Line returns the definition of ref.
func (s *Schema) Line(ref string) (model.LineDefinition, bool) {
	i, ok := s.byRef[ref]
	if !ok {
		return nil, false
	}
	return s.lines[i], true
}

// Order returns refs in evaluation order: children always precede their parents.
func (s *Schema) Order() []string {
	refs := make([]string, len(s.order))
	for i, idx := range s.order {
		refs[i] = s.lines[idx].LineRef()
	}
	return refs
}

// Leaves returns the leaf lines in declaration order.
func (s *Schema) Leaves() []model.Leaf {
	var leaves []model.Leaf
	for _, l := range s.lines {
		if leaf, ok := l.(model.Leaf); ok {
			leaves = append(leaves, leaf)
		}
	}
	return leaves
}
