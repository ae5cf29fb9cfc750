// Package engine produces every statement for a period pair and checks them against each other.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/liasse/internal/aggregate"
	"github.com/cleared-dev/liasse/internal/coherence"
	"github.com/cleared-dev/liasse/internal/compare"
	"github.com/cleared-dev/liasse/internal/logging"
	"github.com/cleared-dev/liasse/internal/model"
	"github.com/cleared-dev/liasse/internal/statement"
)

// Options tunes evaluation.
type Options struct {
	Precision          int32
	VariationPrecision int32
	Epsilon            decimal.Decimal
	Parallel           bool // evaluate statements concurrently
}

// DefaultOptions rounds to whole units, variations to two decimals, and tolerates one unit.
func DefaultOptions() Options {
	return Options{
		Precision:          aggregate.DefaultPrecision,
		VariationPrecision: compare.DefaultVariationPrecision,
		Epsilon:            coherence.DefaultEpsilon,
		Parallel:           true,
	}
}

// Engine evaluates the schemas of a catalog and runs the coherence rules over them.
type Engine struct {
	catalog    *statement.Catalog
	rules      []coherence.Rule
	comparator *compare.Comparator
	validator  *coherence.Validator
	parallel   bool
}

// New returns an Engine.
func New(catalog *statement.Catalog, rules []coherence.Rule, opts Options) *Engine {
	graph := statement.NewGraph(aggregate.New(opts.Precision))
	return &Engine{
		catalog:    catalog,
		rules:      rules,
		comparator: compare.New(graph, opts.VariationPrecision),
		validator:  coherence.New(opts.Epsilon),
		parallel:   opts.Parallel,
	}
}

// Result is one complete run.
type Result struct {
	Period      string
	PriorPeriod string // empty when no prior snapshot was supplied
	Names       []string
	Statements  map[string][]model.ComputedLine
	Coherence   model.ValidationResult
}

// Lines returns the computed lines of the named statement.
func (r *Result) Lines(name string) ([]model.ComputedLine, bool) {
	lines, ok := r.Statements[name]
	return lines, ok
}

// Statement evaluates a single statement.
func (e *Engine) Statement(ctx context.Context, name string, current, prior *model.Snapshot) ([]model.ComputedLine, error) {
	schema, err := e.catalog.Get(name)
	if err != nil {
		return nil, err
	}
	return e.comparator.Compare(ctx, schema, current, prior)
}

// Run evaluates every statement of the catalog, then the coherence rules for
// the current period and, when prior is set, the prior period. Any evaluation
// error aborts the run and no statement is returned. Coherence mismatches are
// reported in the result and logged, never returned as errors.
func (e *Engine) Run(ctx context.Context, current, prior *model.Snapshot) (*Result, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	names := e.catalog.Names()
	computed := make([][]model.ComputedLine, len(names))

	g, gctx := errgroup.WithContext(ctx)
	if !e.parallel {
		g.SetLimit(1)
	}
	for i, name := range names {
		g.Go(func() error {
			lines, err := e.Statement(gctx, name, current, prior)
			if err != nil {
				return fmt.Errorf("statement %s: %w", name, err)
			}
			computed[i] = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Period:     current.Period(),
		Names:      names,
		Statements: make(map[string][]model.ComputedLine, len(names)),
	}
	for i, name := range names {
		res.Statements[name] = computed[i]
	}
	if prior != nil {
		res.PriorPeriod = prior.Period()
	}
	log.Debug("statements evaluated", slog.Int("count", len(names)), slog.Duration("elapsed", time.Since(start)))

	checks := e.resolve(log, res.Statements, coherence.Current)
	if prior != nil {
		checks = append(checks, e.resolve(log, res.Statements, coherence.Prior)...)
	}
	res.Coherence = e.validator.Validate(checks)
	for _, d := range res.Coherence.Discrepancies {
		log.Warn("coherence mismatch",
			slog.String("check", d.Description),
			slog.String("expected", d.Expected.String()),
			slog.String("actual", d.Actual.String()),
			slog.String("delta", d.Delta.String()))
	}
	return res, nil
}

// resolve skips rules that do not fit the catalog, such as a rule naming a
// statement replaced by a custom schema without that line.
func (e *Engine) resolve(log *slog.Logger, statements map[string][]model.ComputedLine, p coherence.Period) []coherence.Check {
	var checks []coherence.Check
	for _, r := range e.rules {
		c, err := coherence.Resolve([]coherence.Rule{r}, statements, p)
		if err != nil {
			log.Warn("coherence rule skipped", slog.String("rule", r.Label), slog.String("period", p.String()), slog.Any("error", err))
			continue
		}
		checks = append(checks, c...)
	}
	return checks
}
