// Package compare evaluates a statement for the current and prior periods and pairs the results.
package compare

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/liasse/internal/model"
	"github.com/cleared-dev/liasse/internal/statement"
)

// DefaultVariationPrecision keeps two decimals on variation percentages.
const DefaultVariationPrecision int32 = 2

var hundred = decimal.NewFromInt(100)

// Comparator runs a graph over two snapshots.
type Comparator struct {
	graph              *statement.Graph
	variationPrecision int32
}

// New returns a Comparator rounding variations to variationPrecision decimals.
func New(graph *statement.Graph, variationPrecision int32) *Comparator {
	return &Comparator{graph: graph, variationPrecision: variationPrecision}
}

// Compare evaluates schema against current and prior, in parallel, and returns
// one line per definition in declaration order. A nil prior yields null priors
// and null variations throughout.
func (c *Comparator) Compare(ctx context.Context, schema *statement.Schema, current, prior *model.Snapshot) ([]model.ComputedLine, error) {
	var cur, prev statement.Values

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cur = c.graph.Evaluate(current, schema)
		return ctx.Err()
	})
	if prior != nil {
		g.Go(func() error {
			prev = c.graph.Evaluate(prior, schema)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lines := schema.Lines()
	out := make([]model.ComputedLine, len(lines))
	for i, l := range lines {
		ref := l.LineRef()
		cl := model.ComputedLine{Ref: ref, Label: l.LineLabel(), Current: cur[ref]}
		if prev != nil {
			cl.Prior = prev[ref]
		}
		cl.Variation = VariationPercent(cl.Current, cl.Prior, c.variationPrecision)
		out[i] = cl
	}
	return out, nil
}

// VariationPercent returns (n - n1) / |n1| * 100 rounded to precision.
// The result is null when either operand is null or n1 is zero.
func VariationPercent(n, n1 decimal.NullDecimal, precision int32) decimal.NullDecimal {
	if !n.Valid || !n1.Valid || n1.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(n.Decimal.Sub(n1.Decimal).Mul(hundred).DivRound(n1.Decimal.Abs(), precision))
}
