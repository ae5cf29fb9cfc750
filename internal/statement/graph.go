package statement

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/liasse/internal/aggregate"
	"github.com/cleared-dev/liasse/internal/model"
)

// Values maps every line ref of a schema to its value. Header leaves are null.
type Values map[string]decimal.NullDecimal

// Get returns the value of ref, or zero if it is null or absent.
func (v Values) Get(ref string) decimal.Decimal {
	return v[ref].Decimal
}

// Graph evaluates schemas with a fixed aggregator.
type Graph struct {
	agg aggregate.Aggregator
}

// NewGraph returns a Graph that reduces leaves with agg.
func NewGraph(agg aggregate.Aggregator) *Graph {
	return &Graph{agg: agg}
}

// Evaluate computes every line of schema against snap. Leaves are aggregated
// first, then derived lines are summed in topological order with null
// children counting as zero.
func (g *Graph) Evaluate(snap *model.Snapshot, schema *Schema) Values {
	values := make(Values, schema.Len())

	for _, leaf := range schema.Leaves() {
		values[leaf.Ref] = g.agg.EvaluateLeaf(snap, leaf)
	}

	for _, idx := range schema.order {
		d, ok := schema.lines[idx].(model.Derived)
		if !ok {
			continue
		}
		sum := decimal.Zero
		for _, child := range d.Children {
			sum = sum.Add(values[child].Decimal)
		}
		values[d.Ref] = decimal.NewNullDecimal(sum)
	}
	return values
}
