package engine

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/liasse/internal/accounts"
	"github.com/cleared-dev/liasse/internal/coherence"
	"github.com/cleared-dev/liasse/internal/logging"
	"github.com/cleared-dev/liasse/internal/model"
	"github.com/cleared-dev/liasse/internal/statement"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(acct, debit, credit string) model.LedgerEntry {
	return model.LedgerEntry{Account: acct, Debit: dec(debit), Credit: dec(credit)}
}

func current() *model.Snapshot {
	return model.NewSnapshot("2024", []model.LedgerEntry{
		entry("101", "0", "1000"),
		entry("162", "0", "400"),
		entry("244", "600", "0"),
		entry("2844", "0", "100"),
		entry("311", "150", "0"),
		entry("401", "0", "300"),
		entry("411", "500", "0"),
		entry("521", "1050", "0"),
		entry("601", "300", "0"),
		entry("681", "100", "0"),
		entry("701", "0", "900"),
	})
}

func prior() *model.Snapshot {
	return model.NewSnapshot("2023", []model.LedgerEntry{
		entry("101", "0", "1000"),
		entry("521", "1200", "0"),
		entry("601", "100", "0"),
		entry("701", "0", "300"),
	})
}

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	catalog, err := statement.Builtin()
	require.NoError(t, err)
	rules, err := coherence.DefaultRules()
	require.NoError(t, err)
	return New(catalog, rules, opts)
}

func find(t *testing.T, lines []model.ComputedLine, ref string) model.ComputedLine {
	t.Helper()
	for _, l := range lines {
		if l.Ref == ref {
			return l
		}
	}
	t.Fatalf("ref %s not found", ref)
	return model.ComputedLine{}
}

func TestRun_Coherent(t *testing.T) {
	e := newEngine(t, DefaultOptions())
	res, err := e.Run(context.Background(), current(), prior())
	require.NoError(t, err)

	assert.Equal(t, "2024", res.Period)
	assert.Equal(t, "2023", res.PriorPeriod)
	assert.Len(t, res.Names, 5)
	assert.True(t, res.Coherence.OK, "%+v", res.Coherence.Discrepancies)

	income, ok := res.Lines(statement.IncomeStatement)
	require.True(t, ok)
	xi := find(t, income, "XI")
	assert.True(t, dec("500").Equal(xi.Current.Decimal))
	assert.True(t, dec("200").Equal(xi.Prior.Decimal))
	assert.True(t, dec("150").Equal(xi.Variation.Decimal))
}

func TestRun_ReportsMismatch(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New(&buf, "warn", "json"))

	// 99 is not mapped to any line: assets lose 500 that liabilities still carry.
	snap := model.NewSnapshot("2024", []model.LedgerEntry{
		entry("101", "0", "1500"),
		entry("521", "1000", "0"),
		entry("99", "500", "0"),
	})

	e := newEngine(t, DefaultOptions())
	res, err := e.Run(ctx, snap, nil)
	require.NoError(t, err)
	assert.Empty(t, res.PriorPeriod)

	require.False(t, res.Coherence.OK)
	var found bool
	for _, d := range res.Coherence.Discrepancies {
		if d.Description == "Total actif = total passif" {
			found = true
			assert.True(t, dec("500").Equal(d.Delta), "delta %s", d.Delta)
		}
	}
	assert.True(t, found)
	assert.Contains(t, buf.String(), "coherence mismatch")
	assert.Contains(t, buf.String(), `"delta":"500"`)
}

func TestRun_BalancedPostingsAreCoherent(t *testing.T) {
	reg, err := accounts.Default()
	require.NoError(t, err)
	e := newEngine(t, DefaultOptions())
	ctx := logging.WithLogger(context.Background(), logging.Discard())

	for _, a := range reg.All() {
		if a.Class < 1 || a.Class > 8 || a.Code == "101" || len(reg.Children(a.Code)) > 0 {
			continue
		}
		for _, debit := range []bool{true, false} {
			posting, capital := entry(a.Code, "200", "0"), entry("101", "0", "200")
			if !debit {
				posting, capital = entry(a.Code, "0", "200"), entry("101", "200", "0")
			}
			snap := model.NewSnapshot("2024", []model.LedgerEntry{capital, posting})

			res, err := e.Run(ctx, snap, nil)
			require.NoError(t, err)
			assert.True(t, res.Coherence.OK, "%s debit=%t: %+v", a.Code, debit, res.Coherence.Discrepancies)
		}
	}
}

func TestRun_NoPrior(t *testing.T) {
	e := newEngine(t, DefaultOptions())
	res, err := e.Run(context.Background(), current(), nil)
	require.NoError(t, err)
	assert.True(t, res.Coherence.OK)

	for _, name := range res.Names {
		for _, l := range res.Statements[name] {
			assert.False(t, l.Prior.Valid, "%s.%s", name, l.Ref)
			assert.False(t, l.Variation.Valid, "%s.%s", name, l.Ref)
		}
	}
}

func TestRun_SequentialMatchesParallel(t *testing.T) {
	opts := DefaultOptions()
	par, err := newEngine(t, opts).Run(context.Background(), current(), prior())
	require.NoError(t, err)

	opts.Parallel = false
	seq, err := newEngine(t, opts).Run(context.Background(), current(), prior())
	require.NoError(t, err)

	assert.Equal(t, par.Statements, seq.Statements)
	assert.Equal(t, par.Coherence, seq.Coherence)
}

func TestRun_SkipsRulesOutsideCatalog(t *testing.T) {
	s, err := statement.NewSchema("tiny", []model.LineDefinition{
		model.Leaf{Ref: "A", Label: "A", Prefixes: []string{"5"}, Sign: model.SignNet},
	})
	require.NoError(t, err)
	rules, err := coherence.DefaultRules()
	require.NoError(t, err)

	e := New(statement.NewCatalog(s), rules, DefaultOptions())
	ctx := logging.WithLogger(context.Background(), logging.Discard())
	res, err := e.Run(ctx, current(), nil)
	require.NoError(t, err)
	assert.True(t, res.Coherence.OK)
	assert.Empty(t, res.Coherence.Discrepancies)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newEngine(t, DefaultOptions()).Run(ctx, current(), prior())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestStatement_Unknown(t *testing.T) {
	_, err := newEngine(t, DefaultOptions()).Statement(context.Background(), "tafire", current(), nil)
	assert.ErrorIs(t, err, model.ErrUnknownStatement)
}
