package statement

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/liasse/internal/model"
)

const miniSchema = `
statement: mini
version: "1"
lines:
  - {ref: TOTAL, label: Total, sum: [A, B]}
  - {ref: A, label: Ventes, accounts: ["70"], sign: CREDIT_POSITIVE}
  - {ref: B, label: Achats, accounts: ["60"], sign: DEBIT_POSITIVE, negate: true}
  - {ref: H, label: Rubrique}
  - {ref: Z, label: Zéro, sum: []}
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(miniSchema))
	require.NoError(t, err)
	assert.Equal(t, "mini", s.Name())
	assert.Equal(t, "1", s.Version())
	require.Equal(t, 5, s.Len())

	total, _ := s.Line("TOTAL")
	assert.Equal(t, model.Derived{Ref: "TOTAL", Label: "Total", Children: []string{"A", "B"}}, total)

	b, _ := s.Line("B")
	assert.Equal(t, model.Leaf{Ref: "B", Label: "Achats", Prefixes: []string{"60"}, Sign: model.SignDebitPositive, Negate: true}, b)

	h, _ := s.Line("H")
	assert.IsType(t, model.Leaf{}, h)

	z, _ := s.Line("Z")
	assert.IsType(t, model.Derived{}, z)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("lines: []"))
	assert.ErrorContains(t, err, "missing statement name")

	_, err = Parse([]byte("statement: [unterminated"))
	assert.Error(t, err)

	_, err = Parse([]byte("statement: c\nlines:\n  - {ref: A, sum: [B]}\n  - {ref: B, sum: [A]}\n"))
	assert.ErrorIs(t, err, model.ErrCycleDetected)
}

func TestMarshalRoundTrip(t *testing.T) {
	s, err := Parse([]byte(miniSchema))
	require.NoError(t, err)

	data, err := Marshal(s)
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, s.Name(), got.Name())
	assert.Equal(t, s.Version(), got.Version())
	assert.Equal(t, s.Order(), got.Order())

	z, _ := got.Line("Z")
	assert.IsType(t, model.Derived{}, z, "empty sum must stay a derived line")
}

func TestBuiltin(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	assert.Equal(t, []string{BalanceSheetAssets, BalanceSheetLiabilities, CashFlow, FundsFlow, IncomeStatement}, c.Names())

	_, err = c.Get("tafire")
	assert.ErrorIs(t, err, model.ErrUnknownStatement)
}

func TestBuiltinFor(t *testing.T) {
	c, err := BuiltinFor(model.SystemMinimal)
	require.NoError(t, err)
	assert.Equal(t, []string{MinimalBalanceSheetAssets, MinimalBalanceSheetLiabilities, MinimalIncomeStatement}, c.Names())

	_, err = BuiltinFor("simplifie")
	assert.ErrorIs(t, err, model.ErrUnknownSystem)
}

func TestOverride_LeavesBaseUntouched(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mini.yaml"), []byte(miniSchema), 0o644))

	base, err := BuiltinFor(model.SystemMinimal)
	require.NoError(t, err)
	c, err := base.Override(dir)
	require.NoError(t, err)

	assert.Contains(t, c.Names(), "mini")
	assert.Len(t, c.Names(), 4)
	assert.NotContains(t, base.Names(), "mini")
}

func TestLoadDir_Overrides(t *testing.T) {
	dir := t.TempDir()
	override := "statement: cash-flow\nlines:\n  - {ref: ZH, label: Trésorerie, accounts: [\"5\"], sign: NET}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cash.yaml"), []byte(override), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mini.yaml"), []byte(miniSchema), 0o644))

	c, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Contains(t, c.Names(), "mini")

	cash, err := c.Get(CashFlow)
	require.NoError(t, err)
	assert.Equal(t, 1, cash.Len())

	income, err := c.Get(IncomeStatement)
	require.NoError(t, err)
	assert.Greater(t, income.Len(), 1)
}

func TestLoadDir_Errors(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("statement: bad\nlines:\n  - {ref: A, sum: [X]}\n"), 0o644))
	_, err = LoadDir(dir)
	assert.ErrorIs(t, err, model.ErrMissingLineReference)
	assert.ErrorContains(t, err, "bad.yaml")
}
