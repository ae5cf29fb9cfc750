package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/liasse/internal/model"
)

func val(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func testLines() []model.ComputedLine {
	return []model.ComputedLine{
		{Ref: "H", Label: "Produits"},
		{Ref: "TA", Label: "Ventes de marchandises", Current: val("1200"), Prior: val("1000"), Variation: val("20")},
		{Ref: "XA", Label: "Marge, commerciale", Current: val("700"), Prior: val("1000"), Variation: val("-30")},
	}
}

func TestMarshalLine(t *testing.T) {
	assert.Equal(t, []string{"H", "Produits", "", "", ""}, MarshalLine(testLines()[0]))
	assert.Equal(t, []string{"TA", "Ventes de marchandises", "1200", "1000", "20"}, MarshalLine(testLines()[1]))
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLines(&buf, testLines()))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))

	got, err := ReadLines(&buf)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.False(t, got[0].Current.Valid)
	assert.Equal(t, "Marge, commerciale", got[2].Label)
	assert.True(t, got[2].Variation.Decimal.Equal(decimal.NewFromInt(-30)))
}

func TestUnmarshalLine_Errors(t *testing.T) {
	_, err := UnmarshalLine([]string{"A"})
	assert.Error(t, err)

	_, err = UnmarshalLine([]string{"A", "a", "x", "", ""})
	assert.ErrorContains(t, err, "parsing current")
}

func TestWriteDiscrepancies(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDiscrepancies(&buf, []model.Discrepancy{{
		Description: "Total actif = total passif",
		Expected:    decimal.NewFromInt(285250000),
		Actual:      decimal.NewFromInt(285250500),
		Delta:       decimal.NewFromInt(500),
	}})
	require.NoError(t, err)
	assert.Equal(t, DiscrepancyHeader+"\nTotal actif = total passif,285250000,285250500,500\n", buf.String())
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	err := WriteDir(dir, map[string][]model.ComputedLine{"income-statement": testLines()}, nil)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "income-statement.csv"))
	require.NoError(t, err)
	defer f.Close()
	lines, err := ReadLines(f)
	require.NoError(t, err)
	assert.Len(t, lines, 3)

	data, err := os.ReadFile(filepath.Join(dir, CoherenceFile))
	require.NoError(t, err)
	assert.Equal(t, DiscrepancyHeader+"\n", string(data))
}
