package coherence

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/liasse/internal/model"
)

func line(ref, current string, prior ...string) model.ComputedLine {
	l := model.ComputedLine{Ref: ref, Current: decimal.NewNullDecimal(dec(current))}
	if len(prior) > 0 {
		l.Prior = decimal.NewNullDecimal(dec(prior[0]))
	}
	return l
}

func TestDefaultRules(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)
	require.Len(t, rules, 5)
	assert.Equal(t, "balance-sheet-assets.BZ", rules[0].Expected)
	assert.Equal(t, "balance-sheet-liabilities.DZ", rules[0].Actual)
}

func TestRulesFor(t *testing.T) {
	normal, err := RulesFor(model.SystemNormal)
	require.NoError(t, err)
	assert.Len(t, normal, 5)

	minimal, err := RulesFor(model.SystemMinimal)
	require.NoError(t, err)
	require.Len(t, minimal, 2)
	assert.Equal(t, "smt-balance-sheet-assets.AZ", minimal[0].Expected)
	assert.Equal(t, "smt-balance-sheet-liabilities.CP_4E", minimal[1].Actual)

	_, err = RulesFor("simplifie")
	assert.ErrorIs(t, err, model.ErrUnknownSystem)
}

func TestParseRules_BadReference(t *testing.T) {
	_, err := ParseRules([]byte("rules:\n  - {label: x, expected: BZ, actual: balance-sheet-liabilities.DZ}\n"))
	assert.ErrorIs(t, err, model.ErrInvalidLine)

	_, err = ParseRules([]byte("rules: {"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	rules := []Rule{{Label: "bilan", Expected: "assets.BZ", Actual: "liabilities.DZ"}}
	results := map[string][]model.ComputedLine{
		"assets":      {line("AZ", "10"), line("BZ", "1500", "1200")},
		"liabilities": {line("DZ", "1500", "1100")},
	}

	current, err := Resolve(rules, results, Current)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "bilan", current[0].Label)
	assert.True(t, dec("1500").Equal(current[0].Expected))

	prior, err := Resolve(rules, results, Prior)
	require.NoError(t, err)
	require.Len(t, prior, 1)
	assert.Equal(t, "bilan (N-1)", prior[0].Label)

	res := New(DefaultEpsilon).Validate(prior)
	require.Len(t, res.Discrepancies, 1)
	assert.True(t, dec("-100").Equal(res.Discrepancies[0].Delta))
}

func TestResolve_SkipsNullPrior(t *testing.T) {
	rules := []Rule{{Label: "bilan", Expected: "assets.BZ", Actual: "liabilities.DZ"}}
	results := map[string][]model.ComputedLine{
		"assets":      {line("BZ", "1500")},
		"liabilities": {line("DZ", "1500")},
	}
	checks, err := Resolve(rules, results, Prior)
	require.NoError(t, err)
	assert.Empty(t, checks)
	assert.Equal(t, "prior", Prior.String())
	assert.Equal(t, "current", Current.String())
}

func TestResolve_Errors(t *testing.T) {
	results := map[string][]model.ComputedLine{"assets": {line("BZ", "1")}}

	_, err := Resolve([]Rule{{Label: "x", Expected: "assets.BZ", Actual: "missing.DZ"}}, results, Current)
	assert.ErrorIs(t, err, model.ErrUnknownStatement)

	_, err = Resolve([]Rule{{Label: "x", Expected: "assets.XX", Actual: "assets.BZ"}}, results, Current)
	assert.ErrorIs(t, err, model.ErrMissingLineReference)
}
