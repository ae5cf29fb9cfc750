package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRule_Matches(t *testing.T) {
	r := Rule{
		Code:     "41",
		Content:  "Créances sur les Clients",
		Comments: []string{"Voir le compte 416"},
		Debit:    []Movement{{Description: "Ventes à crédit"}},
		Credit:   []Movement{{Description: "Encaissements reçus"}},
	}
	assert.True(t, r.Matches("41"))
	assert.True(t, r.Matches("clients"))
	assert.True(t, r.Matches("416"))
	assert.True(t, r.Matches("ventes"))
	assert.True(t, r.Matches("encaissements"))
	assert.False(t, r.Matches("fournisseurs"))
}

func TestRuleSet_Find(t *testing.T) {
	set := RuleSet{Class: 4, Rules: []Rule{{Code: "40"}, {Code: "41"}, {Code: "411"}}}

	r, ok := set.Find("411")
	assert.True(t, ok)
	assert.Equal(t, "411", r.Code)

	r, ok = set.Find("4118")
	assert.True(t, ok, "falls back to ancestor")
	assert.Equal(t, "411", r.Code)

	r, ok = set.Find("419")
	assert.True(t, ok)
	assert.Equal(t, "41", r.Code)

	_, ok = set.Find("42")
	assert.False(t, ok)
}

func TestChapter(t *testing.T) {
	ch := Chapter{
		Number:   4,
		Title:    "Ventes et créances",
		Accounts: []string{"411", "701"},
		Sections: []Section{{Title: "Facturation", Content: "Débit du compte 411 Clients"}},
	}
	assert.True(t, ch.Matches("ventes"))
	assert.True(t, ch.Matches("facturation"))
	assert.True(t, ch.Matches("clients"))
	assert.False(t, ch.Matches("salaires"))

	assert.True(t, ch.Covers("411"))
	assert.True(t, ch.Covers("4111"))
	assert.False(t, ch.Covers("41"), "a chapter on 411 does not cover the whole of 41")

	sum := ch.Summary()
	assert.Equal(t, ChapterSummary{Number: 4, Title: "Ventes et créances", Sections: 1, Accounts: []string{"411", "701"}}, sum)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "éé", truncate("ééé", 2))
}
