package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"411", "411"},
		{" 41 1 ", "411"},
		{"6031\t0", "60310"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCode(tt.in), "NormalizeCode(%q)", tt.in)
	}
}

func TestValidCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"41", true},
		{"411000", true},
		{"4", false},
		{"4110000", false},
		{"41a", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidCode(tt.code), "ValidCode(%q)", tt.code)
	}
	assert.True(t, ValidPrefix("6"))
	assert.False(t, ValidPrefix(""))
}

func TestClassOf(t *testing.T) {
	assert.Equal(t, 4, ClassOf("411"))
	assert.Equal(t, 9, ClassOf("9"))
	assert.Equal(t, 0, ClassOf("011"))
	assert.Equal(t, 0, ClassOf(""))
}

func TestAccountAppliesTo(t *testing.T) {
	all := Account{Code: "411"}
	assert.True(t, all.AppliesTo("COMMERCE"))

	retail := Account{Code: "601", Sectors: []string{"COMMERCE"}}
	assert.True(t, retail.AppliesTo("commerce"))
	assert.False(t, retail.AppliesTo("SERVICES"))
}

func TestNewSnapshotSortsAndCopies(t *testing.T) {
	in := []LedgerEntry{
		{Account: "601", Debit: decimal.NewFromInt(10)},
		{Account: "411", Debit: decimal.NewFromInt(5)},
	}
	snap := NewSnapshot("2024", in)
	in[0].Account = "999"

	assert.Equal(t, "2024", snap.Period())
	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, "411", snap.At(0).Account)
	assert.Equal(t, "601", snap.At(1).Account)

	debit, credit := snap.Totals()
	assert.True(t, debit.Equal(decimal.NewFromInt(15)))
	assert.True(t, credit.IsZero())
}
