package model

import "strings"

// Nature classifies an account by where its balance lands in the statements.
type Nature string

const (
	NatureAsset     Nature = "ASSET"
	NatureLiability Nature = "LIABILITY"
	NatureExpense   Nature = "EXPENSE"
	NatureRevenue   Nature = "REVENUE"
	NatureSpecial   Nature = "SPECIAL"
)

// Valid reports whether n is one of the known natures.
func (n Nature) Valid() bool {
	switch n {
	case NatureAsset, NatureLiability, NatureExpense, NatureRevenue, NatureSpecial:
		return true
	}
	return false
}

// Side is the normal balance side of an account.
type Side string

const (
	SideDebit  Side = "DEBIT"
	SideCredit Side = "CREDIT"
)

// Valid reports whether s is DEBIT or CREDIT.
func (s Side) Valid() bool {
	return s == SideDebit || s == SideCredit
}

// Account describes one position of the chart of accounts.
type Account struct {
	Code       string
	Label      string
	Class      int // leading digit, 1..9
	Nature     Nature
	NormalSide Side
	Mandatory  bool
	Sectors    []string // empty = all sectors
}

// AppliesTo reports whether the account is usable in the given sector.
func (a Account) AppliesTo(sector string) bool {
	if len(a.Sectors) == 0 {
		return true
	}
	for _, s := range a.Sectors {
		if strings.EqualFold(s, sector) {
			return true
		}
	}
	return false
}

// Class is one of the nine top-level divisions of the chart.
type Class struct {
	Number      int
	Label       string
	Description string
}

// Code returns the single-digit code of the class.
func (c Class) Code() string {
	return string(rune('0' + c.Number))
}
