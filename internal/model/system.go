package model

import (
	"fmt"
	"strings"
)

// System selects the set of statements a filing is made of.
type System string

const (
	// SystemNormal is the full filing: balance sheet, income statement,
	// cash-flow and funds-flow tables.
	SystemNormal System = "normal"
	// SystemMinimal is the système minimal de trésorerie for small entities:
	// a simplified balance sheet and income statement only.
	SystemMinimal System = "smt"
)

// ParseSystem accepts a system name in any case. The empty string is SystemNormal.
func ParseSystem(s string) (System, error) {
	switch sys := System(strings.ToLower(strings.TrimSpace(s))); sys {
	case "", SystemNormal:
		return SystemNormal, nil
	case SystemMinimal:
		return sys, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSystem, s)
	}
}
