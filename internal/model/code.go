package model

import "strings"

const (
	MinCodeLen = 2
	MaxCodeLen = 6
)

// NormalizeCode strips the whitespace that trial-balance exports often leave inside codes.
// "41 1" -> "411"
func NormalizeCode(code string) string {
	return strings.Join(strings.Fields(code), "")
}

// ValidCode reports whether code is a 2 to 6 digit account code.
func ValidCode(code string) bool {
	if len(code) < MinCodeLen || len(code) > MaxCodeLen {
		return false
	}
	return allDigits(code)
}

// ValidPrefix reports whether p can be used to match account codes.
// Prefixes may be a single class digit.
func ValidPrefix(p string) bool {
	if len(p) == 0 || len(p) > MaxCodeLen {
		return false
	}
	return allDigits(p)
}

// ClassOf returns the class digit of a code, or 0 if the code does not start with 1..9.
func ClassOf(code string) int {
	if code == "" || code[0] < '1' || code[0] > '9' {
		return 0
	}
	return int(code[0] - '0')
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
