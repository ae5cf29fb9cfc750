// Package reference serves the SYSCOHADA reference corpora: functional rules per
// class, worked-operation chapters, and a ranked search across them.
package reference

import (
	"strings"
)

// Movement is one side of an account's functioning: what it records and against which accounts.
type Movement struct {
	Description  string   `yaml:"description"`
	Counterparts []string `yaml:"counterparts,omitempty"`
}

// Exclusion names an operation that does not belong to the account and where it goes instead.
type Exclusion struct {
	Description   string `yaml:"description"`
	CorrectedCode string `yaml:"corrected_code,omitempty"`
}

// Rule is the functional description of one account: content, debit and credit movements.
type Rule struct {
	Code       string      `yaml:"code"`
	Content    string      `yaml:"content"`
	Comments   []string    `yaml:"comments,omitempty"`
	Debit      []Movement  `yaml:"debit,omitempty"`
	Credit     []Movement  `yaml:"credit,omitempty"`
	Exclusions []Exclusion `yaml:"exclusions,omitempty"`
	Controls   []string    `yaml:"controls,omitempty"`
}

// Matches reports whether q (already lower-cased) appears in the code, content,
// comments or movement descriptions.
func (r Rule) Matches(q string) bool {
	if strings.Contains(r.Code, q) || containsFold(r.Content, q) {
		return true
	}
	for _, c := range r.Comments {
		if containsFold(c, q) {
			return true
		}
	}
	for _, m := range r.Debit {
		if containsFold(m.Description, q) {
			return true
		}
	}
	for _, m := range r.Credit {
		if containsFold(m.Description, q) {
			return true
		}
	}
	return false
}

// RuleSet holds the rules of one account class.
type RuleSet struct {
	Class int    `yaml:"class"`
	Rules []Rule `yaml:"rules"`
}

// Find returns the rule for code, falling back to the closest ancestor rule.
func (s RuleSet) Find(code string) (Rule, bool) {
	for n := len(code); n >= 2; n-- {
		for _, r := range s.Rules {
			if r.Code == code[:n] {
				return r, true
			}
		}
	}
	return Rule{}, false
}

// Section is one titled block of a worked-operation chapter.
type Section struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Chapter is a worked-operation chapter with the accounts it discusses.
type Chapter struct {
	Number   int       `yaml:"number"`
	Title    string    `yaml:"title"`
	Accounts []string  `yaml:"accounts,omitempty,flow"`
	Sections []Section `yaml:"sections"`
}

// Matches reports whether q (already lower-cased) appears in the title or any section.
func (c Chapter) Matches(q string) bool {
	if containsFold(c.Title, q) {
		return true
	}
	for _, s := range c.Sections {
		if containsFold(s.Title, q) || containsFold(s.Content, q) {
			return true
		}
	}
	return false
}

// Covers reports whether code or one of its ancestors is listed in the chapter.
func (c Chapter) Covers(code string) bool {
	for _, a := range c.Accounts {
		if strings.HasPrefix(code, a) {
			return true
		}
	}
	return false
}

// ChapterSummary is the table-of-contents view of a chapter.
type ChapterSummary struct {
	Number   int
	Title    string
	Sections int
	Accounts []string
}

// Summary returns the table-of-contents entry for c.
func (c Chapter) Summary() ChapterSummary {
	return ChapterSummary{Number: c.Number, Title: c.Title, Sections: len(c.Sections), Accounts: c.Accounts}
}

func containsFold(s, lowerQ string) bool {
	return strings.Contains(strings.ToLower(s), lowerQ)
}
