package accounts

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/cleared-dev/liasse/internal/model"
)

// Registry provides read-only lookup over the chart of accounts.
// It is built once and safe for concurrent use.
type Registry struct {
	accounts []model.Account
	byCode   map[string]model.Account
	children map[string][]model.Account // parent code -> direct children
	classes  map[int]model.Class
}

// Match is the result of resolving an arbitrary code against the registry.
type Match struct {
	Code    string
	Label   string
	Score   float64
	IsClass bool // matched only on the leading class digit
}

// NewRegistry indexes accounts. Duplicate codes are rejected.
func NewRegistry(accounts []model.Account, classes []model.Class) (*Registry, error) {
	r := &Registry{
		accounts: make([]model.Account, 0, len(accounts)),
		byCode:   make(map[string]model.Account, len(accounts)),
		children: make(map[string][]model.Account),
		classes:  make(map[int]model.Class, len(classes)),
	}
	for _, c := range classes {
		r.classes[c.Number] = c
	}
	for _, a := range accounts {
		if !model.ValidCode(a.Code) {
			return nil, fmt.Errorf("account %q: %w", a.Code, model.ErrInvalidAccountCode)
		}
		if _, dup := r.byCode[a.Code]; dup {
			return nil, fmt.Errorf("account %s: %w", a.Code, model.ErrDuplicateAccount)
		}
		r.accounts = append(r.accounts, a)
		r.byCode[a.Code] = a
	}
	// Two-digit codes hang under their class digit.
	for _, a := range r.accounts {
		parent := a.Code[:len(a.Code)-1]
		r.children[parent] = append(r.children[parent], a)
	}
	return r, nil
}

// Default returns the registry over the embedded SYSCOHADA chart.
func Default() (*Registry, error) {
	chart, err := DefaultChart()
	if err != nil {
		return nil, err
	}
	return NewRegistry(chart, DefaultClasses())
}

// Load reads a chart of accounts CSV from path.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewRegistry(accts, DefaultClasses())
}

// All returns all accounts in load order.
func (r *Registry) All() []model.Account {
	return slices.Clone(r.accounts)
}

// Len returns the number of registered accounts.
func (r *Registry) Len() int {
	return len(r.accounts)
}

// Lookup returns the account with exactly this code.
func (r *Registry) Lookup(code string) (model.Account, bool) {
	a, ok := r.byCode[code]
	return a, ok
}

// Exists reports whether a code is registered.
func (r *Registry) Exists(code string) bool {
	_, ok := r.byCode[code]
	return ok
}

// Parent returns the nearest registered proper prefix of code, down to two digits.
func (r *Registry) Parent(code string) (model.Account, bool) {
	for n := len(code) - 1; n >= model.MinCodeLen; n-- {
		if a, ok := r.byCode[code[:n]]; ok {
			return a, true
		}
	}
	return model.Account{}, false
}

// Children returns the direct children of code: registered codes exactly one digit longer.
// A class digit such as "4" yields its two-digit accounts.
func (r *Registry) Children(code string) []model.Account {
	return slices.Clone(r.children[code])
}

// Closest resolves code to the most precise registered position.
// An exact hit scores 1; a prefix hit of length n scores n/len(code);
// a bare class match scores 0.1.
func (r *Registry) Closest(code string) (Match, bool) {
	if a, ok := r.byCode[code]; ok {
		return Match{Code: a.Code, Label: a.Label, Score: 1}, true
	}
	for n := min(len(code), 4); n >= model.MinCodeLen; n-- {
		if a, ok := r.byCode[code[:n]]; ok {
			return Match{Code: a.Code, Label: a.Label, Score: float64(n) / float64(len(code))}, true
		}
	}
	if c, ok := r.classes[model.ClassOf(code)]; ok {
		return Match{Code: c.Code(), Label: c.Label, Score: 0.1, IsClass: true}, true
	}
	return Match{}, false
}

// HasPrefix reports whether any registered code starts with prefix.
func (r *Registry) HasPrefix(prefix string) bool {
	for _, a := range r.accounts {
		if strings.HasPrefix(a.Code, prefix) {
			return true
		}
	}
	return false
}

// Search returns accounts whose code contains q or whose label contains q, case-insensitively.
// A limit <= 0 means no limit.
func (r *Registry) Search(q string, limit int) []model.Account {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	var result []model.Account
	for _, a := range r.accounts {
		if strings.Contains(a.Code, q) || strings.Contains(strings.ToLower(a.Label), q) {
			result = append(result, a)
			if limit > 0 && len(result) == limit {
				break
			}
		}
	}
	return result
}

// Classes returns the class metadata ordered by number.
func (r *Registry) Classes() []model.Class {
	out := make([]model.Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b model.Class) int { return a.Number - b.Number })
	return out
}

// Class returns the metadata of class n.
func (r *Registry) Class(n int) (model.Class, bool) {
	c, ok := r.classes[n]
	return c, ok
}

// Stats summarises the chart.
type Stats struct {
	Total     int
	Mandatory int
	Optional  int
	ByClass   map[int]int
}

// Stats counts accounts overall, by usage and by class.
func (r *Registry) Stats() Stats {
	s := Stats{Total: len(r.accounts), ByClass: make(map[int]int)}
	for _, a := range r.accounts {
		if a.Mandatory {
			s.Mandatory++
		} else {
			s.Optional++
		}
		s.ByClass[a.Class]++
	}
	return s
}
