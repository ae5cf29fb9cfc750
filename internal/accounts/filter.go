package accounts

import "github.com/cleared-dev/liasse/internal/model"

// Predicate selects accounts.
type Predicate func(model.Account) bool

// Filter returns the accounts matching every predicate, in load order.
func (r *Registry) Filter(preds ...Predicate) []model.Account {
	var result []model.Account
	for _, a := range r.accounts {
		if matchAll(a, preds) {
			result = append(result, a)
		}
	}
	return result
}

// Mandatory returns the mandatory accounts, optionally restricted to one class (0 = all).
func (r *Registry) Mandatory(class int) []model.Account {
	if class == 0 {
		return r.Filter(IsMandatory(true))
	}
	return r.Filter(IsMandatory(true), InClass(class))
}

func matchAll(a model.Account, preds []Predicate) bool {
	for _, p := range preds {
		if !p(a) {
			return false
		}
	}
	return true
}

// InClass matches accounts of class n.
func InClass(n int) Predicate {
	return func(a model.Account) bool { return a.Class == n }
}

// WithNature matches accounts of the given nature.
func WithNature(n model.Nature) Predicate {
	return func(a model.Account) bool { return a.Nature == n }
}

// IsMandatory matches on the mandatory flag.
func IsMandatory(want bool) Predicate {
	return func(a model.Account) bool { return a.Mandatory == want }
}

// InSector matches accounts usable in sector. Accounts without a sector list apply everywhere.
func InSector(sector string) Predicate {
	return func(a model.Account) bool { return a.AppliesTo(sector) }
}
