package reference

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/liasse/internal/accounts"
	"github.com/cleared-dev/liasse/internal/logging"
	"github.com/cleared-dev/liasse/internal/model"
)

// ResultType tags the corpus a search result came from.
type ResultType string

const (
	TypeAccount ResultType = "account"
	TypeRule    ResultType = "functional-rule"
	TypeChapter ResultType = "operation-chapter"
)

const (
	scoreAccountCode  = 10
	scoreAccountLabel = 5
	scoreRule         = 3
	scoreChapter      = 2

	minQueryLen    = 2
	highlightRunes = 100
)

// Result is one ranked search hit.
type Result struct {
	Type      ResultType
	Code      string // account or rule code
	Chapter   int    // set for operation-chapter results
	Score     int
	Highlight string
}

// Limits caps each source and the merged result list. Zero or less means no cap,
// except Default which falls back to 50.
type Limits struct {
	Default  int
	Accounts int
	Rules    int
	Chapters int
}

// DefaultLimits returns the caps used when none are configured.
func DefaultLimits() Limits {
	return Limits{Default: 50, Accounts: 20, Rules: 15, Chapters: 10}
}

// Index searches the chart of accounts and the reference corpora together.
type Index struct {
	registry *accounts.Registry
	library  *Library
	limits   Limits
}

// NewIndex returns an Index over reg and lib.
func NewIndex(reg *accounts.Registry, lib *Library, limits Limits) *Index {
	return &Index{registry: reg, library: lib, limits: limits}
}

// Search ranks matches from the three sources: account code hits first, then
// account label hits, functional rules and chapters. Ties keep source order.
// A corpus that fails to load is logged and left out. A limit <= 0 uses the default.
func (ix *Index) Search(ctx context.Context, query string, limit int) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < minQueryLen {
		return nil
	}
	if limit <= 0 {
		limit = ix.limits.Default
	}
	if limit <= 0 {
		limit = DefaultLimits().Default
	}

	results, covered := ix.searchAccounts(q)
	results = append(results, ix.searchRules(ctx, q, covered)...)
	results = append(results, ix.searchChapters(ctx, q)...)

	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (ix *Index) searchAccounts(q string) ([]Result, map[string]bool) {
	hits := ix.registry.Search(q, ix.limits.Accounts)
	// An exact code hit leads its score group.
	if exact, ok := ix.registry.Lookup(q); ok {
		hits = slices.DeleteFunc(hits, func(a model.Account) bool { return a.Code == exact.Code })
		hits = append([]model.Account{exact}, hits...)
		if ix.limits.Accounts > 0 && len(hits) > ix.limits.Accounts {
			hits = hits[:ix.limits.Accounts]
		}
	}

	results := make([]Result, 0, len(hits))
	covered := make(map[string]bool, len(hits))
	for _, a := range hits {
		score := scoreAccountLabel
		if strings.Contains(a.Code, q) {
			score = scoreAccountCode
		}
		covered[a.Code] = true
		results = append(results, Result{
			Type:      TypeAccount,
			Code:      a.Code,
			Score:     score,
			Highlight: fmt.Sprintf("%s - %s", a.Code, a.Label),
		})
	}
	return results, covered
}

func (ix *Index) searchRules(ctx context.Context, q string, covered map[string]bool) []Result {
	log := logging.FromContext(ctx)

	// Classes load concurrently; results are merged in class order.
	sets := make([]RuleSet, 9)
	var g errgroup.Group
	for class := 1; class <= 9; class++ {
		g.Go(func() error {
			set, err := ix.library.LoadClass(ctx, class)
			if err != nil {
				log.Warn("functional rules unavailable", slog.Int("class", class), slog.Any("error", err))
				return nil
			}
			sets[class-1] = set
			return nil
		})
	}
	_ = g.Wait()

	var results []Result
	for _, set := range sets {
		for _, r := range set.Rules {
			if ix.limits.Rules > 0 && len(results) == ix.limits.Rules {
				return results
			}
			if !r.Matches(q) || covered[r.Code] {
				continue
			}
			results = append(results, Result{
				Type:      TypeRule,
				Code:      r.Code,
				Score:     scoreRule,
				Highlight: fmt.Sprintf("%s - %s...", r.Code, truncate(r.Content, highlightRunes)),
			})
		}
	}
	return results
}

func (ix *Index) searchChapters(ctx context.Context, q string) []Result {
	chapters, err := ix.library.LoadChapters(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("operation chapters unavailable", slog.Any("error", err))
		return nil
	}

	var results []Result
	for _, ch := range chapters {
		if ix.limits.Chapters > 0 && len(results) == ix.limits.Chapters {
			break
		}
		if !ch.Matches(q) {
			continue
		}
		results = append(results, Result{
			Type:      TypeChapter,
			Chapter:   ch.Number,
			Score:     scoreChapter,
			Highlight: fmt.Sprintf("Chapitre %d - %s", ch.Number, ch.Title),
		})
	}
	return results
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// AccountDetail gathers everything known about one account.
type AccountDetail struct {
	Account  model.Account
	Parent   *model.Account
	Children []model.Account
	Rule     *Rule
	Chapters []ChapterSummary
}

// AccountDetail returns the descriptor of code with its parent, direct children,
// functional rule and the chapters that discuss it. The second result is false
// when code is not registered. Corpus failures are logged and leave the
// corresponding fields empty.
func (ix *Index) AccountDetail(ctx context.Context, code string) (AccountDetail, bool) {
	acct, ok := ix.registry.Lookup(code)
	if !ok {
		return AccountDetail{}, false
	}
	log := logging.FromContext(ctx)

	d := AccountDetail{Account: acct, Children: ix.registry.Children(code)}
	if p, ok := ix.registry.Parent(code); ok {
		d.Parent = &p
	}

	if r, ok, err := ix.library.RuleFor(ctx, code); err != nil {
		log.Warn("functional rules unavailable", slog.String("code", code), slog.Any("error", err))
	} else if ok {
		d.Rule = &r
	}

	chapters, err := ix.library.LoadChapters(ctx)
	if err != nil {
		log.Warn("operation chapters unavailable", slog.String("code", code), slog.Any("error", err))
		return d, true
	}
	for _, ch := range chapters {
		if ch.Covers(code) {
			d.Chapters = append(d.Chapters, ch.Summary())
		}
	}
	return d, true
}
