package reference

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/cleared-dev/liasse/internal/logging"
	"github.com/cleared-dev/liasse/internal/model"
)

const (
	rulesCorpus    = "rules"
	chaptersCorpus = "chapters"
	indexKey       = "index"
)

// Library loads the functional-rule and chapter corpora lazily from a Source.
type Library struct {
	rules    *Loader[RuleSet]
	chapters *Loader[Chapter]
	index    *Loader[[]int]
}

// NewLibrary returns a Library over src. A positive timeout bounds each fetch.
func NewLibrary(src Source, timeout time.Duration) *Library {
	return &Library{
		rules: NewLoader(rulesCorpus, func(ctx context.Context, key string) (RuleSet, error) {
			class, err := strconv.Atoi(key)
			if err != nil {
				return RuleSet{}, err
			}
			return src.ReadClass(ctx, class)
		}, timeout),
		chapters: NewLoader(chaptersCorpus, func(ctx context.Context, key string) (Chapter, error) {
			n, err := strconv.Atoi(key)
			if err != nil {
				return Chapter{}, err
			}
			return src.ReadChapter(ctx, n)
		}, timeout),
		index: NewLoader(chaptersCorpus, func(ctx context.Context, _ string) ([]int, error) {
			return src.ChapterIndex(ctx)
		}, timeout),
	}
}

// LoadClass returns the functional rules of account class 1..9.
func (l *Library) LoadClass(ctx context.Context, class int) (RuleSet, error) {
	return l.rules.Load(ctx, strconv.Itoa(class))
}

// LoadChapter returns chapter n.
func (l *Library) LoadChapter(ctx context.Context, n int) (Chapter, error) {
	return l.chapters.Load(ctx, strconv.Itoa(n))
}

// LoadChapters returns every chapter that loads, in number order. A chapter
// that fails is logged and left out; only a failed index or a done ctx is an error.
func (l *Library) LoadChapters(ctx context.Context) ([]Chapter, error) {
	nums, err := l.index.Load(ctx, indexKey)
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx)
	out := make([]Chapter, 0, len(nums))
	for _, n := range nums {
		ch, err := l.LoadChapter(ctx, n)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("operation chapter unavailable", slog.Int("chapter", n), slog.Any("error", err))
			continue
		}
		out = append(out, ch)
	}
	return out, nil
}

// Chapters returns the table of contents.
func (l *Library) Chapters(ctx context.Context) ([]ChapterSummary, error) {
	chapters, err := l.LoadChapters(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ChapterSummary, len(chapters))
	for i, ch := range chapters {
		out[i] = ch.Summary()
	}
	return out, nil
}

// RuleFor returns the functional rule for code or its closest ancestor.
func (l *Library) RuleFor(ctx context.Context, code string) (Rule, bool, error) {
	class := model.ClassOf(code)
	if class == 0 {
		return Rule{}, false, nil
	}
	set, err := l.LoadClass(ctx, class)
	if err != nil {
		return Rule{}, false, err
	}
	r, ok := set.Find(code)
	return r, ok, nil
}
