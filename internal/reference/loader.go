package reference

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/cleared-dev/liasse/internal/model"
)

// LoadError reports a failed corpus load. It matches model.ErrAuxiliaryLoad
// and the underlying cause under errors.Is.
type LoadError struct {
	Corpus string
	Key    string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s %s: %v", e.Corpus, e.Key, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{model.ErrAuxiliaryLoad, e.Err}
}

// FetchFunc loads the value for key from the backing store.
type FetchFunc[V any] func(ctx context.Context, key string) (V, error)

// Loader memoizes fetches by key with at most one fetch in flight per key.
// Only successful fetches are stored; a failure leaves the key absent so the
// next call retries.
type Loader[V any] struct {
	corpus  string
	fetch   FetchFunc[V]
	timeout time.Duration
	group   singleflight.Group
	memo    *cache.Cache
}

// NewLoader returns a Loader for the named corpus. A positive timeout bounds each fetch.
func NewLoader[V any](corpus string, fetch FetchFunc[V], timeout time.Duration) *Loader[V] {
	return &Loader[V]{
		corpus:  corpus,
		fetch:   fetch,
		timeout: timeout,
		memo:    cache.New(cache.NoExpiration, 0),
	}
}

// Load returns the memoized value for key, fetching it if needed. Concurrent
// callers for the same key share one fetch. A caller whose ctx ends stops
// waiting; the shared fetch is not cancelled on its behalf.
func (l *Loader[V]) Load(ctx context.Context, key string) (V, error) {
	if v, ok := l.cached(key); ok {
		return v, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		if v, ok := l.cached(key); ok {
			return v, nil
		}
		c := fetchCtx
		if l.timeout > 0 {
			var cancel context.CancelFunc
			c, cancel = context.WithTimeout(fetchCtx, l.timeout)
			defer cancel()
		}
		v, err := l.fetch(c, key)
		if err != nil {
			return nil, err
		}
		l.memo.Set(key, v, cache.NoExpiration)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, &LoadError{Corpus: l.corpus, Key: key, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return zero, &LoadError{Corpus: l.corpus, Key: key, Err: res.Err}
		}
		return res.Val.(V), nil
	}
}

func (l *Loader[V]) cached(key string) (V, bool) {
	if v, ok := l.memo.Get(key); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}
