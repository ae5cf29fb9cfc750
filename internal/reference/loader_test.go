package reference

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/liasse/internal/model"
)

func TestLoader_SingleFlight(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})

	l := NewLoader("rules", func(ctx context.Context, key string) (string, error) {
		calls.Add(1)
		<-release
		return "class " + key, nil
	}, 0)

	const callers = 20
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = l.Load(context.Background(), "4")
		}()
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, "class 4", results[i])
	}
	assert.True(t, isCached(l, "4"))
}

func TestLoader_DistinctKeys(t *testing.T) {
	var calls atomic.Int32
	l := NewLoader("rules", func(ctx context.Context, key string) (string, error) {
		calls.Add(1)
		return key, nil
	}, 0)

	for _, k := range []string{"1", "2", "1", "2", "3"} {
		v, err := l.Load(context.Background(), k)
		require.NoError(t, err)
		assert.Equal(t, k, v)
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.True(t, isCached(l, "1"))
	assert.False(t, isCached(l, "4"))
}

func TestLoader_FailureNotCached(t *testing.T) {
	boom := errors.New("disk on fire")
	var calls atomic.Int32
	l := NewLoader("rules", func(ctx context.Context, key string) (string, error) {
		if calls.Add(1) == 1 {
			return "", boom
		}
		return "ok", nil
	}, 0)

	_, err := l.Load(context.Background(), "4")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrAuxiliaryLoad)
	assert.ErrorIs(t, err, boom)

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "rules", lerr.Corpus)
	assert.Equal(t, "4", lerr.Key)
	assert.False(t, isCached(l, "4"))

	v, err := l.Load(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoader_CallerCancel(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	l := NewLoader("chapters", func(ctx context.Context, key string) (int, error) {
		calls.Add(1)
		close(started)
		<-release
		return 42, nil
	}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := l.Load(ctx, "7")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, model.ErrAuxiliaryLoad)
	assert.False(t, isCached(l, "7"), "nothing is stored while the fetch is in flight")

	close(release)
	v, err := l.Load(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoader_Timeout(t *testing.T) {
	l := NewLoader("rules", func(ctx context.Context, key string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}, 10*time.Millisecond)

	_, err := l.Load(context.Background(), "9")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, isCached(l, "9"))
}

func isCached[V any](l *Loader[V], key string) bool {
	_, ok := l.cached(key)
	return ok
}
