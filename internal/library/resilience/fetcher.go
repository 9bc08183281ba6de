package resilience

import (
	"context"
	"errors"
	"time"

	"video_library_service/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrBreakerOpen the call was short-circuited
var ErrBreakerOpen = errors.New("circuit breaker is open")

// Result 一次 Fetch 的結果
type Result[T any] struct {
	Data T
	// Degraded is set when Data comes from the fallback store or is empty
	// because the source failed
	Degraded bool
	// FromCache is set when Data was served without calling the source
	FromCache bool
	// StoredAt is when Data was fetched from the source
	StoredAt time.Time
	// Err is the failure that caused a degraded result
	Err error
}

// Fetcher wraps a source call with a breaker, a fresh read cache and a
// fallback store. It never returns an error: failures degrade to the last
// good value or the zero value. Concurrent misses on the same key share one
// source call.
type Fetcher[T any] struct {
	name     string
	breaker  *Breaker
	fresh    *FreshCache[T]
	fallback *FallbackStore[T]
	group    singleflight.Group
	now      func() time.Time
}

// fetched 一次共用呼叫的結果
type fetched[T any] struct {
	data      T
	storedAt  time.Time
	fromCache bool
}

// NewFetcher 建立 Fetcher
func NewFetcher[T any](name string, breaker *Breaker, fresh *FreshCache[T], fallback *FallbackStore[T]) *Fetcher[T] {
	return &Fetcher[T]{
		name:     name,
		breaker:  breaker,
		fresh:    fresh,
		fallback: fallback,
		now:      time.Now,
	}
}

// Breaker exposes the breaker guarding the source
func (f *Fetcher[T]) Breaker() *Breaker {
	return f.breaker
}

// Invalidate drops the fresh value of key so the next Fetch hits the source.
// The fallback value is kept.
func (f *Fetcher[T]) Invalidate(key string) {
	f.fresh.Invalidate(key)
}

// Fetch returns the value of key
func (f *Fetcher[T]) Fetch(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) Result[T] {
	if v, at, ok := f.fresh.Get(key); ok {
		return Result[T]{Data: v, FromCache: true, StoredAt: at}
	}

	log := logger.Log.With(zap.String("fetcher", f.name), zap.String("key", key))

	if !f.breaker.Allow() {
		log.Warn("circuit breaker open, serving cached snapshot")
		return f.degraded(key, ErrBreakerOpen)
	}

	out, err, _ := f.group.Do(key, func() (any, error) {
		// 等待期間可能已有其他呼叫寫入
		if v, at, ok := f.fresh.Get(key); ok {
			return fetched[T]{data: v, storedAt: at, fromCache: true}, nil
		}
		v, err := fn(ctx)
		if err != nil {
			// 呼叫端取消不算來源失敗
			if ctx.Err() == nil || !errors.Is(err, ctx.Err()) {
				f.breaker.RecordFailure()
			}
			return nil, err
		}
		f.breaker.RecordSuccess()
		f.fresh.Set(key, v)
		f.fallback.Save(key, v)
		return fetched[T]{data: v, storedAt: f.now()}, nil
	})
	if err != nil {
		log.Warn("fetch failed, serving cached snapshot",
			zap.Error(err), zap.Int("failures", f.breaker.Failures()))
		return f.degraded(key, err)
	}

	r := out.(fetched[T])
	return Result[T]{Data: r.data, FromCache: r.fromCache, StoredAt: r.storedAt}
}

func (f *Fetcher[T]) degraded(key string, cause error) Result[T] {
	v, storedAt, ok := f.fallback.Load(key)
	if !ok {
		var zero T
		return Result[T]{Data: zero, Degraded: true, Err: cause}
	}
	return Result[T]{Data: v, Degraded: true, FromCache: true, StoredAt: storedAt, Err: cause}
}
