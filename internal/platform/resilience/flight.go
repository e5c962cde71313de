package resilience

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Flight collapses concurrent calls with the same key into one execution.
// Waiters whose context ends first return early with the context error; the
// shared call keeps running for the others.
type Flight[T any] struct {
	group singleflight.Group
}

func (f *Flight[T]) Do(ctx context.Context, key string, fn func() (T, error)) (T, bool, error) {
	ch := f.group.DoChan(key, func() (any, error) {
		return fn()
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Shared, res.Err
		}
		value, _ := res.Val.(T)
		return value, res.Shared, nil
	}
}
