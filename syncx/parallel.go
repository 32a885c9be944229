package syncx

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Parallel runs fns with at most limit running concurrently (limit < 1
// means unbounded) and returns the first error. A failing fn cancels the
// context passed to the others.
func Parallel(ctx context.Context, limit int, fns ...func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, fn := range fns {
		fn := fn
		g.Go(func() error { return fn(gctx) })
	}
	return g.Wait()
}

// Go runs fn on a new goroutine, recovering panics into onPanic. The
// returned channel closes when fn finishes.
func Go(fn func(), onPanic func(recovered any)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil && onPanic != nil {
				onPanic(r)
			}
		}()
		fn()
	}()
	return done
}

// Once is a lazily computed value.
type Once[T any] struct {
	once  sync.Once
	fn    func() T
	value T
}

// OnceValue builds a Once that computes its value with fn on first Get.
func OnceValue[T any](fn func() T) *Once[T] {
	return &Once[T]{fn: fn}
}

// Get computes the value on first call and returns it thereafter.
func (o *Once[T]) Get() T {
	o.once.Do(func() {
		o.value = o.fn()
	})
	return o.value
}
