// Package chain composes small processing steps into pipelines.
package chain

import "context"

// Chainable is one step of a pipeline.
type Chainable[T any] interface {
	Process(ctx context.Context, value T) (T, error)
}

// Func adapts a function into a Chainable.
type Func[T any] func(ctx context.Context, value T) (T, error)

func (f Func[T]) Process(ctx context.Context, value T) (T, error) {
	return f(ctx, value)
}

// Transform wraps a pure function that cannot fail.
func Transform[T any](fn func(T) T) Chainable[T] {
	return Func[T](func(ctx context.Context, value T) (T, error) {
		return fn(value), nil
	})
}

// Apply wraps a function that may fail.
func Apply[T any](fn func(ctx context.Context, value T) (T, error)) Chainable[T] {
	return Func[T](fn)
}

// Effect runs fn for its side effect and passes the value through
// unchanged. An error from fn aborts the pipeline.
func Effect[T any](fn func(ctx context.Context, value T) error) Chainable[T] {
	return Func[T](func(ctx context.Context, value T) (T, error) {
		if err := fn(ctx, value); err != nil {
			return value, err
		}
		return value, nil
	})
}

// Mutate applies fn only when cond holds.
func Mutate[T any](cond func(T) bool, fn func(T) T) Chainable[T] {
	return Func[T](func(ctx context.Context, value T) (T, error) {
		if cond(value) {
			return fn(value), nil
		}
		return value, nil
	})
}

// Sequence runs steps in order, feeding each output into the next step.
// The first error stops the pipeline; the context is checked between
// steps.
func Sequence[T any](steps ...Chainable[T]) Chainable[T] {
	return Func[T](func(ctx context.Context, value T) (T, error) {
		for _, step := range steps {
			if err := ctx.Err(); err != nil {
				return value, err
			}
			var err error
			value, err = step.Process(ctx, value)
			if err != nil {
				return value, err
			}
		}
		return value, nil
	})
}

// When runs step only if cond holds for the incoming value.
func When[T any](cond func(T) bool, step Chainable[T]) Chainable[T] {
	return Func[T](func(ctx context.Context, value T) (T, error) {
		if !cond(value) {
			return value, nil
		}
		return step.Process(ctx, value)
	})
}

// Fallback tries primary and, if it fails, runs secondary on the
// original input. Context errors are not recovered from.
func Fallback[T any](primary, secondary Chainable[T]) Chainable[T] {
	return Func[T](func(ctx context.Context, value T) (T, error) {
		out, err := primary.Process(ctx, value)
		if err == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return value, err
		}
		return secondary.Process(ctx, value)
	})
}
