package syncx

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestParallelRunsAll(t *testing.T) {
	var ran atomic.Int32
	task := func(ctx context.Context) error {
		ran.Add(1)
		return nil
	}
	if err := Parallel(context.Background(), 2, task, task, task); err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if got := ran.Load(); got != 3 {
		t.Fatalf("ran = %d, want 3", got)
	}
}

func TestParallelPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := Parallel(context.Background(), 0,
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error { return nil },
	)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestParallelCancelsSiblings(t *testing.T) {
	boom := errors.New("boom")
	var sawCancel atomic.Bool
	err := Parallel(context.Background(), 0,
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				sawCancel.Store(true)
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		},
	)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if !sawCancel.Load() {
		t.Fatalf("sibling was not canceled")
	}
}

func TestGoRecoversPanics(t *testing.T) {
	var recovered atomic.Value
	done := Go(func() {
		panic("kaboom")
	}, func(r any) {
		recovered.Store(r)
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("goroutine did not finish")
	}
	if recovered.Load() != "kaboom" {
		t.Fatalf("recovered = %v", recovered.Load())
	}
}

func TestOnceValue(t *testing.T) {
	var computed atomic.Int32
	once := OnceValue(func() int {
		return int(computed.Add(1))
	})
	if once.Get() != 1 || once.Get() != 1 {
		t.Fatalf("once recomputed")
	}
	if computed.Load() != 1 {
		t.Fatalf("computed %d times", computed.Load())
	}
}
