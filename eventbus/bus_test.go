package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := New[string]()
	defer bus.Close()

	a := bus.Subscribe()
	b := bus.Subscribe()

	if err := bus.Publish(context.Background(), "hello"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	for _, sub := range []*Subscription[string]{a, b} {
		select {
		case got := <-sub.C():
			if got != "hello" {
				t.Fatalf("got %q", got)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber missed event")
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New[int]()
	defer bus.Close()

	sub := bus.Subscribe()
	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent

	if bus.SubscriberCount() != 0 {
		t.Fatalf("subscriber count = %d", bus.SubscriberCount())
	}
	if err := bus.Publish(context.Background(), 1); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, ok := <-sub.C(); ok {
		t.Fatalf("channel should be closed")
	}
}

func TestDropOldestPolicy(t *testing.T) {
	bus := New[int](WithBuffer(2))
	defer bus.Close()

	sub := bus.Subscribe()
	ctx := context.Background()
	for i := 1; i <= 4; i++ {
		if err := bus.Publish(ctx, i); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	// Buffer of 2 after 4 publishes keeps the newest two.
	first := <-sub.C()
	second := <-sub.C()
	if first != 3 || second != 4 {
		t.Fatalf("kept (%d, %d), want (3, 4)", first, second)
	}
}

func TestBlockingPolicyHonorsContext(t *testing.T) {
	bus := New[int](WithBuffer(1), WithBlocking())
	defer bus.Close()

	_ = bus.Subscribe() // never drains

	ctx := context.Background()
	if err := bus.Publish(ctx, 1); err != nil {
		t.Fatalf("publish: %v", err)
	}

	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := bus.Publish(timeout, 2); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestPublishAfterClose(t *testing.T) {
	bus := New[int]()
	sub := bus.Subscribe()
	bus.Close()
	bus.Close() // idempotent

	if err := bus.Publish(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if _, ok := <-sub.C(); ok {
		t.Fatalf("subscription should be closed")
	}
	late := bus.Subscribe()
	if _, ok := <-late.C(); ok {
		t.Fatalf("late subscription should be closed")
	}
}

func TestConcurrentPublishers(t *testing.T) {
	bus := New[int](WithBuffer(1024))
	defer bus.Close()

	sub := bus.Subscribe()
	const publishers, events = 8, 100

	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < events; i++ {
				_ = bus.Publish(context.Background(), i)
			}
		}()
	}
	wg.Wait()

	received := 0
	for {
		select {
		case <-sub.C():
			received++
		default:
			if received != publishers*events {
				t.Fatalf("received %d, want %d", received, publishers*events)
			}
			return
		}
	}
}

func TestUnsubscribeDuringBlockedPublish(t *testing.T) {
	bus := New[int](WithBuffer(1), WithBlocking())
	defer bus.Close()

	sub := bus.Subscribe()
	ctx := context.Background()
	if err := bus.Publish(ctx, 1); err != nil {
		t.Fatalf("publish: %v", err)
	}

	// The second publish parks on the full subscriber until it leaves.
	result := make(chan error, 1)
	go func() { result <- bus.Publish(ctx, 2) }()
	time.Sleep(20 * time.Millisecond)
	sub.Unsubscribe()

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("publish did not return after unsubscribe")
	}
}

func TestCloseDuringPublish(t *testing.T) {
	bus := New[int](WithBuffer(1))
	_ = bus.Subscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if err := bus.Publish(context.Background(), i); err != nil {
				return
			}
		}
	}()
	time.Sleep(time.Millisecond)
	bus.Close()
	wg.Wait()
}

func TestTopicRouting(t *testing.T) {
	bus := NewTopic[string]()
	defer bus.Close()

	alpha := bus.Subscribe("alpha")
	beta := bus.Subscribe("beta")

	ctx := context.Background()
	if err := bus.Publish(ctx, "alpha", "for-alpha"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-alpha.C():
		if got != "for-alpha" {
			t.Fatalf("alpha got %q", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("alpha missed event")
	}
	select {
	case got := <-beta.C():
		t.Fatalf("beta received %q for another topic", got)
	default:
	}
}

func TestTopicCloseCascades(t *testing.T) {
	bus := NewTopic[int]()
	sub := bus.Subscribe("t")
	bus.Close()

	if _, ok := <-sub.C(); ok {
		t.Fatalf("subscription should be closed")
	}
	if err := bus.Publish(context.Background(), "t", 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}
