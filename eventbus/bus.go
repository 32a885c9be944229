// Package eventbus is a small typed in-process pub/sub bus.
package eventbus

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when publishing on a closed bus.
var ErrClosed = errors.New("eventbus: closed")

const defaultBuffer = 16

type busOptions struct {
	buffer   int
	blocking bool
}

type Option func(*busOptions)

// WithBuffer sets the subscription channel capacity (default 16).
func WithBuffer(n int) Option {
	return func(o *busOptions) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// WithBlocking makes Publish wait for slow subscribers instead of dropping
// their oldest pending event.
func WithBlocking() Option {
	return func(o *busOptions) { o.blocking = true }
}

// Bus fans events of type T out to subscribers. The zero value is not
// usable; construct with New.
type Bus[T any] struct {
	opts busOptions

	mu     sync.Mutex
	closed bool
	nextID int
	subs   map[int]*Subscription[T]
}

// Subscription is a single subscriber's feed. Events arrive on C.
type Subscription[T any] struct {
	ch     chan T
	done   chan struct{}
	cancel func()

	mu      sync.Mutex
	closed  bool
	senders sync.WaitGroup
}

func newSubscription[T any](buffer int) *Subscription[T] {
	return &Subscription[T]{
		ch:   make(chan T, buffer),
		done: make(chan struct{}),
	}
}

// C returns the event channel. It is closed on Unsubscribe and on bus
// Close.
func (s *Subscription[T]) C() <-chan T { return s.ch }

// Unsubscribe detaches the subscription and closes its channel. It is
// idempotent.
func (s *Subscription[T]) Unsubscribe() { s.cancel() }

// acquire registers an in-flight send. Sends and detach are mutually
// exclusive: the channel is closed only after every sender has finished.
func (s *Subscription[T]) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.senders.Add(1)
	return true
}

func (s *Subscription[T]) detach() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.done)
	s.senders.Wait()
	close(s.ch)
}

// New builds a Bus.
func New[T any](opts ...Option) *Bus[T] {
	o := busOptions{buffer: defaultBuffer}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Bus[T]{
		opts: o,
		subs: map[int]*Subscription[T]{},
	}
}

// Subscribe attaches a new subscriber. Subscribing to a closed bus returns
// a subscription whose channel is already closed.
func (b *Bus[T]) Subscribe() *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscription[T](b.opts.buffer)
	if b.closed {
		sub.detach()
		sub.cancel = func() {}
		return sub
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	sub.cancel = func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		sub.detach()
	}
	return sub
}

// Publish delivers event to every current subscriber. In the default
// drop-oldest mode a full subscriber loses its oldest pending event; in
// blocking mode Publish waits, honoring ctx. A subscriber that
// unsubscribes mid-publish is skipped.
func (b *Bus[T]) Publish(ctx context.Context, event T) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	targets := make([]*Subscription[T], 0, len(b.subs))
	for _, sub := range b.subs {
		targets = append(targets, sub)
	}
	b.mu.Unlock()

	for _, sub := range targets {
		if !sub.acquire() {
			continue
		}
		if b.opts.blocking {
			select {
			case sub.ch <- event:
				sub.senders.Done()
			case <-sub.done:
				sub.senders.Done()
			case <-ctx.Done():
				sub.senders.Done()
				return ctx.Err()
			}
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// Evict the oldest pending event, then try once more.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- event:
			default:
			}
		}
		sub.senders.Done()
	}
	return nil
}

// SubscriberCount reports the number of live subscriptions.
func (b *Bus[T]) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close detaches all subscribers and closes their channels. Further
// publishes fail with ErrClosed. Close is idempotent.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*Subscription[T], 0, len(b.subs))
	for id, sub := range b.subs {
		delete(b.subs, id)
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		sub.detach()
	}
}
