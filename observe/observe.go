// Package observe holds a mutable value and notifies subscribers on change.
package observe

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Set and Update after Close.
var ErrClosed = errors.New("observe: value closed")

const subscriberBuffer = 16

// Value wraps a T whose changes can be observed.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[*Subscription[T]]struct{}
	closed  bool
}

// Subscription receives change notifications for one subscriber.
type Subscription[T any] struct {
	ch       chan T
	once     sync.Once
	cancel   func(s *Subscription[T])
	distinct bool
	equal    func(a, b T) bool
	hasLast  bool
	last     T
}

// C is the channel change notifications arrive on. It is closed when the
// subscription is cancelled or the value is closed.
func (s *Subscription[T]) C() <-chan T { return s.ch }

// Unsubscribe stops delivery and closes the channel. Safe to call twice.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.cancel(s)
		close(s.ch)
	})
}

// NewValue builds a Value starting at initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    map[*Subscription[T]]struct{}{},
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the value and notifies subscribers. Slow subscribers have
// their oldest pending notification evicted rather than blocking Set.
func (v *Value[T]) Set(value T) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrClosed
	}
	v.current = value
	v.notifyLocked(value)
	return nil
}

// Update applies fn to the current value and stores the result, all under
// the value's lock.
func (v *Value[T]) Update(fn func(T) T) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrClosed
	}
	v.current = fn(v.current)
	v.notifyLocked(v.current)
	return nil
}

func (v *Value[T]) notifyLocked(value T) {
	for sub := range v.subs {
		if sub.distinct && sub.hasLast && sub.equal(sub.last, value) {
			continue
		}
		sub.last = value
		sub.hasLast = true
		select {
		case sub.ch <- value:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- value:
			default:
			}
		}
	}
}

// SubscribeOption tunes a subscription.
type SubscribeOption[T any] func(*subscribeConfig[T])

type subscribeConfig[T any] struct {
	replay   bool
	distinct bool
	equal    func(a, b T) bool
}

// WithReplay delivers the current value immediately on subscribe.
func WithReplay[T any]() SubscribeOption[T] {
	return func(c *subscribeConfig[T]) { c.replay = true }
}

// WithDistinct suppresses notifications whose value equals the last one
// this subscriber saw, as decided by equal.
func WithDistinct[T any](equal func(a, b T) bool) SubscribeOption[T] {
	return func(c *subscribeConfig[T]) {
		c.distinct = true
		c.equal = equal
	}
}

// Subscribe registers a new observer. Subscribing to a closed value yields
// an already-closed subscription.
func (v *Value[T]) Subscribe(opts ...SubscribeOption[T]) *Subscription[T] {
	var cfg subscribeConfig[T]
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	sub := &Subscription[T]{
		ch:       make(chan T, subscriberBuffer),
		distinct: cfg.distinct,
		equal:    cfg.equal,
		cancel: func(s *Subscription[T]) {
			v.mu.Lock()
			delete(v.subs, s)
			v.mu.Unlock()
		},
	}
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		close(sub.ch)
		sub.once.Do(func() {})
		return sub
	}
	v.subs[sub] = struct{}{}
	if cfg.replay {
		sub.last = v.current
		sub.hasLast = true
		sub.ch <- v.current
	}
	v.mu.Unlock()
	return sub
}

// SubscriberCount reports the number of live subscriptions.
func (v *Value[T]) SubscriberCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// Close detaches all subscribers and closes their channels. Idempotent.
func (v *Value[T]) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	subs := v.subs
	v.subs = map[*Subscription[T]]struct{}{}
	v.mu.Unlock()

	for sub := range subs {
		sub.once.Do(func() { close(sub.ch) })
	}
}
