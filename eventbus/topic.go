package eventbus

import (
	"context"
	"sync"
)

// TopicBus routes events of type T by string topic. Each topic is backed by
// its own Bus created on first use.
type TopicBus[T any] struct {
	opts []Option

	mu     sync.Mutex
	closed bool
	topics map[string]*Bus[T]
}

// NewTopic builds a TopicBus; opts apply to every per-topic bus.
func NewTopic[T any](opts ...Option) *TopicBus[T] {
	return &TopicBus[T]{
		opts:   opts,
		topics: map[string]*Bus[T]{},
	}
}

func (t *TopicBus[T]) bus(topic string) (*Bus[T], bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, false
	}
	b, ok := t.topics[topic]
	if !ok {
		b = New[T](t.opts...)
		t.topics[topic] = b
	}
	return b, true
}

// Subscribe attaches to a topic.
func (t *TopicBus[T]) Subscribe(topic string) *Subscription[T] {
	b, ok := t.bus(topic)
	if !ok {
		sub := newSubscription[T](0)
		sub.detach()
		sub.cancel = func() {}
		return sub
	}
	return b.Subscribe()
}

// Publish delivers event to the topic's subscribers.
func (t *TopicBus[T]) Publish(ctx context.Context, topic string, event T) error {
	b, ok := t.bus(topic)
	if !ok {
		return ErrClosed
	}
	return b.Publish(ctx, event)
}

// Close closes every topic bus.
func (t *TopicBus[T]) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for topic, b := range t.topics {
		delete(t.topics, topic)
		b.Close()
	}
}
