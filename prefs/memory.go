package prefs

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
	notify *notifier
}

// Memory returns an in-process Store. It supports Watch.
func Memory() Store {
	return &memoryStore{
		data:   map[string]string{},
		notify: newNotifier(),
	}
}

func (s *memoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *memoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.data[key] = value
	s.mu.Unlock()
	s.notify.publish(Change{Key: key, Value: value})
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	_, existed := s.data[key]
	delete(s.data, key)
	s.mu.Unlock()
	if existed {
		s.notify.publish(Change{Key: key, Deleted: true})
	}
	return nil
}

func (s *memoryStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	cleared := make([]string, 0, len(s.data))
	for key := range s.data {
		cleared = append(cleared, key)
	}
	s.data = map[string]string{}
	s.mu.Unlock()
	for _, key := range cleared {
		s.notify.publish(Change{Key: key, Deleted: true})
	}
	return nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	s.notify.closeAll()
	return nil
}

func (s *memoryStore) Watch(key string) (<-chan Change, func()) {
	return s.notify.subscribe(key)
}
