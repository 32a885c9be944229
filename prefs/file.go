package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
)

type fileStore struct {
	path string
	mode os.FileMode

	mu     sync.Mutex
	data   map[string]string
	closed bool
	notify *notifier
}

type FileOption func(*fileStore)

// WithFileMode overrides the permission bits used for the store file.
func WithFileMode(mode os.FileMode) FileOption {
	return func(s *fileStore) { s.mode = mode }
}

// File returns a Store persisted as a flat JSON object at path. Every
// mutation is written atomically (temp file + rename). It supports Watch.
func File(path string, opts ...FileOption) (Store, error) {
	s := &fileStore{
		path:   path,
		mode:   0o600,
		data:   map[string]string{},
		notify: newNotifier(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("prefs: read %s: %w", s.path, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return fmt.Errorf("prefs: parse %s: %w", s.path, err)
	}
	return nil
}

// persist must be called with s.mu held.
func (s *fileStore) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("prefs: create dir for %s: %w", s.path, err)
		}
	}
	if err := renameio.WriteFile(s.path, raw, s.mode); err != nil {
		return fmt.Errorf("prefs: write %s: %w", s.path, err)
	}
	return nil
}

func (s *fileStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *fileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	previous, existed := s.data[key]
	s.data[key] = value
	if err := s.persist(); err != nil {
		if existed {
			s.data[key] = previous
		} else {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.notify.publish(Change{Key: key, Value: value})
	return nil
}

func (s *fileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	previous, existed := s.data[key]
	if !existed {
		s.mu.Unlock()
		return nil
	}
	delete(s.data, key)
	if err := s.persist(); err != nil {
		s.data[key] = previous
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.notify.publish(Change{Key: key, Deleted: true})
	return nil
}

func (s *fileStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *fileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	previous := s.data
	s.data = map[string]string{}
	if err := s.persist(); err != nil {
		s.data = previous
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	for key := range previous {
		s.notify.publish(Change{Key: key, Deleted: true})
	}
	return nil
}

func (s *fileStore) Close() error {
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

func (s *fileStore) Watch(key string) (<-chan Change, func()) {
	return s.notify.subscribe(key)
}
