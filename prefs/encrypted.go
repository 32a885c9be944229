package prefs

import (
	"context"

	"github.com/bronystylecrazy/kompanion/cryptox"
)

type encryptedStore struct {
	inner      Store
	passphrase string
}

// Encrypted wraps a Store so that values are encrypted at rest with a key
// derived from the passphrase. Keys stay in plaintext. The wrapper is
// transparent: Get returns the decrypted value.
func Encrypted(inner Store, passphrase string) Store {
	return &encryptedStore{inner: inner, passphrase: passphrase}
}

func (s *encryptedStore) Get(ctx context.Context, key string) (string, bool, error) {
	encoded, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	plaintext, err := cryptox.DecryptString(s.passphrase, encoded)
	if err != nil {
		return "", false, err
	}
	return plaintext, true, nil
}

func (s *encryptedStore) Set(ctx context.Context, key, value string) error {
	encoded, err := cryptox.EncryptString(s.passphrase, value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, encoded)
}

func (s *encryptedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *encryptedStore) Keys(ctx context.Context) ([]string, error) {
	return s.inner.Keys(ctx)
}

func (s *encryptedStore) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}

func (s *encryptedStore) Close() error {
	return s.inner.Close()
}

// Watch forwards to the inner store when it supports notification,
// decrypting values in flight. Changes that fail to decrypt are dropped.
func (s *encryptedStore) Watch(key string) (<-chan Change, func()) {
	watcher, ok := s.inner.(Watcher)
	if !ok {
		ch := make(chan Change)
		close(ch)
		return ch, func() {}
	}
	in, cancel := watcher.Watch(key)
	out := make(chan Change, watchBuffer)
	go func() {
		defer close(out)
		for change := range in {
			if !change.Deleted {
				plaintext, err := cryptox.DecryptString(s.passphrase, change.Value)
				if err != nil {
					continue
				}
				change.Value = plaintext
			}
			out <- change
		}
	}()
	return out, cancel
}
