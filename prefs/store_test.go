package prefs

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func runStoreSuite(t *testing.T, open func(t *testing.T) Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		value, ok, err := s.Get(ctx, "absent")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if ok || value != "" {
			t.Fatalf("missing key returned (%q, %v)", value, ok)
		}
	})

	t.Run("set get delete", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		if err := s.Set(ctx, "theme", "dark"); err != nil {
			t.Fatalf("set: %v", err)
		}
		value, ok, err := s.Get(ctx, "theme")
		if err != nil || !ok || value != "dark" {
			t.Fatalf("get = (%q, %v, %v)", value, ok, err)
		}
		if err := s.Delete(ctx, "theme"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, ok, _ := s.Get(ctx, "theme"); ok {
			t.Fatalf("key survived delete")
		}
	})

	t.Run("keys and clear", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		for _, key := range []string{"a", "b", "c"} {
			if err := s.Set(ctx, key, key); err != nil {
				t.Fatalf("set %s: %v", key, err)
			}
		}
		keys, err := s.Keys(ctx)
		if err != nil {
			t.Fatalf("keys: %v", err)
		}
		sort.Strings(keys)
		if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
			t.Fatalf("keys = %v", keys)
		}
		if err := s.Clear(ctx); err != nil {
			t.Fatalf("clear: %v", err)
		}
		keys, err = s.Keys(ctx)
		if err != nil {
			t.Fatalf("keys after clear: %v", err)
		}
		if len(keys) != 0 {
			t.Fatalf("keys after clear = %v", keys)
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		s := open(t)
		if err := s.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("second close: %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return Memory() })
}

func TestFileStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := File(filepath.Join(t.TempDir(), "prefs.json"))
		if err != nil {
			t.Fatalf("open file store: %v", err)
		}
		return s
	})
}

func TestFileStorePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")

	s, err := File(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, "volume", "11"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := File(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	value, ok, err := reopened.Get(ctx, "volume")
	if err != nil || !ok || value != "11" {
		t.Fatalf("get after reopen = (%q, %v, %v)", value, ok, err)
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := File(path); err == nil {
		t.Fatalf("expected error for corrupt file")
	}
}

func TestWatchObservesChanges(t *testing.T) {
	ctx := context.Background()
	s := Memory()
	defer s.Close()

	all, cancelAll := s.(Watcher).Watch("")
	defer cancelAll()
	one, cancelOne := s.(Watcher).Watch("theme")
	defer cancelOne()

	if err := s.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "volume", "7"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Delete(ctx, "theme"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	expect := func(ch <-chan Change, want Change) {
		t.Helper()
		select {
		case got := <-ch:
			if got != want {
				t.Fatalf("change = %+v, want %+v", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %+v", want)
		}
	}

	expect(all, Change{Key: "theme", Value: "dark"})
	expect(all, Change{Key: "volume", Value: "7"})
	expect(all, Change{Key: "theme", Deleted: true})

	expect(one, Change{Key: "theme", Value: "dark"})
	expect(one, Change{Key: "theme", Deleted: true})
}

func TestWatchCancelIsIdempotent(t *testing.T) {
	s := Memory()
	defer s.Close()
	ch, cancel := s.(Watcher).Watch("")
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after cancel")
	}
}

func TestClosedStoreReturnsErrClosed(t *testing.T) {
	ctx := context.Background()
	s := Memory()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Set(ctx, "k", "v"); err != ErrClosed {
		t.Fatalf("set after close = %v, want ErrClosed", err)
	}
	if _, _, err := s.Get(ctx, "k"); err != ErrClosed {
		t.Fatalf("get after close = %v, want ErrClosed", err)
	}
}
