package cfg

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event signals that a watched config file changed in an observable way.
type Event struct {
	File string
}

type WatchOption func(*watchState)

type watchState struct {
	debounce time.Duration
	keys     []string
}

func WithDebounce(d time.Duration) WatchOption {
	return func(s *watchState) { s.debounce = d }
}

// WithKeys narrows change detection to the named keys.
func WithKeys(keys ...string) WatchOption {
	return func(s *watchState) { s.keys = append(s.keys, keys...) }
}

// Watch emits an Event when the file's observed settings change. Rapid
// rewrites are coalesced by the debounce window (200ms by default). The
// returned stop function closes the channel; events after stop are dropped.
// Stop ends delivery only: viper has no unwatch, so the underlying fsnotify
// watcher goroutine stays alive for the process lifetime. Leak checks must
// account for it (goleak.IgnoreAnyFunction on viper's WatchConfig func).
func Watch(path string, opts ...WatchOption) (<-chan Event, func(), error) {
	ws := watchState{debounce: 200 * time.Millisecond}
	for _, opt := range opts {
		if opt != nil {
			opt(&ws)
		}
	}
	v, err := load(parse([]Option{WithFile(path)}))
	if err != nil {
		return nil, nil, err
	}

	out := make(chan Event, 1)
	var mu sync.Mutex
	var timer *time.Timer
	stopped := false
	last := snapshot(v, ws.keys)

	send := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		select {
		case out <- Event{File: path}:
		default:
		}
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		mu.Lock()
		if stopped {
			mu.Unlock()
			return
		}
		next := snapshot(v, ws.keys)
		if next == last {
			mu.Unlock()
			return
		}
		last = next
		if ws.debounce <= 0 {
			mu.Unlock()
			send()
			return
		}
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(ws.debounce, send)
		mu.Unlock()
	})
	v.WatchConfig()

	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		stopped = true
		if timer != nil {
			timer.Stop()
		}
		close(out)
	}
	return out, stop, nil
}

func snapshot(v interface {
	AllSettings() map[string]any
	Get(string) any
}, keys []string) string {
	if len(keys) == 0 {
		return fmt.Sprintf("%v", v.AllSettings())
	}
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, fmt.Sprintf("%s=%v", key, v.Get(key)))
	}
	return strings.Join(out, "|")
}
