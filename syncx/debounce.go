// Package syncx contains higher-order concurrency helpers: debounce,
// throttle, retry with backoff, memoization and bounded parallelism.
package syncx

import (
	"sync"
	"time"
)

// Debounce returns a trailing-edge debounced wrapper around fn: fn runs once
// the wrapper has been quiet for d. stop cancels any pending run.
func Debounce(d time.Duration, fn func()) (call func(), stop func()) {
	var mu sync.Mutex
	var timer *time.Timer

	call = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, fn)
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}
	return call, stop
}

// Throttle returns a leading-edge throttled wrapper around fn: at most one
// run per window d; calls inside the window are dropped.
func Throttle(d time.Duration, fn func()) func() {
	var mu sync.Mutex
	var last time.Time

	return func() {
		mu.Lock()
		now := time.Now()
		if now.Sub(last) < d {
			mu.Unlock()
			return
		}
		last = now
		mu.Unlock()
		fn()
	}
}
