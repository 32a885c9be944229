// Package download runs HTTP downloads on a bounded worker pool.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"

	"github.com/bronystylecrazy/kompanion/randx"
	"github.com/bronystylecrazy/kompanion/syncx"
)

var (
	ErrQueueFull = errors.New("download: queue full")
	ErrStopped   = errors.New("download: manager stopped")
)

// Request describes one download. Filename defaults to the last URL path
// segment. OnProgress and OnDone are invoked from worker goroutines.
type Request struct {
	URL      string
	Filename string
	// OnProgress receives bytes written so far and the total size, or -1
	// when the server does not report one.
	OnProgress func(written, total int64)
	OnDone     func(Result)
}

// Result reports the outcome of a finished download.
type Result struct {
	ID    string
	URL   string
	Path  string
	Bytes int64
	Err   error
}

type job struct {
	id  string
	req Request
}

// Manager owns the queue and worker pool.
type Manager struct {
	config Config
	logger *zap.Logger
	client *http.Client

	queue chan job
	wg    sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// New builds a Manager and starts its workers.
func New(config Config, logger *zap.Logger) (*Manager, error) {
	config = config.withDefaults()
	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("download: create dir: %w", err)
	}
	m := &Manager{
		config: config,
		logger: logger,
		client: &http.Client{},
		queue:  make(chan job, config.QueueSize),
	}
	for i := 0; i < config.Workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}
	return m, nil
}

// Enqueue queues req and returns its ID without waiting for the
// download to run.
func (m *Manager) Enqueue(req Request) (string, error) {
	if _, err := url.ParseRequestURI(req.URL); err != nil {
		return "", fmt.Errorf("download: invalid url: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return "", ErrStopped
	}
	j := job{id: randx.ID(), req: req}
	select {
	case m.queue <- j:
		return j.id, nil
	default:
		return "", ErrQueueFull
	}
}

// Stop rejects new requests, drains queued downloads, and waits for the
// workers. The context bounds the wait; queued work is abandoned on
// expiry.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	close(m.queue)
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for j := range m.queue {
		res := m.process(j)
		if res.Err != nil {
			m.logger.Warn("download failed",
				zap.String("id", res.ID),
				zap.String("url", res.URL),
				zap.Error(res.Err),
			)
		} else {
			m.logger.Debug("download complete",
				zap.String("id", res.ID),
				zap.String("path", res.Path),
				zap.Int64("bytes", res.Bytes),
			)
		}
		if j.req.OnDone != nil {
			j.req.OnDone(res)
		}
	}
}

func (m *Manager) process(j job) Result {
	res := Result{ID: j.id, URL: j.req.URL}

	name := j.req.Filename
	if name == "" {
		if u, err := url.Parse(j.req.URL); err == nil {
			name = path.Base(u.Path)
		}
	}
	if name == "" || name == "." || name == "/" {
		name = j.id
	}
	dest := filepath.Join(m.config.Dir, filepath.Base(name))

	ctx, cancel := context.WithTimeout(context.Background(), m.config.Timeout)
	defer cancel()

	err := syncx.Retry(ctx, m.config.Retries+1, func(ctx context.Context) error {
		n, err := m.fetch(ctx, j.req, dest)
		if err != nil {
			return err
		}
		res.Bytes = n
		return nil
	}, syncx.WithBaseDelay(200*time.Millisecond))
	if err != nil {
		res.Err = err
		return res
	}
	res.Path = dest
	return res
}

// fetch performs one attempt. The file appears at dest only after the
// body was read completely.
func (m *Manager) fetch(ctx context.Context, req Request, dest string) (int64, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return 0, syncx.Permanent(err)
	}
	resp, err := m.client.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("download: unexpected status %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return 0, syncx.Permanent(err)
		}
		return 0, err
	}

	pending, err := renameio.TempFile("", dest)
	if err != nil {
		return 0, err
	}
	defer pending.Cleanup()

	var dst io.Writer = pending
	if req.OnProgress != nil {
		dst = &progressWriter{w: pending, total: resp.ContentLength, report: req.OnProgress}
	}
	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return 0, err
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return 0, err
	}
	return n, nil
}

type progressWriter struct {
	w       io.Writer
	written int64
	total   int64
	report  func(written, total int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	p.report(p.written, p.total)
	return n, err
}
