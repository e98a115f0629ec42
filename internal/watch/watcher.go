// Package watch re-evaluates the entropy of a file's first line whenever the
// file changes on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"shannon/internal/entropy"
	"shannon/internal/logging"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Evaluation is the outcome of reading and analysing the watched file once.
type Evaluation struct {
	Path     string
	Input    string
	Analysis *entropy.Analysis
	Err      error
}

// Handler receives evaluations. It runs on the watcher goroutine.
type Handler func(Evaluation)

// Stats tracks watcher activity.
type Stats struct {
	Events      int
	Evaluations int
	Errors      int
	LastEvent   time.Time
	LastOp      string
}

// Watcher watches a single file. The parent directory is watched rather than
// the file itself so editors that replace files on save are still seen.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	path        string
	dir         string
	handler     Handler
	debounceDur time.Duration
	pending     time.Time // zero when nothing is pending
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	closeOnce   sync.Once

	stats Stats
}

// New creates a Watcher for path. debounce collapses bursts of events; zero
// evaluates on the next tick.
func New(path string, debounce time.Duration, handler Handler) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watch %s: nil handler", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Watcher{
		watcher:     fw,
		path:        abs,
		dir:         filepath.Dir(abs),
		handler:     handler,
		debounceDur: debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Evaluate reads the file's first line and analyses it.
func (w *Watcher) Evaluate() Evaluation {
	ev := Evaluation{Path: w.path}

	f, err := os.Open(w.path)
	if err != nil {
		ev.Err = err
		return ev
	}
	defer f.Close()

	ev.Input, ev.Err = entropy.ReadLine(f)
	if ev.Err != nil {
		return ev
	}
	ev.Analysis, ev.Err = entropy.Analyze(ev.Input)
	return ev
}

// Start begins watching. It is non-blocking; events are handled on a
// goroutine until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		w.close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logging.Get(logging.CategoryWatch).Debug("watching", zap.String("path", w.path))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.close()
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) close() {
	w.closeOnce.Do(func() {
		if err := w.watcher.Close(); err != nil {
			logging.Get(logging.CategoryWatch).Warn("close watcher", zap.Error(err))
		}
	})
}

func (w *Watcher) tick() time.Duration {
	switch {
	case w.debounceDur <= 0:
		return 10 * time.Millisecond
	case w.debounceDur < 100*time.Millisecond:
		return w.debounceDur
	default:
		return 100 * time.Millisecond
	}
}

// run is the main event loop for the watcher.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	log := logging.Get(logging.CategoryWatch)

	ticker := time.NewTicker(w.tick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.processPending()
		}
	}
}

// handleEvent records events for the watched file; everything else in the
// directory is ignored.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	now := time.Now()
	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEvent = now
	w.stats.LastOp = strings.ToLower(event.Op.String())
	w.pending = now
	w.mu.Unlock()
}

// processPending evaluates once the last event has settled past the debounce window.
func (w *Watcher) processPending() {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounceDur {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	ev := w.Evaluate()
	if os.IsNotExist(ev.Err) {
		// Removed or mid-replace; the next create will trigger again.
		logging.Get(logging.CategoryWatch).Debug("file missing", zap.String("path", w.path))
		return
	}

	w.mu.Lock()
	w.stats.Evaluations++
	if ev.Err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	w.handler(ev)
}
