package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/tinyedit/internal/logging"
)

// DefaultDebounce is the quiet period before a changed file is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a configuration file when it changes on disk.
//
// The file's directory is watched rather than the file itself so that
// editors which replace the file on save are still observed. Bursts of
// events are coalesced into one reload.
type Watcher struct {
	mu sync.Mutex

	path     string
	fsw      *fsnotify.Watcher
	delay    time.Duration
	loader   func(path string) (Config, error)
	onChange func(Config)
	onError  func(error)
	logger   *logging.Logger

	timer    *time.Timer
	reloads  int
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLoader replaces Load as the reload function.
func WithLoader(fn func(path string) (Config, error)) WatcherOption {
	return func(w *Watcher) {
		if fn != nil {
			w.loader = fn
		}
	}
}

// WithErrorHandler receives reload and watch errors.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// WithWatchLogger sets the logger.
func WithWatchLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watch starts watching path. onChange is called from the watcher's own
// goroutine with each successfully reloaded configuration.
func Watch(path string, onChange func(Config), opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		delay:    DefaultDebounce,
		loader:   Load,
		onChange: onChange,
		logger:   logging.Null(),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("config-watcher")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw

	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Reloads returns the number of successful reloads so far.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.closedWg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()
	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("config event: %s", ev.Op)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.mu.Unlock()

	cfg, err := w.loader(w.path)
	if err != nil {
		w.report(fmt.Errorf("reloading %s: %w", w.path, err))
		return
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
	w.logger.Info("configuration reloaded from %s", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

func (w *Watcher) report(err error) {
	w.logger.Warn("%v", err)
	if w.onError != nil {
		w.onError(err)
	}
}
