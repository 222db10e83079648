// Package watch re-runs analysis when source files under a root change.
package watch

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/panbanda/tangle/pkg/config"
	"github.com/panbanda/tangle/pkg/parser"
)

// DefaultDebounce is the quiet period after the last change before the
// callback runs.
const DefaultDebounce = 500 * time.Millisecond

const tick = 100 * time.Millisecond

// Watcher monitors source files and calls back with each settled batch of
// changes. Batches never overlap: the next one is collected while the
// callback runs and delivered after it returns.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	debounce  time.Duration
	root      string
	callback  func(changed []string)
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	last    time.Time
}

// NewWatcher creates a new file watcher rooted at root.
func NewWatcher(root string, cfg *config.Config, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		debounce:  debounce,
		root:      root,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		pending:   make(map[string]struct{}),
	}, nil
}

// SetCallback sets the function called with the sorted root-relative paths
// of changed files.
func (w *Watcher) SetCallback(cb func(changed []string)) {
	w.callback = cb
}

// SetLogger sets the logger for watch errors.
func (w *Watcher) SetLogger(l *slog.Logger) {
	if l != nil {
		w.logger = l
	}
}

// Start watches until ctx is done. Every directory under the root that is
// not excluded is watched, including directories created later.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.processDebounced(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, time.Now())

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// addTree adds dir and its subdirectories. Symbolic links are not followed.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.config.IsExcludedDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

// handleEvent records a change to a source file.
func (w *Watcher) handleEvent(event fsnotify.Event, at time.Time) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	if event.Op&fsnotify.Create != 0 && isDir(event.Name) {
		if !w.config.IsExcludedDir(filepath.Base(event.Name)) {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("watch new directory", "path", rel, "error", err)
			}
		}
		return
	}

	if parser.DetectLanguage(rel) == parser.LangUnknown || w.config.ShouldExclude(rel) {
		return
	}

	w.mu.Lock()
	w.pending[rel] = struct{}{}
	w.last = at
	w.mu.Unlock()
}

// processDebounced delivers settled batches until ctx is done.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if batch := w.takeSettled(now); len(batch) > 0 && w.callback != nil {
				w.callback(batch)
			}
		}
	}
}

// takeSettled returns and clears the pending paths once no change has
// arrived for the debounce period.
func (w *Watcher) takeSettled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) == 0 || now.Sub(w.last) < w.debounce {
		return nil
	}

	batch := make([]string, 0, len(w.pending))
	for p := range w.pending {
		batch = append(batch, p)
	}
	sort.Strings(batch)
	clear(w.pending)
	return batch
}

func isDir(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.IsDir()
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedDirs returns the watched directories, sorted.
func (w *Watcher) WatchedDirs() []string {
	dirs := w.fsWatcher.WatchList()
	sort.Strings(dirs)
	return dirs
}
