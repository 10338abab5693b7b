package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 150 * time.Millisecond

// ReloadedMsg carries the result of re-reading a watched document.
type ReloadedMsg struct {
	Doc *Document
	Err error
}

// Load reads and parses the markdown file at path.
func Load(path string, opts ...Option) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return Parse(filepath.Base(path), src, opts...)
}

// Watcher reloads a document when its file changes on disk.
type Watcher struct {
	path     string
	opts     []Option
	debounce time.Duration
	clock    clock.Clock
	logger   *zap.Logger
	onReload func(ReloadedMsg)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the settle time between the last write and the reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the watcher logger.
func WithLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = logger }
}

// WithParseOptions sets the options used for every reload.
func WithParseOptions(opts ...Option) WatcherOption {
	return func(w *Watcher) { w.opts = opts }
}

// NewWatcher creates a watcher for path that hands every reload to onReload.
func NewWatcher(path string, onReload func(ReloadedMsg), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		clock:    clock.RealClock{},
		logger:   zap.NewNop(),
		onReload: onReload,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

// Run watches until ctx is cancelled. The parent directory is watched so
// editors that replace the file on save are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}
	w.logger.Info("watching document", zap.String("path", w.path))

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				settle = w.clock.After(w.debounce)
			}

		case <-settle:
			settle = nil
			doc, err := Load(w.path, w.opts...)
			if err != nil {
				w.logger.Warn("reload failed", zap.Error(err))
			} else {
				w.logger.Debug("document reloaded", zap.Int("sections", len(doc.Sections)))
			}
			if w.onReload != nil {
				w.onReload(ReloadedMsg{Doc: doc, Err: err})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}
