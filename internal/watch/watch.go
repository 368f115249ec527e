// Package watch rebuilds a source tree whenever it changes.
//
// A Watcher registers every directory of the source tree with fsnotify, coalesces
// bursts of events with a quiet-window debounce and runs full rebuilds on a single
// worker goroutine, so builds never overlap. A change that arrives while a build runs
// queues exactly one follow-up build.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/adocbuild/internal/config"
	ferrors "git.home.luguber.info/inful/adocbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/adocbuild/internal/logfields"
)

// BuildFunc runs one full build.
type BuildFunc func(ctx context.Context) error

// Watcher triggers builds on source tree changes.
type Watcher struct {
	root     string
	ignored  []string
	debounce time.Duration
	build    BuildFunc
	logger   *slog.Logger
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet window that must pass without events before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnoredDir excludes dir and everything below it from watching. The build tree
// must be ignored when it lives inside the source tree.
func WithIgnoredDir(dir string) Option {
	return func(w *Watcher) {
		if abs, err := filepath.Abs(dir); err == nil {
			w.ignored = append(w.ignored, abs)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New returns a Watcher for the source directory root.
func New(root string, build BuildFunc, opts ...Option) (*Watcher, error) {
	if build == nil {
		return nil, ferrors.ValidationError("build function is required").Build()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, ferrors.FileSystemError("resolve source directory failed").
			WithCause(err).WithContext("path", root).Build()
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.NotFoundError("source directory not found").
			WithCause(err).WithContext("path", root).Build()
	}
	if err != nil {
		return nil, ferrors.FileSystemError("stat source directory failed").
			WithCause(err).WithContext("path", root).Build()
	}
	if !info.IsDir() {
		return nil, ferrors.ValidationError("source is not a directory").
			WithContext("path", root).Build()
	}

	w := &Watcher{
		root:     abs,
		debounce: config.DefaultWatchDebounce,
		build:    build,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run builds once, then rebuilds on every debounced change until ctx is done. A
// failed build is logged and watching continues. Run returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := w.setupFileWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fsw.Close() }()

	rebuildReq, trigger, stop := setupRebuildDebouncer(w.debounce)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.rebuildWorker(ctx, rebuildReq)
	}()

	// Initial build; queued after the watcher is registered so edits made while it
	// runs are not lost.
	rebuildReq <- struct{}{}
	w.logger.Info("Watching for changes", logfields.Source(w.root), slog.Duration("debounce", w.debounce))

	err = w.loop(ctx, fsw, trigger)
	wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, trigger func()) error {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watch")
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(fsw, ev, trigger)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// rebuildWorker runs builds one at a time. The request channel holds at most one
// pending request, which coalesces changes made during a build into one follow-up.
func (w *Watcher) rebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			if ctx.Err() != nil {
				return
			}
			start := time.Now()
			if err := w.build(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				w.logger.Warn("Rebuild failed", logfields.Error(err))
				continue
			}
			w.logger.Info("Rebuild finished", logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
		}
	}
}

func (w *Watcher) setupFileWatcher() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.RuntimeError("create file watcher failed").WithCause(err).Build()
	}
	if err := w.addDirsRecursive(fsw, w.root); err != nil {
		_ = fsw.Close()
		return nil, ferrors.FileSystemError("watch source directory failed").
			WithCause(err).WithContext("path", w.root).Build()
	}
	return fsw, nil
}

func (w *Watcher) handleFileEvent(fsw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if w.isIgnored(ev.Name) {
		return
	}
	fi, err := os.Stat(ev.Name)
	isDir := err == nil && fi.IsDir()
	if !isDir && shouldIgnoreEvent(ev.Name) {
		return
	}
	if isDir && ev.Has(fsnotify.Create) {
		_ = w.addDirsRecursive(fsw, ev.Name)
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// addDirsRecursive registers root and its subdirectories, following directory links
// the same way builds do. Hidden directories are mirrored by builds and are watched
// too. Unreadable directories are logged and skipped.
func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) error {
	if err := fsw.Add(root); err != nil {
		return err
	}
	seen := map[string]bool{}
	if real, err := filepath.EvalSymlinks(root); err == nil {
		seen[real] = true
	}
	var walk func(dir string)
	walk = func(dir string) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(dir), logfields.Error(err))
			return
		}
		for _, e := range entries {
			p := filepath.Join(dir, e.Name())
			if w.isIgnored(p) {
				continue
			}
			fi, err := os.Stat(p)
			if err != nil || !fi.IsDir() {
				continue
			}
			real, err := filepath.EvalSymlinks(p)
			if err != nil || seen[real] {
				continue
			}
			seen[real] = true
			if err := fsw.Add(p); err != nil {
				w.logger.Warn("Watch add failed", logfields.Path(p), logfields.Error(err))
				continue
			}
			walk(p)
		}
	}
	walk(root)
	return nil
}

func (w *Watcher) isIgnored(path string) bool {
	for _, dir := range w.ignored {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// setupRebuildDebouncer returns the rebuild request channel, a trigger that fires it
// once the quiet window passes, and a stop function for the pending timer.
func setupRebuildDebouncer(window time.Duration) (chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(window, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return rebuildReq, trigger, stop
}

// shouldIgnoreEvent returns true for file events that should not trigger rebuilds.
// It is never applied to directories.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including .# lock files
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db" || base == "4913"
}
