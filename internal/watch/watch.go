// Package watch observes a project directory for document changes and feeds
// them to the menu controller as document-changed events. Events are
// debounced and delivered through the dispatch scheduler, so subscribers
// always run on the host loop rather than on the watcher goroutine.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/stagecraft-labs/pipemenu/internal/controller"
	"github.com/stagecraft-labs/pipemenu/internal/dispatch"
)

// debounceDelay coalesces filesystem event bursts from editors that write
// a document in several operations.
const debounceDelay = 200 * time.Millisecond

// Watcher is a DocumentSource backed by fsnotify.
type Watcher struct {
	dir        string
	extensions map[string]struct{}
	scheduler  dispatch.Scheduler
	logger     *slog.Logger

	mu       sync.Mutex
	active   string
	handlers map[uuid.UUID]func(path string)
}

// New creates a watcher over dir. Only files whose extension appears in
// extensions count as documents; an empty list accepts every file.
func New(dir string, extensions []string, scheduler dispatch.Scheduler, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}
	return &Watcher{
		dir:        dir,
		extensions: exts,
		scheduler:  scheduler,
		logger:     logger,
		handlers:   make(map[uuid.UUID]func(string)),
	}
}

// ActiveDocumentPath returns the most recently changed document, or "".
func (w *Watcher) ActiveDocumentPath() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Subscribe registers a handler for document changes. Handlers run on the
// scheduler, never on the watcher goroutine.
func (w *Watcher) Subscribe(fn func(path string)) *controller.Subscription {
	id := uuid.New()
	w.mu.Lock()
	w.handlers[id] = fn
	w.mu.Unlock()

	return controller.NewSubscription(func() {
		w.mu.Lock()
		delete(w.handlers, id)
		w.mu.Unlock()
	})
}

// Run watches until ctx is cancelled. Directories created while watching
// are added to the watch set; watch failures on individual directories are
// logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, w.dir); err != nil {
		w.logger.Error("failed to watch project directory", slog.String("dir", w.dir), "error", err)
		return err
	}
	w.logger.Debug("watching for document changes", slog.String("dir", w.dir))

	var debounceTimer *time.Timer
	var pending string

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Newly created directories join the watch set.
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := watchDirRecursive(watcher, event.Name); addErr != nil {
						w.logger.Warn("failed to watch new directory",
							slog.String("dir", event.Name), "error", addErr)
					}
					continue
				}
			}

			if !w.isDocument(event.Name) {
				continue
			}

			pending = event.Name
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			path := pending
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				w.documentChanged(path)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) isDocument(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	_, ok := w.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// documentChanged records the new active document and fans out to the
// handlers via the scheduler.
func (w *Watcher) documentChanged(path string) {
	w.mu.Lock()
	w.active = path
	fns := make([]func(string), 0, len(w.handlers))
	for _, fn := range w.handlers {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	w.logger.Debug("document changed", slog.String("path", path))

	w.scheduler.Post(func() {
		for _, fn := range fns {
			fn(path)
		}
	})
}

// watchDirRecursive adds dir and every subdirectory to the watch set.
// Non-directories are ignored.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
}
