package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"wheelwright/internal/config"
	"wheelwright/internal/logging"
)

// Watcher monitors a project tree for source changes and emits a debounced
// trigger per burst of filesystem events. Directories created while watching
// are picked up automatically.
type Watcher struct {
	root       string
	debounce   time.Duration
	extensions map[string]struct{}
	ignoreDirs map[string]struct{}
	logger     *slog.Logger

	fw       *fsnotify.Watcher
	triggers chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// New constructs a watcher over the project root described by cfg.
func New(cfg *config.Config, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	root, err := filepath.Abs(cfg.Project.Root)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	if logger == nil {
		logger = logging.NewNop()
	}

	extensions := make(map[string]struct{}, len(cfg.Watch.Extensions))
	for _, ext := range cfg.Watch.Extensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}
	ignoreDirs := make(map[string]struct{}, len(cfg.Watch.IgnoreDirs))
	for _, dir := range cfg.Watch.IgnoreDirs {
		ignoreDirs[dir] = struct{}{}
	}

	return &Watcher{
		root:       root,
		debounce:   time.Duration(cfg.Watch.DebounceSeconds) * time.Second,
		extensions: extensions,
		ignoreDirs: ignoreDirs,
		logger:     logging.WithComponent(logger, "watch"),
		fw:         fw,
		triggers:   make(chan struct{}, 1),
	}, nil
}

// Triggers returns the channel a debounced change burst is announced on.
func (w *Watcher) Triggers() <-chan struct{} {
	return w.triggers
}

// Start registers the project tree and begins processing events until ctx is
// cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addDirsRecursive(w.root); err != nil {
		return err
	}
	w.logger.Info("watching project", logging.String("root", w.root))
	go w.loop(ctx)
	return nil
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fw.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.ignored(event.Name) {
		return
	}

	// New directories need their own watch before changes inside them are
	// visible.
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirsRecursive(event.Name); err != nil {
				w.logger.Warn("watch new directory", logging.String("dir", event.Name), logging.Error(err))
			}
			return
		}
	}

	if !w.matchesExtension(event.Name) {
		return
	}

	w.logger.Debug("source change detected",
		logging.String("path", event.Name),
		logging.String("op", event.Op.String()))
	w.scheduleTrigger()
}

// scheduleTrigger collapses a burst of events into a single trigger emitted
// after the debounce window goes quiet.
func (w *Watcher) scheduleTrigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.triggers <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			w.logger.Warn("watch add failed", logging.String("dir", path), logging.Error(err))
		}
		return nil
	})
}

// ignored reports whether any path segment under the project root names an
// ignored or hidden directory.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return true
	}
	for _, segment := range strings.Split(rel, string(filepath.Separator)) {
		if segment == "." || segment == "" {
			continue
		}
		if _, ok := w.ignoreDirs[segment]; ok {
			return true
		}
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}

func (w *Watcher) matchesExtension(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	_, ok := w.extensions[ext]
	return ok
}
