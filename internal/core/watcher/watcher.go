// # internal/core/watcher/watcher.go
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	domainerrors "cyclewatch/internal/core/errors"
	"cyclewatch/internal/shared/observability"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Kind classifies a filesystem notification.
type Kind int

const (
	KindWrite Kind = iota
	KindCreate
	KindRemove
	KindRename
)

func (k Kind) String() string {
	switch k {
	case KindWrite:
		return "write"
	case KindCreate:
		return "create"
	case KindRemove:
		return "remove"
	case KindRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Notification is one change batch. Paths are slash-separated and relative to
// the watcher base directory when they live under it.
type Notification struct {
	Paths []string
	Kind  Kind
}

func (n Notification) IsRemoval() bool {
	return n.Kind == KindRemove
}

// Classify maps an fsnotify op to a Kind. Chmod-only events are not relevant.
func Classify(op fsnotify.Op) (Kind, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return KindRemove, true
	case op.Has(fsnotify.Rename):
		return KindRename, true
	case op.Has(fsnotify.Create):
		return KindCreate, true
	case op.Has(fsnotify.Write):
		return KindWrite, true
	default:
		return 0, false
	}
}

type Watcher struct {
	fsWatcher   *fsnotify.Watcher
	base        string
	excludeDirs []glob.Glob

	notifications chan Notification
	errs          chan error
	done          chan struct{}
	closeOnce     sync.Once
	started       bool

	// walked holds files reported by emitExistingFiles whose own Create
	// event may still arrive. Owned by the run goroutine.
	walked map[string]bool
}

// NewWatcher creates a watcher that reports paths relative to base. An empty
// base means the current working directory.
func NewWatcher(base string, excludeDirs []string) (*Watcher, error) {
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeWatchSetupFailed, "resolve working directory")
		}
		base = wd
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeWatchSetupFailed, "resolve watch base")
	}

	compiled := make([]glob.Glob, 0, len(excludeDirs))
	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, domainerrors.AddContext(
				domainerrors.Wrap(err, domainerrors.CodeWatchSetupFailed, "invalid exclude pattern"),
				domainerrors.CtxPath, pattern,
			)
		}
		compiled = append(compiled, g)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeWatchSetupFailed, "create filesystem watcher")
	}

	return &Watcher{
		fsWatcher:     fsw,
		base:          absBase,
		excludeDirs:   compiled,
		notifications: make(chan Notification, 64),
		errs:          make(chan error, 16),
		done:          make(chan struct{}),
		walked:        make(map[string]bool),
	}, nil
}

func (w *Watcher) Notifications() <-chan Notification {
	return w.notifications
}

func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Watch registers every directory under roots, skipping excluded directories,
// and starts delivering notifications. Relative roots resolve against base.
func (w *Watcher) Watch(roots []string) error {
	for _, root := range roots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(w.base, root)
		}
		if err := w.watchRecursive(root); err != nil {
			return domainerrors.AddContext(
				domainerrors.Wrap(err, domainerrors.CodeWatchSetupFailed, "watch directory tree"),
				domainerrors.CtxPath, root,
			)
		}
	}

	if !w.started {
		w.started = true
		go w.run()
	}
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && w.shouldExcludeDir(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) run() {
	defer close(w.notifications)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			observability.WatcherErrorsTotal.Inc()
			select {
			case w.errs <- err:
			default:
				slog.Warn("watcher error dropped", "error", err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	kind, ok := Classify(event.Op)
	if !ok {
		return
	}

	switch kind {
	case KindCreate:
		if w.walked[event.Name] {
			delete(w.walked, event.Name)
			return
		}
	case KindRemove, KindRename:
		delete(w.walked, event.Name)
	}

	if kind == KindCreate {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.shouldExcludeDir(event.Name) {
				return
			}
			if err := w.watchRecursive(event.Name); err != nil {
				slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
				return
			}
			w.emitExistingFiles(event.Name)
			return
		}
	}

	w.emit(Notification{Paths: []string{Relativize(w.base, event.Name)}, Kind: kind})
}

// emitExistingFiles reports files that appeared in a new directory before it
// was registered.
func (w *Watcher) emitExistingFiles(root string) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}
		if info.IsDir() {
			if path != root && w.shouldExcludeDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		w.walked[path] = true
		w.emit(Notification{Paths: []string{Relativize(w.base, path)}, Kind: KindCreate})
		return nil
	})
}

func (w *Watcher) emit(n Notification) {
	select {
	case w.notifications <- n:
	case <-w.done:
	}
}

func (w *Watcher) shouldExcludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

// Relativize makes path relative to base when it lies under base, and
// normalizes it to forward slashes.
func Relativize(base, path string) string {
	if filepath.IsAbs(path) && base != "" {
		if rel, err := filepath.Rel(base, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			path = rel
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}
