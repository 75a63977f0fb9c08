package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events a single write produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports, debounced, when the data behind a Loader changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	log      *zap.Logger
	debounce time.Duration
	match    func(string) bool
	recurse  bool
	changes  chan struct{}
}

// Watch starts watching the files behind l. Only StoreLoader and
// SnapshotLoader sources can be watched.
func Watch(l Loader, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		fs:       fw,
		log:      log,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
	}

	switch src := l.(type) {
	case *StoreLoader:
		w.recurse = true
		w.match = func(string) bool { return true }
		err = w.addTree(src.Store().ObjectsDir())
	case *SnapshotLoader:
		target := filepath.Clean(src.Name())
		w.match = func(name string) bool { return filepath.Clean(name) == target }
		// watch the directory so atomic renames are seen
		err = fw.Add(filepath.Dir(target))
	default:
		err = fmt.Errorf("source %T cannot be watched", l)
	}
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", l.Name(), err)
	}
	return w, nil
}

// addTree watches dir and its immediate subdirectories (the fan-out
// directories of an object store).
func (w *Watcher) addTree(dir string) error {
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := w.fs.Add(filepath.Join(dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// Changes delivers one value per debounced burst of changes.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run processes filesystem events until ctx is cancelled or the watcher
// is closed.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.handle(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if w.recurse && ev.Op&fsnotify.Create != 0 && isDir(ev.Name) {
		if err := w.fs.Add(ev.Name); err != nil {
			w.log.Warn("watch new directory", zap.String("path", ev.Name), zap.Error(err))
		}
	}
	if !w.match(ev.Name) {
		return false
	}
	w.log.Debug("source changed", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
	return true
}

// Close stops watching; a running Run returns.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
