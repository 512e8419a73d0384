package loader

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/meadow/internal/logger"
)

// watchDebounce groups the burst of events editors produce on save.
const watchDebounce = 200 * time.Millisecond

// Watcher reloads a model whenever its file changes on disk.
type Watcher struct {
	loader  *Loader
	path    string
	watcher *fsnotify.Watcher
	reloads chan *Future
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching path. The file's directory is watched so that
// editors which replace the file on save keep triggering reloads.
func (l *Loader) Watch(path string) (*Watcher, error) {
	resolved, err := l.assets.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("watching model: %w", err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return nil, fmt.Errorf("watching model: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		loader:  l,
		path:    abs,
		watcher: fw,
		reloads: make(chan *Future, 1),
		done:    make(chan struct{}),
	}
	go w.run()

	logger.Info("watching model for changes", zap.String("path", abs))
	return w, nil
}

func (w *Watcher) run() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			logger.Info("model changed, reloading", zap.String("path", w.path))
			f := w.loader.Reload(w.path)
			// Keep only the newest pending reload.
			select {
			case <-w.reloads:
			default:
			}
			w.reloads <- f

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("model watcher error", zap.Error(err))
		}
	}
}

// Poll returns a pending reload without blocking.
func (w *Watcher) Poll() (*Future, bool) {
	select {
	case f := <-w.reloads:
		return f, true
	default:
		return nil, false
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
