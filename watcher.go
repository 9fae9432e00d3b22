package benchtop

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher reloads the engine's registry when descriptor files change.
// Bursts of events (editors often write, chmod, and rename in quick
// succession) are coalesced with a short debounce before a single reload.
type watcher struct {
	engine   *Engine
	fsw      *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

const debounceInterval = 500 * time.Millisecond

func newWatcher(e *Engine) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(e.toolsDir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &watcher{engine: e, fsw: fsw, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *watcher) run() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !isDescriptorFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.engine.logger.Debug("descriptor change detected", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounceInterval)
				fire = timer.C
			} else {
				timer.Reset(debounceInterval)
			}

		case <-fire:
			timer = nil
			fire = nil
			// Reload keeps the previous snapshot on failure, so a
			// half-written file only costs a logged error.
			_ = w.engine.Reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.engine.logger.Warn("descriptor watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *watcher) stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func isDescriptorFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
