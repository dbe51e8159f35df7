package store

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"acqos/internal/logging"
)

// watchDebounce batches the burst of events one save produces.
const watchDebounce = 100 * time.Millisecond

// Watcher calls a function when the file holding the record changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	fn      func()
	stopCh  chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

// Watch starts watching path and calls fn after changes settle. Sidecar
// files sharing the base name (SQLite -wal and -shm) count as changes.
// Watching stops when ctx is cancelled or Close is called.
func Watch(ctx context.Context, path string, fn func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		path:    path,
		fn:      fn,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	logging.Store("Watcher: watching %s", path)
	go w.run(ctx)
	return w, nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer w.watcher.Close()

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.StoreDebug("Watcher: context cancelled")
			return

		case <-w.stopCh:
			logging.StoreDebug("Watcher: stop signal received")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.StoreError("Watcher error: %v", err)

		case <-timer.C:
			w.fn()
		}
	}
}

func (w *Watcher) matches(name string) bool {
	return strings.HasPrefix(filepath.Base(name), filepath.Base(w.path))
}

// Close stops the watcher and waits for it to exit.
func (w *Watcher) Close() {
	w.once.Do(func() { close(w.stopCh) })
	<-w.doneCh
}
