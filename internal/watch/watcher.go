// Package watch monitors dataset members on disk and reports changes
// so the grid can reload affected panels.
package watch

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/igridvu/igridvu/internal/errs"
	"github.com/igridvu/igridvu/internal/logx"
)

// DatasetWatcher watches the directories containing dataset members
// and invokes a callback with the members whose contents changed.
// Rapid event bursts (editors often write a file several times in a
// row) are coalesced by a debounce window.
type DatasetWatcher struct {
	// Member paths being tracked, cleaned
	paths map[string]struct{}

	// Directories currently registered with fsnotify
	dirs map[string]struct{}

	// Quiet period before a change batch is delivered
	debounce time.Duration

	// Invoked from the watcher goroutine with sorted changed paths
	onChange func([]string)

	// Channel to signal stop
	stopChan chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	// Lock for running state and the path set
	mutex sync.RWMutex

	// Whether the watcher is running
	running bool
}

// New creates a dataset watcher. The callback runs on the watcher's
// goroutine, not the UI event loop, so it must stick to code that is
// safe off the main goroutine, such as the state's synchronized
// reload methods.
func New(debounce time.Duration, onChange func(changed []string)) (*DatasetWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.Wrap(err, "failed to create fsnotify watcher")
	}

	return &DatasetWatcher{
		paths:     make(map[string]struct{}),
		dirs:      make(map[string]struct{}),
		debounce:  debounce,
		onChange:  onChange,
		stopChan:  make(chan struct{}),
		fsWatcher: fsWatcher,
	}, nil
}

// SetPaths re-points the watcher at a new set of member paths. Parent
// directories are registered with fsnotify only while the watcher is
// running; a stopped watcher just remembers the set for the next Start.
// Directories that do not exist yet are skipped; a member created later
// in an already-watched directory is still seen.
func (w *DatasetWatcher) SetPaths(paths []string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.paths = make(map[string]struct{}, len(paths))
	for _, p := range paths {
		w.paths[filepath.Clean(p)] = struct{}{}
	}

	if w.running {
		w.syncDirsLocked()
	}
	return nil
}

// syncDirsLocked reconciles the fsnotify registrations with the parent
// directories of the current path set. Caller holds the mutex.
func (w *DatasetWatcher) syncDirsLocked() {
	needed := make(map[string]struct{})
	for p := range w.paths {
		needed[filepath.Dir(p)] = struct{}{}
	}

	for dir := range w.dirs {
		if _, ok := needed[dir]; !ok {
			if err := w.fsWatcher.Remove(dir); err != nil {
				logx.Logger().Debug("cannot unwatch directory", "dir", dir, "error", err)
			}
			delete(w.dirs, dir)
		}
	}

	for dir := range needed {
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			logx.Logger().Warn("cannot watch directory", "dir", dir, "error", err)
			continue
		}
		w.dirs[dir] = struct{}{}
	}

	logx.Logger().Debug("watching dataset", "members", len(w.paths), "dirs", len(w.dirs))
}

// Start begins delivering change batches for the current path set.
func (w *DatasetWatcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return errs.New("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.syncDirsLocked()
	w.mutex.Unlock()

	go w.loop()
	return nil
}

// loop is the event pump: it filters events down to tracked members,
// accumulates them under the debounce window, then fires the callback.
func (w *DatasetWatcher) loop() {
	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
				!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
				continue
			}
			name := filepath.Clean(event.Name)
			w.mutex.RLock()
			_, tracked := w.paths[name]
			w.mutex.RUnlock()
			if !tracked {
				continue
			}
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire:
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			pending = make(map[string]struct{})
			timer = nil
			fire = nil
			logx.Logger().Debug("dataset changed", "members", len(batch))
			if w.onChange != nil {
				w.onChange(batch)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logx.Logger().Warn("fsnotify watcher error", "error", err)

		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Stop halts delivery and unregisters all directories. The watcher can
// be started again; the tracked path set is retained.
func (w *DatasetWatcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)
	for dir := range w.dirs {
		if err := w.fsWatcher.Remove(dir); err != nil {
			logx.Logger().Debug("cannot unwatch directory", "dir", dir, "error", err)
		}
		delete(w.dirs, dir)
	}
	w.running = false
}

// Close stops the watcher and releases the underlying fsnotify watcher.
// The watcher cannot be restarted after Close.
func (w *DatasetWatcher) Close() {
	w.Stop()
	if err := w.fsWatcher.Close(); err != nil {
		logx.Logger().Warn("error closing fsnotify watcher", "error", err)
	}
}

// IsRunning returns whether the watcher is currently active.
func (w *DatasetWatcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
