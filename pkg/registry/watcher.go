package registry

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Watcher keeps a workspace registry fresh. It reloads on filesystem events
// for manifest files and additionally on a cron schedule, which catches
// edits that never produce an event (network filesystems, editors that
// replace directories).
type Watcher struct {
	loader   *Loader
	onReload func(*Registry)
	log      *logrus.Logger

	fsWatcher *fsnotify.Watcher
	cron      *cron.Cron

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// NewWatcher creates a watcher over the loader's workspace. schedule is a
// cron expression for the fallback rescan; onReload receives each freshly
// loaded registry. Load failures are logged and the previous registry stays
// in effect.
func NewWatcher(loader *Loader, schedule string, onReload func(*Registry), log *logrus.Logger) (*Watcher, error) {
	if log == nil {
		log = logrus.New()
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(loader.dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		loader:    loader,
		onReload:  onReload,
		log:       log,
		fsWatcher: fsWatcher,
		cron:      cron.New(),
		done:      make(chan struct{}),
	}
	if _, err := w.cron.AddFunc(schedule, w.reload); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// Start begins watching until Stop is called.
func (w *Watcher) Start() {
	w.cron.Start()
	go w.loop()
}

// Stop shuts the watcher down. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	w.cron.Stop()
	w.fsWatcher.Close()
	<-w.done
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !isManifest(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.log.WithField("path", event.Name).Debug("manifest changed")
				w.reload()
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("workspace watch error")
		}
	}
}

func (w *Watcher) reload() {
	reg, err := w.loader.Load()
	if err != nil {
		w.log.WithError(err).Error("workspace reload failed, keeping previous registry")
		return
	}
	w.onReload(reg)
}

func isManifest(path string) bool {
	ext := filepath.Ext(path)
	return strings.EqualFold(ext, ".yaml") || strings.EqualFold(ext, ".yml")
}
