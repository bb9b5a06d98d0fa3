package registry

import (
	"os"
	"sync"
	"time"
)

// Watcher polls the files of a Source and reloads the registry into a
// Store when one of them changes.
type Watcher struct {
	store        *Store
	source       Source
	stopCh       chan struct{}
	stopOnce     sync.Once
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewWatcher(store *Store, source Source, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		store:        store,
		source:       source,
		stopCh:       make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *Watcher) Start() {
	w.scan()
	go w.run()
}

// Stop ends polling. It may be called more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

func (w *Watcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if w.scan() {
				w.reload()
			}
		}
	}
}

// scan records modification times and reports whether any file changed,
// appeared or disappeared since the previous scan.
func (w *Watcher) scan() bool {
	changed := false
	current := make(map[string]bool)

	for _, path := range w.source.Files() {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		current[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			changed = true
		}
	}

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			changed = true
		}
	}
	return changed
}

func (w *Watcher) reload() {
	reg, err := Load(w.source)
	if err != nil {
		log.Errorf("registry reload: %s", err)
	}
	w.store.Swap(reg)
	log.Infof("registry reloaded, generation %d", reg.Generation)
}
