package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/valkolaci/poolsched/pkg/log"
	"github.com/valkolaci/poolsched/pkg/metrics"
)

// Watcher reloads the configuration file when it changes and swaps the
// new snapshot into the store. A config that fails validation leaves
// the previous snapshot in place.
type Watcher struct {
	path    string
	store   *Store
	watcher *fsnotify.Watcher
	onSwap  func(*Snapshot)
	stopCh  chan struct{}
}

// NewWatcher creates a watcher for the given config file. onSwap, if
// non-nil, is called after every successful swap.
func NewWatcher(path string, store *Store, onSwap func(*Snapshot)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory rather than the file: editors and config
	// mounts replace the file, which would drop a direct watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &Watcher{
		path:    path,
		store:   store,
		watcher: fw,
		onSwap:  onSwap,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins the watch loop
func (w *Watcher) Start() {
	go w.run()
}

// Stop stops the watcher
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *Watcher) run() {
	logger := log.WithComponent("config-watcher")
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload(logger)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error().Err(err).Msg("config watch error")
		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) reload(logger zerolog.Logger) {
	snap, err := Load(w.path)
	if err != nil {
		metrics.SnapshotReloadFailures.Inc()
		logger.Error().Err(err).Str("path", w.path).Msg("config reload failed, keeping previous snapshot")
		return
	}
	w.store.Swap(snap)
	metrics.SnapshotReloadsTotal.Inc()
	logger.Info().Str("path", w.path).Msg("config reloaded")
	if w.onSwap != nil {
		w.onSwap(snap)
	}
}
