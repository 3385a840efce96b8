package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long to wait for further directory events before
// rescanning the cache directory.
const debounceDelay = 500 * time.Millisecond

// Watcher keeps the cache size metrics current by watching the cache
// directory for file creation and removal.
type Watcher struct {
	cache   *Cache
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewWatcher creates a directory watcher for the given cache.
func NewWatcher(c *Cache, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(c.Dir()); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return &Watcher{cache: c, watcher: fsw, logger: logger}, nil
}

// Run publishes an initial scan, then updates the metrics after each burst
// of directory events. It blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	w.publish()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case _, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Debounce: rescan once the burst settles.
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				timer.Reset(debounceDelay)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("cache watcher error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			w.publish()
		}
	}
}

// publish rescans the cache directory and updates the gauges.
func (w *Watcher) publish() {
	stats, err := w.cache.Stats()
	if err != nil {
		w.logger.Warn("cache stats scan failed", "error", err)
		return
	}
	entriesGauge.Set(float64(stats.Entries))
	bytesGauge.Set(float64(stats.Bytes))
}
