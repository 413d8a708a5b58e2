package biome

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the rules file for changes and swaps a freshly loaded
// registry into the provider. A reload that fails validation is logged and
// discarded; the previous registry stays in effect.
type Watcher struct {
	path     string
	provider *Provider
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	running bool
}

// WatcherConfig contains configuration for the rules file watcher.
type WatcherConfig struct {
	// Path is the rules file to watch.
	Path string

	// DebounceInterval is the quiet period after a change before reloading.
	// Editors often emit several events per save. Default: 200ms.
	DebounceInterval time.Duration
}

// NewWatcher creates a watcher that reloads the rules file into the provider.
func NewWatcher(cfg WatcherConfig, provider *Provider, logger *slog.Logger) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watcher path cannot be empty")
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 200 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     cfg.Path,
		provider: provider,
		watcher:  fsw,
		logger:   logger.With("component", "biome.watcher"),
		debounce: cfg.DebounceInterval,
	}, nil
}

// Watch blocks until the context is cancelled, reloading the registry when
// the rules file changes.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory rather than the file: many editors replace the
	// file on save, which drops the watch on the inode.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("watching rules file", "path", w.path)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("rules watcher error", "error", err)
		}
	}
}

// reload loads the rules file and swaps the registry on success.
func (w *Watcher) reload() {
	registry, err := LoadRegistry(w.path)
	if err != nil {
		w.logger.Error("rules reload rejected, keeping previous registry",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.provider.Replace(registry)
	w.logger.Info("rules reloaded",
		"path", w.path,
		"biome_count", len(registry.BiomeIDs()),
	)
}
