// Package watch re-runs a callback when Ruby sources or the config file
// change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mpyw/transactionexit/internal/config"
)

// DefaultDebounce is how long Run waits after the last change.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches directory trees for source changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// New creates a watcher for paths. Directories are watched recursively;
// hidden directories and node_modules are skipped.
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{watcher: watcher, debounce: debounce}
	for _, p := range paths {
		if err := w.add(p); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return w, nil
}

// add watches p, or every directory below it.
func (w *Watcher) add(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("failed to watch %q: %w", p, err)
	}
	if !info.IsDir() {
		// Editors often replace files, so watch the parent instead.
		p = filepath.Dir(p)
	}

	return filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != p && skipped(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %q: %w", path, err)
		}
		slog.Debug("watching", "dir", path)
		return nil
	})
}

func skipped(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

// relevant reports whether a change to path should trigger a run.
func relevant(path string) bool {
	base := filepath.Base(path)
	return config.IsRuby(path) || base == ".transactionexit.yml" || base == ".transactionexit.yaml"
}

// Run calls onChange after relevant changes settle. Runs never overlap.
// It blocks until ctx is cancelled and a run in progress has returned.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.watcher.Close()

	// mu serializes runs. stopped is set under mu, so a run in flight when
	// ctx is done finishes before Run returns and later timers do nothing.
	var (
		mu       sync.Mutex
		stopped  bool
		debounce *time.Timer
	)
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		onChange()
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			mu.Lock()
			stopped = true
			mu.Unlock()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipped(filepath.Base(event.Name)) {
					if err := w.add(event.Name); err != nil {
						slog.Warn("file watcher error", "error", err)
					}
					continue
				}
			}
			if event.Has(fsnotify.Chmod) || !relevant(event.Name) {
				continue
			}
			slog.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.debounce, trigger)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}
