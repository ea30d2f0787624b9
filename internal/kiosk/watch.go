package kiosk

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/preston-bernstein/husker-kiosk/internal/logging"
)

const watchDebounce = 250 * time.Millisecond

// Watch reloads the feeds whenever one of files changes on disk. Editors and
// generators often write in several steps, so events are debounced. Watch
// blocks until ctx is cancelled.
func (c *Controller) Watch(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Watch directories so atomic rename-into-place is seen.
	wanted := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		wanted[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	logging.Info(c.logger, "watching feed files", slog.Any("files", files))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if _, match := wanted[filepath.Clean(ev.Name)]; !match {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Warn(c.logger, "feed watcher error", slog.Any("error", err))
		case <-fire:
			fire = nil
			if _, err := c.Reload(ctx); err != nil {
				// Already logged by Reload; the previous state stays active.
				continue
			}
		}
	}
}
