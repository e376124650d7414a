package appinfo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSettle coalesces the burst of events a package install produces.
const watchSettle = 500 * time.Millisecond

// Watch calls onChange (from the watcher goroutine) whenever desktop files
// in the registry directories change, until ctx is done. onChange should
// hand the reload to whoever owns the registry's consumers.
func (r *Registry) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	watched := 0
	for _, dir := range r.dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := w.Add(dir); err != nil {
			r.log.Warn("Cannot watch applications directory", "dir", dir, "error", err.Error())
			continue
		}
		watched++
	}
	r.log.Debug("Watching applications directories", "count", watched)

	go func() {
		defer w.Close()

		var settle <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(ev.Name, ".desktop") {
					continue
				}
				r.log.Debug("Desktop file changed", "path", ev.Name, "op", ev.Op.String())
				settle = time.After(watchSettle)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				r.log.Error("Applications watcher error", err)
			case <-settle:
				settle = nil
				onChange()
			}
		}
	}()
	return nil
}
