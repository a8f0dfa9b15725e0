package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/flowgrid/internal/ctxlog"
)

// watch runs the pipeline once and then again after every change to its
// file, until ctx is cancelled. Run failures are logged and do not stop the
// watch.
func (a *App) watch(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	path := a.config.PipelinePath

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to watch pipeline: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// A file's directory is watched too so editors that save by renaming a
	// temporary file over the original are still seen.
	dir := path
	if !info.IsDir() {
		dir = filepath.Dir(path)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch '%s': %w", dir, err)
	}

	relevant := func(name string) bool {
		if info.IsDir() {
			return strings.EqualFold(filepath.Ext(name), ".hcl")
		}
		return filepath.Base(name) == filepath.Base(path)
	}

	a.runWatched(ctx)
	logger.Info("👀 Watching pipeline for changes.", "path", path)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("Watcher stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				logger.Debug("Pipeline file changed.", "file", event.Name, "op", event.Op.String())
				debounce = time.After(a.debounce)
			}

		case <-debounce:
			debounce = nil
			a.runWatched(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("File watcher error", "error", err)
		}
	}
}

func (a *App) runWatched(ctx context.Context) {
	res, err := a.RunOnce(ctx)
	switch {
	case err != nil:
		ctxlog.FromContext(ctx).Error("Pipeline run failed.", "error", err)
	case res != nil && !res.OK():
		ctxlog.FromContext(ctx).Warn("Pipeline finished with a failure.", "stage", res.Failure.Stage, "message", res.Failure.Message)
	}
}
