package archive

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hearthhq/hearth/internal/storage"
	"github.com/hearthhq/hearth/internal/store"
)

// Watch starts an fsnotify watcher on the archive root and imports file
// change events until ctx is cancelled.
//
// New directories created at runtime are added to the watch list. Rename
// and remove events schedule a debounced full sync pass that forgets
// import records whose files no longer exist on disk.
func Watch(ctx context.Context, db store.Store, files storage.Provider, root string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("archive watcher: started", slog.String("root", root))

	// syncTimer debounces the full sync after remove/rename bursts.
	var syncTimer *time.Timer
	var syncCh <-chan time.Time

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(200 * time.Millisecond)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}
			logger.Info("archive watcher: stopped")
			return nil

		case <-syncCh:
			if err := Sync(db, files, logger); err != nil {
				logger.Warn("archive watcher: sync failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories join the watch list; any files they
			// already contain are picked up by a sync pass.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("archive watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					scheduleSync()
					continue
				}
			}

			if !strings.HasSuffix(absPath, ".json") {
				continue
			}

			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := files.Read(rel)
				if readErr != nil {
					logger.Warn("archive watcher: read failed", slog.String("path", rel), slog.String("error", readErr.Error()))
					continue
				}
				if impErr := importFile(db, rel, data, logger); impErr != nil {
					logger.Warn("archive watcher: import failed", slog.String("path", rel), slog.String("error", impErr.Error()))
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				scheduleSync()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("archive watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
