package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 200 * time.Millisecond

// watch reassembles on every change under the project root until the
// context is cancelled. Assembly failures are logged and the previous
// artifact is left in place; the next change triggers another attempt.
func watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, rootDir); err != nil {
		return err
	}

	rebuild := func() {
		artifact, err := buildArtifact(ctx)
		if err != nil {
			logger.Warn("assembly failed", zap.Error(err))
			return
		}
		if err := writeArtifact(artifact); err != nil {
			logger.Warn("write failed", zap.Error(err))
		}
	}
	rebuild()

	outAbs, _ := filepath.Abs(outputPath)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if evAbs, err := filepath.Abs(ev.Name); err == nil && evAbs == outAbs {
				continue // our own output
			}
			if ev.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addWatchDirs(watcher, ev.Name)
				}
			}
			logger.Debug("source changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			debounce = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case <-debounce:
			debounce = nil
			rebuild()
		}
	}
}

// addWatchDirs registers root and every subdirectory, skipping VCS and
// build output trees.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		switch d.Name() {
		case ".git", "target", "node_modules":
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
