package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch uploads files created or rewritten in dir until ctx is cancelled.
// Events for a path are debounced so a file is only uploaded once writes settle.
func (m *Manager) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if err := m.StartWithContext(ctx); err != nil {
		return err
	}
	defer m.Close()

	debounce := time.Duration(m.config.Import.WatchDebounceMS) * time.Millisecond
	var (
		timersMu sync.Mutex
		timers   = make(map[string]*time.Timer)
	)
	defer func() {
		timersMu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		timersMu.Unlock()
	}()

	m.logger.Infof("Watching %s for new files", dir)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Stopping watcher")
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger.Warnf("watcher error: %v", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			path := event.Name
			if ShouldSkip(path, m.config.Import.SkipPatterns) {
				m.logger.Debugf("skipping %s", path)
				continue
			}

			timersMu.Lock()
			if t, ok := timers[path]; ok {
				t.Reset(debounce)
			} else {
				timers[path] = time.AfterFunc(debounce, func() {
					timersMu.Lock()
					delete(timers, path)
					timersMu.Unlock()
					m.queueWatched(dir, path)
				})
			}
			timersMu.Unlock()
		}
	}
}

// queueWatched submits path unless it is gone, not a regular file or unchanged since its last upload
func (m *Manager) queueWatched(dir, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	if m.isSeen(path, info.ModTime()) {
		return
	}

	name, err := filepath.Rel(dir, path)
	if err != nil {
		name = filepath.Base(path)
	}
	if err := m.Submit(Job{Path: path, Name: filepath.ToSlash(name)}); err != nil {
		return
	}
	m.markSeen(path, info.ModTime())
}
