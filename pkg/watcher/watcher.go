// Package watcher reloads input files when they change on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher reports changes of a set of files, debounced per file.
// Directories are watched instead of the files themselves so that editors
// replacing a file by rename are noticed.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	debounce time.Duration

	mu     sync.Mutex
	files  map[string]bool
	dirs   map[string]bool
	timers map[string]*time.Timer
}

// New creates a watcher
func New(debounce time.Duration, logger zerolog.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &FileWatcher{
		watcher:  w,
		logger:   logger,
		debounce: debounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Add starts watching the files
func (fw *FileWatcher) Add(files ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		dir := filepath.Dir(abs)
		if !fw.dirs[dir] {
			if err := fw.watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			fw.dirs[dir] = true
		}
		fw.files[abs] = true
	}
	return nil
}

// Replace swaps the watched files, e.g. after the dependencies of a model
// changed
func (fw *FileWatcher) Replace(files ...string) error {
	fw.mu.Lock()
	for dir := range fw.dirs {
		_ = fw.watcher.Remove(dir)
	}
	for _, t := range fw.timers {
		t.Stop()
	}
	fw.files = make(map[string]bool)
	fw.dirs = make(map[string]bool)
	fw.timers = make(map[string]*time.Timer)
	fw.mu.Unlock()

	return fw.Add(files...)
}

// Run calls onChange with the absolute path of each changed file until ctx
// is done. onChange runs on a timer goroutine.
func (fw *FileWatcher) Run(ctx context.Context, onChange func(path string)) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fw.changed(event.Name, onChange)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (fw *FileWatcher) changed(path string, onChange func(string)) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	path = filepath.Clean(path)
	if !fw.files[path] {
		return
	}
	if t, ok := fw.timers[path]; ok {
		t.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		fw.logger.Debug().Str("file", path).Msg("file changed")
		onChange(path)
	})
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, t := range fw.timers {
		t.Stop()
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}
