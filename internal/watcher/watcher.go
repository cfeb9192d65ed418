// Package watcher resolves glob patterns to log files and reports filesystem
// changes on them.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Event is a change on a watched file.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher expands glob patterns once at startup and forwards OS-level change
// notifications for the matched files.
type Watcher struct {
	fsw    *fsnotify.Watcher
	Events chan Event
	paths  []string
}

// New creates a Watcher over the files matched by the given patterns.
// Recursive patterns such as logs/**/*.log are supported.
func New(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		Events: make(chan Event, 256),
	}

	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			log.Printf("warning: failed to expand pattern %q: %v", pattern, err)
			continue
		}
		for _, m := range matches {
			abs, _ := filepath.Abs(m)
			if seen[abs] {
				continue
			}
			if err := fsw.Add(abs); err != nil {
				log.Printf("warning: cannot watch %s: %v", abs, err)
				continue
			}
			seen[abs] = true
			w.paths = append(w.paths, abs)
		}
	}
	sort.Strings(w.paths)

	return w, nil
}

// Start forwards file events until the context is cancelled. Only ops the
// tailer acts on (write, create, remove, rename) are passed through.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if relevant(ev.Op) {
				w.Events <- Event{Path: ev.Name, Op: ev.Op}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// Paths returns the files being watched, sorted.
func (w *Watcher) Paths() []string {
	return w.paths
}

// FileCount reports how many files the watcher covers.
func (w *Watcher) FileCount() int {
	return len(w.paths)
}

// ReWatch re-adds a path after log rotation replaced the inode.
func (w *Watcher) ReWatch(path string) error {
	return w.fsw.Add(path)
}
