package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/recera/reactify/pkg/compiler"
)

// watcher reports changes to component files below a directory in
// debounced batches.
type watcher struct {
	fs    *fsnotify.Watcher
	ext   string
	delay time.Duration
}

func newWatcher(root, ext string) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &watcher{fs: fsw, ext: ext, delay: 100 * time.Millisecond}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to setup watcher: %w", err)
	}
	return w, nil
}

// addTree watches root and its subdirectories, skipping hidden directories
// and node_modules.
func (w *watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func (w *watcher) Close() error {
	return w.fs.Close()
}

// Run calls fn with each batch of events until ctx is done or the watcher is
// closed. Events are batched until none arrived for the debounce delay.
func (w *watcher) Run(ctx context.Context, fn func([]fsnotify.Event)) {
	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer
	defer debounce.Stop()

	var pending []fsnotify.Event

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}

			// New directories are watched too, and files already in them count as created
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					pending = append(pending, w.addCreated(event.Name)...)
					debounce.Reset(w.delay)
					continue
				}
			}

			if event.Op == fsnotify.Chmod || filepath.Ext(event.Name) != w.ext {
				continue
			}

			pending = append(pending, event)
			debounce.Reset(w.delay)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Println("Watcher error:", err)

		case <-debounce.C:
			events := pending
			pending = nil

			if len(events) > 0 {
				fn(events)
			}
		}
	}
}

func (w *watcher) addCreated(dir string) []fsnotify.Event {
	if err := w.addTree(dir); err != nil {
		log.Printf("⚠️  Failed to watch %s: %v", dir, err)
	}
	files, err := compiler.FindSources(dir, w.ext)
	if err != nil {
		return nil
	}
	events := make([]fsnotify.Event, len(files))
	for i, f := range files {
		events[i] = fsnotify.Event{Name: f, Op: fsnotify.Create}
	}
	return events
}

// changes folds a batch of events into the files to recompile and the files
// that no longer exist, each in first-seen order.
func changes(events []fsnotify.Event) (changed, removed []string) {
	seen := make(map[string]bool)
	for _, event := range events {
		if seen[event.Name] {
			continue
		}
		seen[event.Name] = true

		if _, err := os.Stat(event.Name); err != nil {
			removed = append(removed, event.Name)
		} else {
			changed = append(changed, event.Name)
		}
	}
	return changed, removed
}
