package config

// ===== PERSONA FILE WATCHER =====
// Watches the persona directory for YAML edits and triggers a reload
// callback so journal and support templates can change without a restart.

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"aura/internal/logging"
)

// ReloadFunc is invoked with the path of a changed persona file.
type ReloadFunc func(path string)

// PersonaWatcher monitors a persona directory for changes.
type PersonaWatcher struct {
	mu       sync.Mutex
	dir      string
	watcher  *fsnotify.Watcher
	onReload ReloadFunc

	// Debounce rapid saves from editors
	debounceMap map[string]*time.Timer
	debounceDur time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewPersonaWatcher creates a watcher for the given persona directory.
func NewPersonaWatcher(dir string, onReload ReloadFunc) (*PersonaWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &PersonaWatcher{
		dir:         dir,
		watcher:     w,
		onReload:    onReload,
		debounceMap: make(map[string]*time.Timer),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the watch loop runs until Stop or
// context cancellation.
func (pw *PersonaWatcher) Start(ctx context.Context) error {
	if err := pw.watcher.Add(pw.dir); err != nil {
		return err
	}

	logging.Boot("Persona watcher started on %s", pw.dir)

	go pw.watchLoop(ctx)
	return nil
}

// Stop shuts down the watcher and waits for the loop to exit.
func (pw *PersonaWatcher) Stop() {
	close(pw.stopCh)
	<-pw.doneCh
	pw.watcher.Close()
}

func (pw *PersonaWatcher) watchLoop(ctx context.Context) {
	defer close(pw.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-pw.stopCh:
			return
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			pw.handleEvent(event)
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryBoot).Warn("Persona watcher error: %v", err)
		}
	}
}

func (pw *PersonaWatcher) handleEvent(event fsnotify.Event) {
	ext := strings.ToLower(filepath.Ext(event.Name))
	if ext != ".yaml" && ext != ".yml" {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	pw.mu.Lock()
	defer pw.mu.Unlock()

	// Reset any pending timer for this file
	if timer, exists := pw.debounceMap[event.Name]; exists {
		timer.Stop()
	}

	path := event.Name
	pw.debounceMap[path] = time.AfterFunc(pw.debounceDur, func() {
		pw.mu.Lock()
		delete(pw.debounceMap, path)
		pw.mu.Unlock()

		logging.Boot("Persona file changed: %s", filepath.Base(path))
		if pw.onReload != nil {
			pw.onReload(path)
		}
	})
}
