package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write
// before re-indexing a file. Editors fire several events per save.
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher keeps a Codebase in sync with the files on disk. Change
// notifications arrive per directory; writes are debounced per file so
// a burst of events costs one re-index.
type FileWatcher struct {
	codebase *Codebase
	fs       *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool

	stopCh chan struct{}
}

func NewFileWatcher(c *Codebase) (*FileWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		codebase: c,
		fs:       fs,
		debounce: DefaultDebounce,
		timers:   make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start registers the codebase root and its subdirectories and begins
// processing events in the background.
func (w *FileWatcher) Start() error {
	if err := w.addDirs(w.codebase.Root()); err != nil {
		return err
	}
	go w.run()
	return nil
}

// Stop ends event processing and cancels pending re-indexes. Safe to
// call more than once.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.mu.Unlock()

	close(w.stopCh)
	w.fs.Close()
}

func (w *FileWatcher) addDirs(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			log.Warningf("watch %s: %v", path, err)
		}
		return nil
	})
}

func (w *FileWatcher) run() {
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Errorf("watcher: %v", err)
		}
	}
}

func (w *FileWatcher) handle(event fsnotify.Event) {
	path := event.Name
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.addDirs(path)
			return
		}
	}
	if filepath.Ext(path) != ".java" {
		return
	}
	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.cancelTimer(path)
		w.codebase.Remove(path)
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.schedule(path)
	}
}

// schedule arms the per-file debounce timer, replacing any pending one.
func (w *FileWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.cancelTimer(path)
		if err := w.codebase.ScanFile(path); err != nil {
			log.Warningf("reindex %s: %v", path, err)
		}
	})
}

func (w *FileWatcher) cancelTimer(path string) {
	w.mu.Lock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
}
