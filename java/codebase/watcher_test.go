package codebase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, c *Codebase) *FileWatcher {
	t.Helper()
	w, err := NewFileWatcher(c)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	w.debounce = 20 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestWatcherIndexesNewFile(t *testing.T) {
	root := t.TempDir()
	c := New(root, nil)
	startWatcher(t, c)

	path := filepath.Join(root, "Greeter.java")
	writeSource(t, path, greeterSrc)

	eventually(t, "the new file to be indexed", func() bool { return c.File(path) != nil })
	if _, ok := c.PathOf("com.example.Greeter"); !ok {
		t.Errorf("class of the new file missing from the index")
	}
}

func TestWatcherReindexesChangedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Greeter.java")
	writeSource(t, path, greeterSrc)
	c := New(root, nil)
	if _, err := c.ScanAll(context.Background()); err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	startWatcher(t, c)

	writeSource(t, path, "package com.example;\n\npublic class Welcomer {}\n")

	eventually(t, "the edit to be re-indexed", func() bool {
		_, ok := c.PathOf("com.example.Welcomer")
		return ok
	})
	if _, ok := c.PathOf("com.example.Greeter"); ok {
		t.Errorf("old class name survived the re-index")
	}
}

func TestWatcherRemovesDeletedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Greeter.java")
	writeSource(t, path, greeterSrc)
	c := New(root, nil)
	if _, err := c.ScanAll(context.Background()); err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	startWatcher(t, c)

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	eventually(t, "the deleted file to be dropped", func() bool { return c.File(path) == nil })
	if _, ok := c.PathOf("com.example.Greeter"); ok {
		t.Errorf("class of the deleted file survived")
	}
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	c := New(root, nil)
	startWatcher(t, c)

	writeSource(t, filepath.Join(root, "notes.txt"), "not java")

	time.Sleep(150 * time.Millisecond)
	if got := c.Files(); len(got) != 0 {
		t.Errorf("Files() = %v, want nothing indexed", got)
	}
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	c := New(root, nil)
	startWatcher(t, c)

	path := filepath.Join(root, "com", "example", "Greeter.java")

	// The directory watch may land after the first write; keep touching
	// the file, slower than the debounce, until an event lands.
	deadline := time.Now().Add(3 * time.Second)
	for c.File(path) == nil {
		if !time.Now().Before(deadline) {
			t.Fatalf("timed out waiting for the file in the new directory")
		}
		writeSource(t, path, greeterSrc)
		time.Sleep(100 * time.Millisecond)
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	root := t.TempDir()
	c := New(root, nil)
	w, err := NewFileWatcher(c)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	w.debounce = 20 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	w.Stop()
	w.Stop()

	writeSource(t, filepath.Join(root, "Greeter.java"), greeterSrc)
	time.Sleep(150 * time.Millisecond)
	if got := c.Files(); len(got) != 0 {
		t.Errorf("Files() = %v, want nothing indexed after Stop", got)
	}
}
