package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dhamidi/jig/java"
	"github.com/dhamidi/jig/java/classpath"
	"github.com/dhamidi/jig/java/codebase"
	"github.com/dhamidi/jig/java/types"
	"github.com/dhamidi/jig/project"
)

// openWorkspace discovers and indexes the workspace at dir so queries
// see every declared class, not just the file they target.
func openWorkspace(dir string) (*codebase.Codebase, error) {
	layout, err := project.LoadFrom(dir)
	if err != nil {
		return nil, err
	}

	var provider types.StubProvider
	if p, err := classpath.New(layout.ProviderRoots()...); err != nil {
		fmt.Fprintf(os.Stderr, "classpath: %v\n", err)
	} else {
		provider = p
	}

	c := codebase.New(layout.Root, provider)
	c.Scan = layout.ScanOptions()
	if _, err := c.ScanAll(context.Background()); err != nil {
		return nil, err
	}
	return c, nil
}

// loadFile returns the indexed view of path, scanning it on demand when
// it lies outside the workspace's source roots.
func loadFile(c *codebase.Codebase, path string) (*java.SourceFile, error) {
	if f := c.File(path); f != nil {
		return f, nil
	}
	if err := c.ScanFile(path); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if f := c.File(path); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("load %s: no analysis produced", path)
}

// parseLocation splits a file:line:col argument. The last two segments
// are the position; the rest is the path, which may itself contain
// colons.
func parseLocation(arg string) (file string, line, col int, err error) {
	i := strings.LastIndexByte(arg, ':')
	if i <= 0 {
		return "", 0, 0, fmt.Errorf("expected file:line:col, got %q", arg)
	}
	col, err = strconv.Atoi(arg[i+1:])
	if err != nil {
		return "", 0, 0, fmt.Errorf("expected file:line:col, got %q", arg)
	}
	rest := arg[:i]
	j := strings.LastIndexByte(rest, ':')
	if j <= 0 {
		return "", 0, 0, fmt.Errorf("expected file:line:col, got %q", arg)
	}
	line, err = strconv.Atoi(rest[j+1:])
	if err != nil {
		return "", 0, 0, fmt.Errorf("expected file:line:col, got %q", arg)
	}
	return rest[:j], line, col, nil
}
