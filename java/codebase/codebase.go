// Package codebase ties the semantic layers together: it keeps the
// parsed view of every workspace file current, feeds the type store,
// and answers the questions editors ask, completion, hover type and
// signature help, as ranked or rendered results.
package codebase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jig/java"
	"github.com/dhamidi/jig/java/scanner"
	"github.com/dhamidi/jig/java/types"
)

var log = commonlog.GetLogger("jig.codebase")

// DefaultFileTimeout bounds how long ScanAll may spend on one file
// before recording it as skipped and moving on.
const DefaultFileTimeout = 2 * time.Second

// Codebase is the shared, mutable index of a workspace: the parsed
// source files plus the type store built from them. All methods are
// safe for concurrent use.
type Codebase struct {
	// FileTimeout is the per-file parse bound used by ScanAll. Zero
	// means DefaultFileTimeout.
	FileTimeout time.Duration
	// Scan selects which files ScanAll indexes.
	Scan scanner.Options

	root string

	mu      sync.RWMutex
	files   map[string]*java.SourceFile
	classes map[string]string // binary name -> declaring path
	store   *types.Store
}

// New returns an empty codebase rooted at root. The provider supplies
// classes from outside the workspace and may be nil.
func New(root string, provider types.StubProvider) *Codebase {
	return &Codebase{
		root:    root,
		files:   make(map[string]*java.SourceFile),
		classes: make(map[string]string),
		store:   types.NewStore(provider),
	}
}

// Root returns the workspace root directory.
func (c *Codebase) Root() string { return c.root }

// ScanReport summarizes one ScanAll pass. Paths are relative to the
// root, matching the scanner's output.
type ScanReport struct {
	Indexed []string
	Skipped []string
	Errors  []string
}

// ScanAll discovers the workspace's sources and indexes them. Files are
// parsed one at a time under the per-file timeout; a file that exceeds
// it is skipped, not fatal. The context cancels the whole pass.
func (c *Codebase) ScanAll(ctx context.Context) (*ScanReport, error) {
	start := time.Now()
	res, err := scanner.Scan(c.root, c.Scan)
	if err != nil {
		return nil, err
	}
	report := &ScanReport{
		Skipped: append([]string(nil), res.Skipped...),
		Errors:  append([]string(nil), res.Errors...),
	}
	for _, rel := range res.Files {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		src, err := res.ReadFile(rel)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("read %s: %v", rel, err))
			continue
		}
		abs := filepath.Join(c.root, filepath.FromSlash(rel))
		f, ok := c.parseWithTimeout(ctx, abs, src)
		if !ok {
			report.Skipped = append(report.Skipped, rel)
			continue
		}
		c.put(abs, f)
		report.Indexed = append(report.Indexed, rel)
	}
	log.Infof("indexed %d files under %s in %s", len(report.Indexed), c.root, time.Since(start).Round(time.Millisecond))
	return report, nil
}

func (c *Codebase) parseWithTimeout(ctx context.Context, path string, src []byte) (*java.SourceFile, bool) {
	timeout := c.FileTimeout
	if timeout <= 0 {
		timeout = DefaultFileTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan *java.SourceFile, 1)
	go func() { done <- java.ParseSource(src, path) }()
	select {
	case f := <-done:
		return f, true
	case <-ctx.Done():
		log.Errorf("parse %s: %v", path, ctx.Err())
		return nil, false
	}
}

// ScanFile reads one file from disk and indexes it.
func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile indexes content under path, replacing whatever was there.
// This is the editor-overlay entry point: the content may be ahead of
// what is on disk.
func (c *Codebase) UpdateFile(path string, content []byte) {
	c.put(path, java.ParseSource(content, path))
}

func (c *Codebase) put(path string, f *java.SourceFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropClassesLocked(path)
	c.files[path] = f
	for i := range f.Classes {
		c.classes[f.Classes[i].BinaryName] = path
	}
	c.store.AddSource(f)
}

// Remove drops a file from the index, such as after deletion on disk.
func (c *Codebase) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.files[path]; !ok {
		return
	}
	c.dropClassesLocked(path)
	delete(c.files, path)
	c.store.RemoveSource(path)
}

func (c *Codebase) dropClassesLocked(path string) {
	old := c.files[path]
	if old == nil {
		return
	}
	for i := range old.Classes {
		name := old.Classes[i].BinaryName
		if c.classes[name] == path {
			delete(c.classes, name)
		}
	}
}

// File returns the indexed view of path, or nil when it is not indexed.
func (c *Codebase) File(path string) *java.SourceFile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns the indexed paths, in no particular order.
func (c *Codebase) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for p := range c.files {
		paths = append(paths, p)
	}
	return paths
}

// PathOf returns the file declaring the given binary class name.
func (c *Codebase) PathOf(binaryName string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	path, ok := c.classes[binaryName]
	return path, ok
}

// Snapshot is the point-in-time view one request works against. The
// store is a private clone, so lazy stub loads and concurrent edits
// cannot change what the request sees halfway through.
type Snapshot struct {
	File      *java.SourceFile
	Store     *types.Store
	workspace map[string]string
}

// Snapshot captures the current state of one indexed file.
func (c *Codebase) Snapshot(path string) (*Snapshot, bool) {
	c.mu.RLock()
	f := c.files[path]
	var ws map[string]string
	if f != nil {
		ws = make(map[string]string, len(c.classes))
		for name, p := range c.classes {
			ws[name] = p
		}
	}
	c.mu.RUnlock()
	if f == nil {
		return nil, false
	}
	return &Snapshot{File: f, Store: c.store.Clone(), workspace: ws}, true
}

// fromWorkspace reports whether a class is declared in workspace source
// rather than coming from a library or the built-in model.
func (s *Snapshot) fromWorkspace(id types.ClassId) bool {
	_, ok := s.workspace[string(id)]
	return ok
}

// TypeAt renders the type of the expression ending at the byte offset,
// for hover and inlay consumers. Empty means nothing could be inferred.
func (c *Codebase) TypeAt(path string, offset int) string {
	snap, ok := c.Snapshot(path)
	if !ok {
		return ""
	}
	res := types.NewInferrer(snap.Store, snap.File).TypeAt(offset)
	if types.IsErrorish(res.Type) {
		return ""
	}
	return types.Display(res.Type)
}

// Signature describes the call enclosing a cursor, ready for signature
// help rendering.
type Signature struct {
	Name      string
	Overloads []Overload
	// Active is the overload to highlight, the first whose parameter
	// list can still accept the argument the cursor is on.
	Active    int
	ActiveArg int
}

// Overload is one rendered candidate of a signature: the full label
// plus the label of each parameter, in order. The parameter labels are
// substrings of Label, which is how protocol clients highlight the
// active one.
type Overload struct {
	Label  string
	Params []string
}

// SignatureAt resolves the call surrounding the byte offset. It returns
// nil when the offset is not inside an argument list or the callee is
// unknown.
func (c *Codebase) SignatureAt(path string, offset int) *Signature {
	snap, ok := c.Snapshot(path)
	if !ok {
		return nil
	}
	info := types.NewInferrer(snap.Store, snap.File).SignatureAt(offset)
	if info == nil {
		return nil
	}
	sig := &Signature{Name: info.Name, ActiveArg: info.ActiveArg}
	for _, m := range info.Candidates {
		sig.Overloads = append(sig.Overloads, overloadOf(m))
	}
	sig.Active = pickOverload(info.Candidates, info.ActiveArg)
	return sig
}

func overloadOf(m types.Member) Overload {
	var o Overload
	if m.Method == nil {
		o.Label = m.Detail()
		return o
	}
	label := m.Name + "("
	for i, p := range m.Method.Parameters {
		if i > 0 {
			label += ", "
		}
		param := p.Name + ": " + p.Type
		if p.IsVarargs {
			param += "..."
		}
		o.Params = append(o.Params, param)
		label += param
	}
	label += ")"
	if m.Kind == types.MemberMethod {
		label += ": " + types.Display(m.Type)
	}
	o.Label = label
	return o
}

// pickOverload chooses the overload to highlight: the first that still
// has a parameter at the active argument position, else the first
// varargs one, else the first.
func pickOverload(cands []types.Member, activeArg int) int {
	for i, m := range cands {
		if m.Arity() > activeArg {
			return i
		}
	}
	for i, m := range cands {
		if m.Method != nil && m.Method.IsVarargs() {
			return i
		}
	}
	return 0
}
