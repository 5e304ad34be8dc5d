// Package project discovers the shape of a Java workspace: which
// directories hold sources and which archives and class directories
// belong on the classpath.
package project

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dhamidi/jig/java/scanner"
)

// Layout is the discovered shape of one workspace.
type Layout struct {
	Root        string
	SourceRoots []string // directories scanned for .java files
	Classpath   []string // workspace and Maven-resolved jars, compiled-class directories
	JDK         []string // jmod archives of the host JDK
}

// Load discovers the layout of the current directory.
func Load() (*Layout, error) {
	return LoadFrom(".")
}

// LoadFrom discovers the layout of the given workspace root. A plain
// directory of sources is a valid workspace; the root itself is the
// fallback source root.
func LoadFrom(root string) (*Layout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", abs)
	}
	return &Layout{
		Root:        abs,
		SourceRoots: sourceRoots(abs),
		Classpath:   classpathEntries(abs),
		JDK:         jdkModules(os.Getenv("JAVA_HOME")),
	}, nil
}

// ProviderRoots is the classpath compiled classes load from, workspace
// entries first so they shadow the JDK.
func (l *Layout) ProviderRoots() []string {
	return append(append([]string(nil), l.Classpath...), l.JDK...)
}

// ScanOptions restricts a source scan to the discovered source roots.
func (l *Layout) ScanOptions() scanner.Options {
	var opts scanner.Options
	for _, dir := range l.SourceRoots {
		if dir == l.Root {
			return scanner.Options{}
		}
		rel, err := filepath.Rel(l.Root, dir)
		if err != nil {
			continue
		}
		opts.Include = append(opts.Include, path.Join(filepath.ToSlash(rel), "**", "*.java"))
	}
	return opts
}

// sourceRoots picks the conventional source directories: the Maven and
// Gradle main and test trees, then a plain src directory, then the
// root itself.
func sourceRoots(root string) []string {
	var roots []string
	for _, rel := range []string{
		filepath.Join("src", "main", "java"),
		filepath.Join("src", "test", "java"),
	} {
		if dir := filepath.Join(root, rel); isDir(dir) {
			roots = append(roots, dir)
		}
	}
	if len(roots) > 0 {
		return roots
	}
	if dir := filepath.Join(root, "src"); isDir(dir) {
		return []string{dir}
	}
	return []string{root}
}

// classpathEntries collects bundled jars, Maven-resolved dependency jars
// and compiled-class output directories in classpath order.
func classpathEntries(root string) []string {
	jars, _ := doublestar.FilepathGlob(filepath.Join(root, "lib", "**", "*.jar"))
	sort.Strings(jars)
	entries := jars
	entries = append(entries, mavenJars(root)...)

	if dir := filepath.Join(root, "target", "classes"); isDir(dir) {
		entries = append(entries, dir)
	}
	if dir := filepath.Join(root, "build", "classes", "java", "main"); isDir(dir) {
		entries = append(entries, dir)
	} else if dir := filepath.Join(root, "build", "classes"); isDir(dir) {
		entries = append(entries, dir)
	}
	return entries
}

// jdkModules lists the jmod archives of the JDK at javaHome. The sorted
// order puts java.base first, which is the shadowing order the type
// store wants.
func jdkModules(javaHome string) []string {
	if javaHome == "" {
		return nil
	}
	dir := filepath.Join(javaHome, "jmods")
	found, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var mods []string
	for _, e := range found {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jmod" {
			continue
		}
		mods = append(mods, filepath.Join(dir, e.Name()))
	}
	sort.Strings(mods)
	return mods
}

func isDir(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
