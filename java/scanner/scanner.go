// Package scanner finds the Java sources of a workspace.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultInclude matches every Java source below the root.
const DefaultInclude = "**/*.java"

// DefaultMaxFileSize guards against pathological inputs; generated
// sources larger than this are listed as skipped instead of returned.
const DefaultMaxFileSize = 1 << 20

// Options control which files a scan returns.
type Options struct {
	// Include patterns, doublestar syntax, relative to the root.
	// Empty means DefaultInclude.
	Include []string

	// Exclude patterns; a file matching any of them is dropped.
	Exclude []string

	// MaxFileSize in bytes; zero means DefaultMaxFileSize, negative
	// disables the guard.
	MaxFileSize int64
}

// Result lists what a scan found. Paths are relative to the root and
// sorted, so repeated scans of the same tree compare equal.
type Result struct {
	Root    string
	Files   []string
	Skipped []string // over the size limit
	Errors  []string
}

// Scan walks root and returns the Java sources the options select.
// Dot-directories are never entered; a .gitignore at the root is
// honored when present.
func Scan(root string, opts Options) (*Result, error) {
	include := opts.Include
	if len(include) == 0 {
		include = []string{DefaultInclude}
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
	}
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
	}
	maxSize := opts.MaxFileSize
	if maxSize == 0 {
		maxSize = DefaultMaxFileSize
	}

	gi := loadGitignore(root)
	result := &Result{Root: root}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("walk %s: %v", path, err))
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if !matchesAny(include, rel) || matchesAny(opts.Exclude, rel) {
			return nil
		}

		if maxSize > 0 {
			info, err := d.Info()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("stat %s: %v", path, err))
				return nil
			}
			if info.Size() > maxSize {
				result.Skipped = append(result.Skipped, rel)
				return nil
			}
		}

		result.Files = append(result.Files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(result.Files)
	sort.Strings(result.Skipped)
	return result, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.PathMatch(pattern, rel); matched {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// ReadFile reads one scanned file, joining the relative path back onto
// the root.
func (r *Result) ReadFile(rel string) ([]byte, error) {
	return os.ReadFile(filepath.Join(r.Root, rel))
}
