// Package classpath resolves compiled classes from directories, jar
// archives, and jmod archives into class models for the type store.
package classpath

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/edsrzf/mmap-go"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jig/java"
	"github.com/dhamidi/jig/java/types"
)

var log = commonlog.GetLogger("jig.classpath")

// DefaultCacheSize bounds how many decoded class models stay in memory.
// A JDK alone holds tens of thousands of classes; completion only ever
// touches a small working set of them.
const DefaultCacheSize = 4096

// jmod archives carry a four byte "JM" version header before the zip data.
const jmodMagicLen = 4

// Provider serves class models from an ordered list of classpath roots.
// Earlier roots shadow later ones, matching java's classpath semantics.
// Entry names are indexed once per root at construction; lookups decode
// class files lazily and keep results in an LRU cache.
type Provider struct {
	sources []source
	index   map[string]classLoc
	names   []string
	simples []simpleEntry
	pkgs    []string
	cache   *lru.Cache[string, *java.ClassModel]
}

var _ types.StubProvider = (*Provider)(nil)

type classLoc struct {
	source int
	entry  string
}

type simpleEntry struct {
	simple string
	binary string
}

// New indexes the given roots. Each root is a directory of .class
// files, a .jar/.zip archive, or a .jmod archive.
func New(roots ...string) (*Provider, error) {
	return NewWithCacheSize(DefaultCacheSize, roots...)
}

// NewWithCacheSize is New with an explicit decoded-model cache bound.
func NewWithCacheSize(cacheSize int, roots ...string) (*Provider, error) {
	cache, err := lru.New[string, *java.ClassModel](cacheSize)
	if err != nil {
		return nil, err
	}
	p := &Provider{
		index: make(map[string]classLoc),
		cache: cache,
	}
	pkgs := make(map[string]bool)
	for _, root := range roots {
		src, err := openSource(root)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("open classpath root %s: %w", root, err)
		}
		si := len(p.sources)
		p.sources = append(p.sources, src)

		for _, entry := range src.entries() {
			binary := binaryNameOf(entry)
			if binary == "" {
				continue
			}
			if _, seen := p.index[binary]; seen {
				continue
			}
			p.index[binary] = classLoc{source: si, entry: entry}
			p.names = append(p.names, binary)
			if pkg := packageOf(binary); pkg != "" {
				pkgs[pkg] = true
			}
			if simple := simpleNameOf(binary); simple != "" {
				p.simples = append(p.simples, simpleEntry{simple: simple, binary: binary})
			}
		}
	}
	sort.Strings(p.names)
	sort.Slice(p.simples, func(i, j int) bool {
		if p.simples[i].simple != p.simples[j].simple {
			return p.simples[i].simple < p.simples[j].simple
		}
		return p.simples[i].binary < p.simples[j].binary
	})
	p.pkgs = make([]string, 0, len(pkgs))
	for pkg := range pkgs {
		p.pkgs = append(p.pkgs, pkg)
	}
	sort.Strings(p.pkgs)

	log.Infof("indexed %d classes from %d roots", len(p.names), len(p.sources))
	return p, nil
}

// Close releases file mappings held by archive roots.
func (p *Provider) Close() error {
	var first error
	for _, src := range p.sources {
		if err := src.close(); err != nil && first == nil {
			first = err
		}
	}
	p.cache.Purge()
	return first
}

// LookupType decodes the class with the given binary name, or returns
// nil when no root provides it. Safe for concurrent use.
func (p *Provider) LookupType(binaryName string) *java.ClassModel {
	if model, ok := p.cache.Get(binaryName); ok {
		return model
	}
	loc, ok := p.index[binaryName]
	if !ok {
		return nil
	}
	data, err := p.sources[loc.source].read(loc.entry)
	if err != nil {
		log.Errorf("read %s: %s", loc.entry, err.Error())
		return nil
	}
	model, err := java.ClassModelFromReader(bytes.NewReader(data))
	if err != nil {
		log.Errorf("decode %s: %s", loc.entry, err.Error())
		return nil
	}
	p.cache.Add(binaryName, model)
	return model
}

// ClassNamesWithPrefix returns up to limit binary names matching the
// prefix. A plain prefix matches simple class names; a prefix
// containing '.' or '$' matches against binary names, which lets
// callers enumerate a package or the nested classes of an owner.
func (p *Provider) ClassNamesWithPrefix(prefix string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	var out []string
	if strings.ContainsAny(prefix, ".$") {
		i := sort.SearchStrings(p.names, prefix)
		for ; i < len(p.names) && strings.HasPrefix(p.names[i], prefix); i++ {
			out = append(out, p.names[i])
			if len(out) == limit {
				break
			}
		}
		return out
	}
	i := sort.Search(len(p.simples), func(i int) bool { return p.simples[i].simple >= prefix })
	for ; i < len(p.simples) && strings.HasPrefix(p.simples[i].simple, prefix); i++ {
		out = append(out, p.simples[i].binary)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Packages returns the sorted package names seen across all roots.
func (p *Provider) Packages() []string {
	return p.pkgs
}

func binaryNameOf(entry string) string {
	name, ok := strings.CutSuffix(entry, ".class")
	if !ok {
		return ""
	}
	base := name
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if base == "module-info" || base == "package-info" {
		return ""
	}
	return strings.ReplaceAll(name, "/", ".")
}

func packageOf(binary string) string {
	if i := strings.LastIndexByte(binary, '.'); i >= 0 {
		return binary[:i]
	}
	return ""
}

// simpleNameOf returns the name completion matches against: the last
// nested-class segment. Anonymous and local classes have numeric
// segments and are never offered.
func simpleNameOf(binary string) string {
	s := binary
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndexByte(s, '$'); i >= 0 {
		s = s[i+1:]
	}
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return ""
	}
	return s
}

// source is one classpath root. Entries are slash-separated paths
// relative to the class root, so jar and directory roots look alike.
type source interface {
	entries() []string
	read(entry string) ([]byte, error)
	close() error
}

func openSource(root string) (source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return openDirSource(root)
	}
	switch filepath.Ext(root) {
	case ".jar", ".zip", ".jmod":
		return openArchiveSource(root)
	}
	return nil, fmt.Errorf("unsupported classpath entry %s", root)
}

type dirSource struct {
	dir   string
	found []string
}

func openDirSource(dir string) (*dirSource, error) {
	s := &dirSource{dir: dir}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".class" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		s.found = append(s.found, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *dirSource) entries() []string { return s.found }

func (s *dirSource) read(entry string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(entry)))
}

func (s *dirSource) close() error { return nil }

type archiveSource struct {
	path  string
	file  *os.File
	data  mmap.MMap
	owned bool // data is a private copy, not a mapping
	files map[string]*zip.File
	names []string
}

func openArchiveSource(path string) (*archiveSource, error) {
	s := &archiveSource{path: path}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		// Some filesystems refuse mappings; read the archive into
		// memory instead.
		file.Close()
		buf, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, readErr
		}
		s.data = mmap.MMap(buf)
		s.owned = true
	} else {
		s.file = file
		s.data = data
	}

	payload := []byte(s.data)
	isJmod := len(payload) >= jmodMagicLen && payload[0] == 'J' && payload[1] == 'M'
	if isJmod {
		payload = payload[jmodMagicLen:]
	}
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		s.close()
		return nil, err
	}

	s.files = make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := f.Name
		if isJmod {
			// jmod content splits into classes/, lib/, conf/ and
			// friends; only classes/ holds class files.
			var ok bool
			name, ok = strings.CutPrefix(name, "classes/")
			if !ok {
				continue
			}
		}
		if filepath.Ext(name) != ".class" {
			continue
		}
		if _, dup := s.files[name]; dup {
			continue
		}
		s.files[name] = f
		s.names = append(s.names, name)
	}
	return s, nil
}

func (s *archiveSource) entries() []string { return s.names }

func (s *archiveSource) read(entry string) ([]byte, error) {
	f, ok := s.files[entry]
	if !ok {
		return nil, fmt.Errorf("no entry %s in %s", entry, s.path)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *archiveSource) close() error {
	var err error
	if !s.owned && s.data != nil {
		err = s.data.Unmap()
	}
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}
	s.data = nil
	s.file = nil
	return err
}
