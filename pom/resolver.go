package pom

import (
	"fmt"
	"sort"
)

// Scope is a Maven dependency scope. The resolver keeps compile, runtime
// and the root project's own provided and test dependencies; an indexer
// needs those on the classpath even though a build would not ship them.
type Scope string

const (
	ScopeCompile  Scope = "compile"
	ScopeProvided Scope = "provided"
	ScopeRuntime  Scope = "runtime"
	ScopeTest     Scope = "test"
	ScopeSystem   Scope = "system"
)

// scopeRoot marks the root project itself in the walk.
const scopeRoot Scope = ""

// ArtifactKey identifies an artifact regardless of version. Maven
// resolves one version per key.
type ArtifactKey struct {
	GroupID    string
	ArtifactID string
}

func (k ArtifactKey) String() string {
	return k.GroupID + ":" + k.ArtifactID
}

// ResolvedDependency is one mediated entry of the dependency graph.
// Depth zero is a direct dependency of the root project.
type ResolvedDependency struct {
	GroupID    string
	ArtifactID string
	Version    string
	Scope      Scope
	Type       string
	Classifier string
	Optional   bool
	Depth      int
}

func (d ResolvedDependency) Key() ArtifactKey {
	return ArtifactKey{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

// POMFetcher loads the POM of one artifact. Returning nil, nil means the
// artifact is unknown; resolution continues without its transitive graph.
type POMFetcher interface {
	FetchPOM(groupID, artifactID, version string) (*Project, error)
}

// Resolver walks a dependency graph through a POMFetcher. A nil fetcher
// resolves direct dependencies only.
type Resolver struct {
	fetcher POMFetcher
}

func NewResolver(fetcher POMFetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve computes the mediated dependency set of a project. Output
// order is depth, then coordinates, so direct dependencies lead.
func (r *Resolver) Resolve(project *Project) ([]ResolvedDependency, error) {
	w := &walker{
		fetcher:      r.fetcher,
		picked:       make(map[ArtifactKey]*ResolvedDependency),
		requirements: make(map[ArtifactKey][]*Requirement),
	}
	if err := w.visit(project, scopeRoot, 0, nil); err != nil {
		return nil, err
	}

	for key, dep := range w.picked {
		version, err := mediate(w.requirements[key])
		if err != nil {
			return nil, fmt.Errorf("mediating %s: %w", key, err)
		}
		dep.Version = version
	}

	out := make([]ResolvedDependency, 0, len(w.picked))
	for _, dep := range w.picked {
		out = append(out, *dep)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		if a.GroupID != b.GroupID {
			return a.GroupID < b.GroupID
		}
		return a.ArtifactID < b.ArtifactID
	})
	return out, nil
}

// walker carries the state of one Resolve call: the first-seen pick per
// artifact and every version requirement encountered for it.
type walker struct {
	fetcher      POMFetcher
	picked       map[ArtifactKey]*ResolvedDependency
	requirements map[ArtifactKey][]*Requirement
}

func (w *walker) visit(project *Project, from Scope, depth int, excluded exclusionSet) error {
	managed := managedVersions(project)

	for _, dep := range project.Dependencies {
		key := ArtifactKey{GroupID: dep.GroupID, ArtifactID: dep.ArtifactID}
		if excluded.blocks(key) {
			continue
		}
		if depth > 0 && dep.Optional == "true" {
			continue
		}
		scope := deriveScope(dep.Scope, from)
		if scope == "" {
			continue
		}

		version := dep.Version
		if version == "" {
			version = managed[key]
		}
		req, err := ParseRequirement(version)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		w.requirements[key] = append(w.requirements[key], req)

		if seen, ok := w.picked[key]; ok {
			if depth < seen.Depth {
				seen.Depth = depth
			}
			continue
		}
		w.picked[key] = &ResolvedDependency{
			GroupID:    dep.GroupID,
			ArtifactID: dep.ArtifactID,
			Version:    version,
			Scope:      scope,
			Type:       dep.Type,
			Classifier: dep.Classifier,
			Optional:   dep.Optional == "true",
			Depth:      depth,
		}

		if w.fetcher == nil || !carriesTransitives(scope) {
			continue
		}
		child, err := w.fetcher.FetchPOM(dep.GroupID, dep.ArtifactID, version)
		if err != nil || child == nil {
			// A missing POM just prunes that subtree; the local
			// repository is inherently partial.
			continue
		}
		if err := w.visit(child, scope, depth+1, excluded.with(dep.Exclusions)); err != nil {
			return err
		}
	}
	return nil
}

func managedVersions(project *Project) map[ArtifactKey]string {
	if project.DependencyManagement == nil {
		return nil
	}
	m := make(map[ArtifactKey]string, len(project.DependencyManagement.Dependencies))
	for _, d := range project.DependencyManagement.Dependencies {
		m[ArtifactKey{GroupID: d.GroupID, ArtifactID: d.ArtifactID}] = d.Version
	}
	return m
}

// deriveScope maps a dependency's declared scope through the scope it
// was reached from. The root keeps its own provided and test
// dependencies; transitive ones drop the way Maven drops them.
func deriveScope(declared string, from Scope) Scope {
	switch Scope(declared) {
	case ScopeTest:
		if from == scopeRoot {
			return ScopeTest
		}
		return ""
	case ScopeProvided:
		if from == scopeRoot {
			return ScopeProvided
		}
		return ""
	case ScopeSystem:
		return ""
	case ScopeRuntime:
		if from == scopeRoot || from == ScopeCompile {
			return ScopeRuntime
		}
		return from
	default:
		// compile, or absent.
		if from == scopeRoot {
			return ScopeCompile
		}
		return from
	}
}

// carriesTransitives reports whether a dependency's own graph joins the
// resolution. Test joins because the root's test dependencies pull
// their compile graph in test scope.
func carriesTransitives(scope Scope) bool {
	switch scope {
	case ScopeCompile, ScopeRuntime, ScopeTest:
		return true
	}
	return false
}

// exclusionSet holds the exclusions accumulated along one dependency
// path. Maven wildcards ("*") match whole groups or everything. A nil
// set blocks nothing.
type exclusionSet map[ArtifactKey]struct{}

func (e exclusionSet) blocks(key ArtifactKey) bool {
	for _, probe := range [3]ArtifactKey{
		key,
		{GroupID: key.GroupID, ArtifactID: "*"},
		{GroupID: "*", ArtifactID: "*"},
	} {
		if _, ok := e[probe]; ok {
			return true
		}
	}
	return false
}

// with returns a copy extended by a dependency's own exclusion list.
// The receiver is shared by sibling subtrees and never mutated.
func (e exclusionSet) with(more []Exclusion) exclusionSet {
	if len(more) == 0 {
		return e
	}
	next := make(exclusionSet, len(e)+len(more))
	for k := range e {
		next[k] = struct{}{}
	}
	for _, ex := range more {
		next[ArtifactKey{GroupID: ex.GroupID, ArtifactID: ex.ArtifactID}] = struct{}{}
	}
	return next
}
