package pom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvLocalRepo overrides the local repository root, mirroring Maven's
// maven.repo.local property.
const EnvLocalRepo = "MAVEN_REPO_LOCAL"

// maxPOMDepth bounds parent and module chains against cyclic POMs.
const maxPOMDepth = 16

// LocalRepository reads POMs and jars from an on-disk Maven repository
// layout. It never touches the network; resolution degrades to whatever
// was installed locally.
type LocalRepository struct {
	Root string
}

// NewLocalRepository locates the local repository: $MAVEN_REPO_LOCAL when
// set, otherwise ~/.m2/repository.
func NewLocalRepository() *LocalRepository {
	if dir := os.Getenv(EnvLocalRepo); dir != "" {
		return &LocalRepository{Root: dir}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return &LocalRepository{}
	}
	return &LocalRepository{Root: filepath.Join(home, ".m2", "repository")}
}

func (r *LocalRepository) artifactDir(groupID, artifactID, version string) string {
	parts := append([]string{r.Root}, strings.Split(groupID, ".")...)
	parts = append(parts, artifactID, version)
	return filepath.Join(parts...)
}

func (r *LocalRepository) pomPath(groupID, artifactID, version string) string {
	return filepath.Join(r.artifactDir(groupID, artifactID, version),
		artifactID+"-"+version+".pom")
}

// FetchPOM reads one artifact's POM, merges its parent chain and
// interpolates properties. An artifact that is not installed is reported
// as nil, nil so transitive resolution continues without it.
func (r *LocalRepository) FetchPOM(groupID, artifactID, version string) (*Project, error) {
	project, err := readPOM(r.pomPath(groupID, artifactID, version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch %s:%s:%s: %w", groupID, artifactID, version, err)
	}
	if err := r.complete(project, "", 0); err != nil {
		return nil, err
	}
	return project, nil
}

// JarPath maps a resolved dependency to its jar in the repository,
// reporting whether the file exists. Dependencies of type pom have none.
func (r *LocalRepository) JarPath(dep ResolvedDependency) (string, bool) {
	if dep.Type == "pom" {
		return "", false
	}
	name := dep.ArtifactID + "-" + dep.Version
	if dep.Classifier != "" {
		name += "-" + dep.Classifier
	}
	path := filepath.Join(r.artifactDir(dep.GroupID, dep.ArtifactID, dep.Version), name+".jar")
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// LoadProject reads a workspace pom.xml into its effective model. Parents
// resolve through relativePath first, then the repository.
func (r *LocalRepository) LoadProject(path string) (*Project, error) {
	project, err := readPOM(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := r.complete(project, filepath.Dir(path), 0); err != nil {
		return nil, err
	}
	return project, nil
}

// LoadTree reads a workspace pom.xml and the pom.xml of every module it
// aggregates, recursively, root first.
func (r *LocalRepository) LoadTree(path string) ([]*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return r.loadTree(abs, make(map[string]bool), 0)
}

func (r *LocalRepository) loadTree(path string, seen map[string]bool, depth int) ([]*Project, error) {
	path = filepath.Clean(path)
	if seen[path] || depth >= maxPOMDepth {
		return nil, nil
	}
	seen[path] = true

	project, err := r.LoadProject(path)
	if err != nil {
		return nil, err
	}
	projects := []*Project{project}

	dir := filepath.Dir(path)
	for _, module := range project.Modules {
		modPath := filepath.Join(dir, filepath.FromSlash(module))
		if filepath.Ext(module) != ".xml" {
			modPath = filepath.Join(modPath, "pom.xml")
		}
		// A module listed but not present on disk is skipped, not fatal.
		sub, err := r.loadTree(modPath, seen, depth+1)
		if err != nil {
			continue
		}
		projects = append(projects, sub...)
	}
	return projects, nil
}

// complete builds the effective model in place: parent merge, then
// property interpolation. baseDir enables relativePath parent lookup for
// workspace POMs and is empty for repository POMs.
func (r *LocalRepository) complete(project *Project, baseDir string, depth int) error {
	if err := r.mergeParent(project, baseDir, depth); err != nil {
		return err
	}
	interpolateProperties(project)
	return nil
}

func (r *LocalRepository) mergeParent(project *Project, baseDir string, depth int) error {
	if project.Parent == nil {
		return nil
	}
	if depth >= maxPOMDepth {
		return fmt.Errorf("parent chain of %s deeper than %d", project.ArtifactID, maxPOMDepth)
	}

	parent := r.findParent(project, baseDir, depth)
	if parent == nil {
		// An uninstalled parent leaves the child as declared.
		return nil
	}

	if project.GroupID == "" {
		project.GroupID = parent.GroupID
	}
	if project.Version == "" {
		project.Version = parent.Version
	}

	if project.Properties == nil {
		project.Properties = &Properties{Entries: make(map[string]string)}
	}
	if parent.Properties != nil {
		for k, v := range parent.Properties.Entries {
			if _, exists := project.Properties.Entries[k]; !exists {
				project.Properties.Entries[k] = v
			}
		}
	}

	switch {
	case project.DependencyManagement == nil:
		project.DependencyManagement = parent.DependencyManagement
	case parent.DependencyManagement != nil:
		managed := make(map[ArtifactKey]bool)
		for _, d := range project.DependencyManagement.Dependencies {
			managed[ArtifactKey{GroupID: d.GroupID, ArtifactID: d.ArtifactID}] = true
		}
		for _, d := range parent.DependencyManagement.Dependencies {
			if !managed[ArtifactKey{GroupID: d.GroupID, ArtifactID: d.ArtifactID}] {
				project.DependencyManagement.Dependencies =
					append(project.DependencyManagement.Dependencies, d)
			}
		}
	}
	return nil
}

// findParent looks for the parent POM next to the workspace first, then
// in the repository. Both misses return nil.
func (r *LocalRepository) findParent(project *Project, baseDir string, depth int) *Project {
	p := project.Parent
	if baseDir != "" {
		rel := p.RelativePath
		if rel == "" {
			rel = filepath.Join("..", "pom.xml")
		}
		candidate := filepath.Join(baseDir, filepath.FromSlash(rel))
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			candidate = filepath.Join(candidate, "pom.xml")
		}
		if parent, err := readPOM(candidate); err == nil && parent.ArtifactID == p.ArtifactID {
			if err := r.complete(parent, filepath.Dir(candidate), depth+1); err == nil {
				return parent
			}
		}
	}

	parent, err := readPOM(r.pomPath(p.GroupID, p.ArtifactID, p.Version))
	if err != nil {
		return nil
	}
	if err := r.complete(parent, "", depth+1); err != nil {
		return nil
	}
	return parent
}

func readPOM(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var project Project
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &project, nil
}

// interpolateProperties substitutes ${...} references in dependency
// coordinates from the project's coordinates and properties.
func interpolateProperties(project *Project) {
	props := map[string]string{
		"project.groupId":    project.GroupID,
		"project.artifactId": project.ArtifactID,
		"project.version":    project.Version,
		"pom.groupId":        project.GroupID,
		"pom.artifactId":     project.ArtifactID,
		"pom.version":        project.Version,
	}
	if project.Properties != nil {
		for k, v := range project.Properties.Entries {
			props[k] = v
		}
	}

	interpolate := func(s string) string {
		if !strings.Contains(s, "${") {
			return s
		}
		for k, v := range props {
			s = strings.ReplaceAll(s, "${"+k+"}", v)
		}
		return s
	}

	deps := project.Dependencies
	for i := range deps {
		deps[i].GroupID = interpolate(deps[i].GroupID)
		deps[i].ArtifactID = interpolate(deps[i].ArtifactID)
		deps[i].Version = interpolate(deps[i].Version)
	}
	if project.DependencyManagement != nil {
		managed := project.DependencyManagement.Dependencies
		for i := range managed {
			managed[i].GroupID = interpolate(managed[i].GroupID)
			managed[i].ArtifactID = interpolate(managed[i].ArtifactID)
			managed[i].Version = interpolate(managed[i].Version)
		}
	}
}
