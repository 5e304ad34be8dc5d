package project

import (
	"os"
	"path/filepath"

	"github.com/dhamidi/jig/pom"
)

// mavenJars resolves the workspace pom.xml, including aggregated modules,
// against the local Maven repository and returns the dependency jars that
// exist on disk. Direct dependencies come before transitive ones.
func mavenJars(root string) []string {
	pomPath := filepath.Join(root, "pom.xml")
	if _, err := os.Stat(pomPath); err != nil {
		return nil
	}

	repo := pom.NewLocalRepository()
	projects, err := repo.LoadTree(pomPath)
	if err != nil {
		return nil
	}

	resolver := pom.NewResolver(repo)
	seen := make(map[pom.ArtifactKey]bool)
	var jars []string
	for _, prj := range projects {
		deps, err := resolver.Resolve(prj)
		if err != nil {
			continue
		}
		for _, dep := range deps {
			if seen[dep.Key()] {
				continue
			}
			seen[dep.Key()] = true
			if path, ok := repo.JarPath(dep); ok {
				jars = append(jars, path)
			}
		}
	}
	return jars
}
