// Package domain contains core domain types for staging Node.js
// applications.
package domain

// Engines holds the runtime version ranges declared by a package manifest.
type Engines struct {
	Node string `json:"node,omitzero"`
	NPM  string `json:"npm,omitzero"`
}

// PackageManifest is the subset of package.json that staging acts on.
type PackageManifest struct {
	Name            string            `json:"name,omitzero"`
	Engines         Engines           `json:"engines,omitzero"`
	Dependencies    map[string]string `json:"dependencies,omitzero"`
	DevDependencies map[string]string `json:"devDependencies,omitzero"`
}

// DeclaresDependency reports whether the named package appears in either
// dependencies or devDependencies.
func (m *PackageManifest) DeclaresDependency(name string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.Dependencies[name]; ok {
		return true
	}
	_, ok := m.DevDependencies[name]
	return ok
}

// Project is everything detection learned about the application before
// staging begins.
type Project struct {
	Manifest *PackageManifest

	// Gruntfile is the detected build-task configuration file name,
	// empty when none is present.
	Gruntfile string

	// HasComponents reports whether a bower.json is present.
	HasComponents bool

	// HasCommittedModules reports whether node_modules was checked in.
	HasCommittedModules bool

	// HasNpmrc reports whether a project-level .npmrc is present.
	HasNpmrc bool
}
