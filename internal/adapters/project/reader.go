// Package project inspects the application in the build directory.
package project

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"go.trai.ch/zerr"
)

// manifestFile is the package.json schema. Engines is kept raw because
// manifests in the wild carry arrays or other junk there; anything that
// is not an object of strings counts as undeclared.
type manifestFile struct {
	Name            string            `json:"name"`
	Engines         json.RawMessage   `json:"engines"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

type enginesFile struct {
	Node string `json:"node"`
	NPM  string `json:"npm"`
}

// Reader implements ports.ProjectReader.
type Reader struct{}

// NewReader creates a project reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read parses package.json and detects the optional files staging
// reacts to.
func (r *Reader) Read(buildDir string) (*domain.Project, error) {
	manifest, err := readManifest(buildDir)
	if err != nil {
		return nil, err
	}

	return &domain.Project{
		Manifest:            manifest,
		Gruntfile:           detectGruntfile(buildDir),
		HasComponents:       fileExists(filepath.Join(buildDir, domain.ComponentManifestFileName)),
		HasCommittedModules: dirExists(filepath.Join(buildDir, domain.ModulesDirName)),
		HasNpmrc:            fileExists(filepath.Join(buildDir, domain.NpmrcFileName)),
	}, nil
}

func readManifest(buildDir string) (*domain.PackageManifest, error) {
	path := filepath.Join(buildDir, domain.ManifestFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(domain.ErrManifestNotFound, "dir", buildDir)
	}
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
	}

	var file manifestFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", path)
	}

	manifest := &domain.PackageManifest{
		Name:            file.Name,
		Dependencies:    file.Dependencies,
		DevDependencies: file.DevDependencies,
	}

	if len(file.Engines) > 0 {
		var engines enginesFile
		if err := json.Unmarshal(file.Engines, &engines); err == nil {
			manifest.Engines = domain.Engines{Node: engines.Node, NPM: engines.NPM}
		}
	}

	return manifest, nil
}

func detectGruntfile(buildDir string) string {
	for _, name := range domain.GruntfileNames {
		if fileExists(filepath.Join(buildDir, name)) {
			return name
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
