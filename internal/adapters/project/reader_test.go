package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stagehand-dev/stagehand/internal/adapters/project"
	"github.com/stagehand-dev/stagehand/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{
		"name": "hello-node",
		"engines": {"node": "0.10.x", "npm": "1.4.x"},
		"scripts": {"postinstall": "grunt build"},
		"dependencies": {"express": "4.x"},
		"devDependencies": {"grunt": "~0.4.5"}
	}`)

	proj, err := project.NewReader().Read(dir)
	require.NoError(t, err)

	assert.Equal(t, "hello-node", proj.Manifest.Name)
	assert.Equal(t, "0.10.x", proj.Manifest.Engines.Node)
	assert.Equal(t, "1.4.x", proj.Manifest.Engines.NPM)
	assert.True(t, proj.Manifest.DeclaresDependency("grunt"))
	assert.False(t, proj.Manifest.DeclaresDependency("bower"))
	assert.Empty(t, proj.Gruntfile)
	assert.False(t, proj.HasComponents)
	assert.False(t, proj.HasCommittedModules)
	assert.False(t, proj.HasNpmrc)
}

func TestReadMissingManifest(t *testing.T) {
	_, err := project.NewReader().Read(t.TempDir())
	require.ErrorContains(t, err, domain.ErrManifestNotFound.Error())
}

func TestReadInvalidManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", "{not json")

	_, err := project.NewReader().Read(dir)
	require.ErrorContains(t, err, domain.ErrManifestParseFailed.Error())
}

func TestReadToleratesMalformedEngines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "x", "engines": ["node"]}`)

	proj, err := project.NewReader().Read(dir)
	require.NoError(t, err)
	assert.Empty(t, proj.Manifest.Engines.Node)
}

func TestReadDetectsProjectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "x"}`)
	writeFile(t, dir, "bower.json", `{"name": "x"}`)
	writeFile(t, dir, ".npmrc", "loglevel=silent\n")
	writeFile(t, dir, "Gruntfile.coffee", "module.exports = ->\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "express"), 0o750))

	proj, err := project.NewReader().Read(dir)
	require.NoError(t, err)

	assert.Equal(t, "Gruntfile.coffee", proj.Gruntfile)
	assert.True(t, proj.HasComponents)
	assert.True(t, proj.HasCommittedModules)
	assert.True(t, proj.HasNpmrc)
}

func TestGruntfileDetectionOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name": "x"}`)
	writeFile(t, dir, "Gruntfile.js", "")
	writeFile(t, dir, "Gruntfile.coffee", "")

	proj, err := project.NewReader().Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "Gruntfile.js", proj.Gruntfile)
}
