package repository_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kober-systems/lisi-go/repository"
)

func TestDetectFindsNearestGoMod(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/widget\n\ngo 1.23\n"), 0644))

	sub := filepath.Join(root, "docs", "nested")
	assert.NoError(t, os.MkdirAll(sub, 0755))

	project, err := repository.New().Detect(sub)
	assert.NoError(t, err)
	assert.Equal(t, "go.mod", project.Marker)
	assert.Equal(t, "example.com/widget", project.Name)

	resolved, err := filepath.EvalSymlinks(project.RootPath)
	assert.NoError(t, err)
	wantRoot, err := filepath.EvalSymlinks(root)
	assert.NoError(t, err)
	assert.Equal(t, wantRoot, resolved)
}

func TestDetectFallsBackToGitMarker(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))

	project, err := repository.New().Detect(root)
	assert.NoError(t, err)
	assert.Equal(t, ".git", project.Marker)
	assert.Equal(t, filepath.Base(root), project.Name)
}

func TestDetectReturnsZeroProjectWhenNoMarkerFound(t *testing.T) {
	root := t.TempDir()
	project, err := repository.New().Detect(root)
	assert.NoError(t, err)
	assert.Equal(t, repository.Project{}, project)
}
