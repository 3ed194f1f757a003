// Package repository locates the project root a document was woven
// from, so a Save fragment's relative path resolves against that root
// rather than the process's working directory (spec.md §11).
package repository

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// markers are checked in order; the first one found going up from the
// start directory wins.
var markers = []string{"go.mod", ".git", "package.json", "Cargo.toml", "pyproject.toml"}

// Project describes the detected root of the document's enclosing
// repository.
type Project struct {
	RootPath string
	Marker   string // which marker matched, e.g. "go.mod"
	Name     string // module/package name, when resolvable
}

// Detector searches a directory tree upward for the nearest project
// marker.
type Detector struct {
	fs afs.Service
}

// New returns a Detector backed by afs.
func New() *Detector {
	return &Detector{fs: afs.New()}
}

// Detect walks up from startDir looking for the nearest marker file.
// It returns a zero Project (no error) if no marker is found before
// reaching the filesystem root — callers then resolve paths as given.
func (d *Detector) Detect(startDir string) (Project, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Project{}, err
	}

	for {
		for _, marker := range markers {
			markerPath := filepath.Join(dir, marker)
			if _, err := os.Stat(markerPath); err == nil {
				return Project{
					RootPath: dir,
					Marker:   marker,
					Name:     d.projectName(dir, marker),
				}, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Project{}, nil
		}
		dir = parent
	}
}

func (d *Detector) projectName(root, marker string) string {
	if marker == "go.mod" {
		return d.goModuleName(filepath.Join(root, "go.mod"))
	}
	return filepath.Base(root)
}

// goModuleName reads a go.mod's module path via afs, falling back to a
// regex scan if modfile parsing fails.
func (d *Detector) goModuleName(goModPath string) string {
	content, err := d.fs.DownloadWithURL(context.Background(), goModPath)
	if err == nil {
		if mod, parseErr := modfile.Parse(goModPath, content, nil); parseErr == nil && mod.Module != nil {
			return mod.Module.Mod.Path
		}
		if m := moduleLineRe.FindSubmatch(content); len(m) == 2 {
			return string(m[1])
		}
	}
	return filepath.Base(filepath.Dir(goModPath))
}

var moduleLineRe = regexp.MustCompile(`module\s+([^\s]+)`)
