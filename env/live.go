package env

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

// Live backs Environment with the real filesystem, through afs.Service,
// and real subprocesses for Eval.
type Live struct {
	fs   afs.Service
	root string // base directory Save paths are resolved against
}

// NewLive returns a Live environment rooted at root. An empty root
// resolves paths as given, relative to the process's working directory.
func NewLive(root string) *Live {
	return &Live{fs: afs.New(), root: root}
}

func (l *Live) resolve(path string) string {
	if l.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.root, path)
}

func (l *Live) ReadToString(ctx context.Context, path string) (string, error) {
	content, err := l.fs.DownloadWithURL(ctx, l.resolve(path))
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// Write skips the upload entirely when the destination already holds
// byte-identical content, so a re-run of the weaver over an unchanged
// fragment never disturbs the target file's mtime.
func (l *Live) Write(ctx context.Context, path string, content []byte) error {
	resolved := l.resolve(path)

	if existing, err := l.fs.DownloadWithURL(ctx, resolved); err == nil {
		same, hashErr := sameContent(existing, content)
		if hashErr == nil && same {
			return nil
		}
	}

	return l.fs.Upload(ctx, resolved, os.FileMode(0644), bytes.NewReader(content))
}

func sameContent(a, b []byte) (bool, error) {
	if len(a) != len(b) {
		return false, nil
	}
	ha, err := contentHash(a)
	if err != nil {
		return false, err
	}
	hb, err := contentHash(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}

// Eval spawns interpreter as a subprocess, writes content to its stdin,
// and returns stdout. Stderr is appended to a failing result's error so
// the weaver's non-fatal warning carries the interpreter's own message.
func (l *Live) Eval(ctx context.Context, interpreter string, content string) (string, error) {
	fields := strings.Fields(interpreter)
	if len(fields) == 0 {
		return "", fmt.Errorf("env: empty interpreter")
	}

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Stdin = strings.NewReader(content)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return stdout.String(), fmt.Errorf("env: %s: %w: %s", interpreter, err, stderr.String())
	}
	return stdout.String(), nil
}
