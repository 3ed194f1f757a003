package env

import (
	"context"
	"fmt"
)

// Cache backs Environment with an in-memory map: reads and writes never
// touch disk, and Eval is answered from a table the caller pre-seeds.
// Used for --dry-run and for deterministic tests (spec.md §4.6).
type Cache struct {
	files map[string]string
	evals map[string]string // interpreter -> canned stdout
}

// NewCache returns an empty Cache environment.
func NewCache() *Cache {
	return &Cache{files: make(map[string]string), evals: make(map[string]string)}
}

// Seed pre-populates a readable path, e.g. for an include fixture.
func (c *Cache) Seed(path, content string) {
	c.files[path] = content
}

// SeedEval pre-populates the canned stdout Eval returns for interpreter.
func (c *Cache) SeedEval(interpreter, stdout string) {
	c.evals[interpreter] = stdout
}

// Writes returns the cache's file map, for test assertions: every path
// Write has recorded, plus any path pre-populated with Seed.
func (c *Cache) Writes() map[string]string {
	return c.files
}

func (c *Cache) ReadToString(ctx context.Context, path string) (string, error) {
	content, ok := c.files[path]
	if !ok {
		return "", fmt.Errorf("env: %s: not found", path)
	}
	return content, nil
}

func (c *Cache) Write(ctx context.Context, path string, content []byte) error {
	c.files[path] = string(content)
	return nil
}

func (c *Cache) Eval(ctx context.Context, interpreter string, content string) (string, error) {
	stdout, ok := c.evals[interpreter]
	if !ok {
		return "", fmt.Errorf("env: no canned eval for interpreter %q", interpreter)
	}
	return stdout, nil
}
