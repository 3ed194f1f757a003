// Package env implements the weaver's capability boundary: reading and
// writing files, and spawning an interpreter for Eval fragments. Live
// backs it with the real filesystem and subprocess; Cache backs it with
// an in-memory map, for --dry-run and tests (spec.md §4.6).
package env

import "context"

// Environment is every side effect the weaver performs outside its own
// in-memory state.
type Environment interface {
	// ReadToString reads path, e.g. to resolve an include. A missing path
	// is reported as an ordinary error: Cache's error for it does not
	// satisfy os.IsNotExist, and Live returns afs's error as it is.
	ReadToString(ctx context.Context, path string) (string, error)

	// Write writes content to path, creating parent directories as
	// needed. It is a no-op if path already holds byte-identical content
	// (the idempotent-write property spec.md §10 requires).
	Write(ctx context.Context, path string, content []byte) error

	// Eval spawns interpreter, writes content to its stdin, and returns
	// its stdout. A non-zero exit is reported as an error but
	// never aborts the weave (spec.md §7).
	Eval(ctx context.Context, interpreter string, content string) (string, error)
}
