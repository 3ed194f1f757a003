// Package weave drives the planner, substitutes references per
// spec.md §4.5, and dispatches each fully-woven fragment to its sink
// (spec.md §4.5, §4.6).
package weave

import (
	"context"
	"strings"

	"github.com/kober-systems/lisi-go/env"
	"github.com/kober-systems/lisi-go/fragment"
	"github.com/kober-systems/lisi-go/pipehost"
	"github.com/kober-systems/lisi-go/plan"
)

// Weaver consumes fragments in planned order and performs their sink
// actions through env.
type Weaver struct {
	store      *fragment.Store
	env        env.Environment
	sourceName string // the root document's logical name, for diagnostics
}

// New returns a Weaver operating on store through the given environment.
func New(store *fragment.Store, environment env.Environment, sourceName string) *Weaver {
	return &Weaver{store: store, env: environment, sourceName: sourceName}
}

// Run drains the dependency graph built over the weaver's store,
// weaving and dispatching one fragment at a time. It returns the first
// Fatal error encountered; everything else is logged as a warning and
// the run continues (spec.md §7).
func (w *Weaver) Run(ctx context.Context) error {
	graph := plan.Build(w.store)

	for {
		id, ok := graph.PopNext()
		if !ok {
			break
		}
		snippet, ok := w.store.Pop(id)
		if !ok {
			// a dependency-only node: nothing was ever harvested under
			// this name (spec.md invariant 4).
			continue
		}

		w.weaveSnippet(snippet)

		if err := w.dispatch(ctx, id, snippet); err != nil {
			var fatal *Fatal
			if asFatal(err, &fatal) {
				return fatal
			}
			w.warnf("%s: %v", id, err)
		}

		w.store.Put(id, snippet)
	}

	if remaining := graph.Remaining(); len(remaining) > 0 {
		names := make([]string, len(remaining))
		for i, id := range remaining {
			names[i] = string(id)
		}
		w.warnf("cycle in dependencies, skipping: %s", strings.Join(names, ", "))
	}

	return nil
}

func asFatal(err error, out **Fatal) bool {
	f, ok := err.(*Fatal)
	if ok {
		*out = f
	}
	return ok
}

// weaveSnippet substitutes every non-raw contribution's body in place.
func (w *Weaver) weaveSnippet(snippet *fragment.Snippet) {
	if snippet.Raw {
		return
	}

	contribs := snippet.Contributions()
	for _, c := range contribs {
		if c.Raw {
			continue
		}
		c.Content = w.substituteBody(c.RawContent)
	}

	if len(snippet.Children) == 0 && len(contribs) == 1 {
		snippet.Content = contribs[0].Content
	}
}

// dispatch acts on every contribution's own sink, not just the
// snippet's top-level Kind: spec.md §3 says the first contribution's
// kind wins the tie-break, but any Save/Eval/Pipe on a later
// contribution must still be carried out (§4.5).
func (w *Weaver) dispatch(ctx context.Context, id fragment.ID, snippet *fragment.Snippet) error {
	for _, c := range snippet.Contributions() {
		err := w.dispatchContribution(ctx, id, c)
		if err == nil {
			continue
		}
		var fatal *Fatal
		if asFatal(err, &fatal) {
			return fatal
		}
		w.warnf("%s: %v", id, err)
	}
	return nil
}

func (w *Weaver) dispatchContribution(ctx context.Context, id fragment.ID, c *fragment.Contribution) error {
	switch c.Kind {
	case fragment.KindPlain:
		return nil
	case fragment.KindSave:
		return w.dispatchSave(ctx, id, c)
	case fragment.KindEval:
		return w.dispatchEval(ctx, id, c)
	case fragment.KindPipe:
		return w.dispatchPipe(id, c)
	default:
		return nil
	}
}

func (w *Weaver) dispatchSave(ctx context.Context, id fragment.ID, c *fragment.Contribution) error {
	path := resolvePath(id, c)
	if path == "" {
		return fatalf("save %q: no resolvable path", id)
	}

	content := normalizeOutput(c.Content)
	if err := w.env.Write(ctx, path, []byte(content)); err != nil {
		return fatalf("save %q to %s: %v", id, path, err)
	}
	return nil
}

func (w *Weaver) dispatchEval(ctx context.Context, id fragment.ID, c *fragment.Contribution) error {
	interpreter := resolveInterpreter(c)
	if interpreter == "" {
		return fatalf("eval %q: no resolvable interpreter", id)
	}

	_, err := w.env.Eval(ctx, interpreter, c.Content)
	if err != nil {
		w.warnf("eval %q via %s failed: %v", id, interpreter, err)
	}
	return nil
}

func (w *Weaver) dispatchPipe(id fragment.ID, c *fragment.Contribution) error {
	if _, err := pipehost.Run(w.store, c.Content); err != nil {
		w.warnf("pipe %q failed: %v", id, err)
	}
	return nil
}

// resolvePath implements the "prefer erroring" resolution spec.md §9
// records: path, else title, else fatal. It never falls back to id.
func resolvePath(id fragment.ID, c *fragment.Contribution) string {
	if p, ok := c.Attributes["path"]; ok && p != "" {
		return p
	}
	if t, ok := c.Attributes["title"]; ok && t != "" {
		return t
	}
	return ""
}

func resolveInterpreter(c *fragment.Contribution) string {
	if interp, ok := c.Attributes["interpreter"]; ok && interp != "" {
		return interp
	}
	return c.Interpreter
}

// normalizeOutput strips trailing whitespace from every line and ensures
// the file ends in a single LF (spec.md §6).
func normalizeOutput(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	out := strings.Join(lines, "\n")
	return strings.TrimRight(out, "\n") + "\n"
}
