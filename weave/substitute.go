package weave

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kober-systems/lisi-go/fragment"
	"github.com/kober-systems/lisi-go/reference"
)

// substituteBody is the entry point for weaving one contribution's raw
// content: an empty initial scope, walked over the reference grammar
// (spec.md §4.5 "Substitution algorithm").
func (w *Weaver) substituteBody(raw string) string {
	return w.substituteNodes(reference.Parse(raw), []scope{{}})
}

func (w *Weaver) substituteNodes(nodes []reference.Node, stack []scope) string {
	var out strings.Builder
	for _, n := range nodes {
		switch n.Kind {
		case reference.NodeCode:
			out.WriteString(n.Code)
		case reference.NodePlainRef:
			out.WriteString(w.resolveRef(n.Ref, stack))
		case reference.NodeIndentedRef:
			w.emitIndented(&out, n, stack)
		}
	}
	return out.String()
}

// emitIndented substitutes an indented reference: the first line is
// emitted bare (its indentation was already emitted as the preceding
// code run), every following line gets a fresh newline plus the captured
// indentation (spec.md §4.5).
func (w *Weaver) emitIndented(out *strings.Builder, n reference.Node, stack []scope) {
	content := w.resolveRef(n.Ref, stack)
	lines := strings.Split(content, "\n")
	out.WriteString(lines[0])
	for _, line := range lines[1:] {
		out.WriteString("\n")
		out.WriteString(n.Indent)
		out.WriteString(line)
	}
}

func (w *Weaver) resolveRef(ref *reference.Reference, stack []scope) string {
	captured := captureScope(ref.Attrs, stack)
	next := pushScope(stack, captured)
	return w.resolveID(ref.ID, next, joinOf(ref.Attrs))
}

// resolveID resolves one identifier: parameter scopes first, the
// snippet store second (spec.md §9's "scopes first" open-question
// decision).
func (w *Weaver) resolveID(id string, stack []scope, joinSep string) string {
	if b, ok := lookupScope(stack, id); ok {
		return w.resolveBinding(id, b, stack)
	}

	snippet, ok := w.store.Get(fragment.ID(id))
	if !ok {
		w.warnf("unresolved reference %q", id)
		return ""
	}
	raw := snippet.RawJoined(joinSep)
	if snippet.Raw {
		return raw
	}
	return w.substituteNodes(reference.Parse(raw), referenceScope(stack, id))
}

func (w *Weaver) resolveBinding(id string, b binding, stack []scope) string {
	if !b.isReference {
		return b.value
	}
	if b.target == id {
		w.warnf("self-reference: parameter %q resolves to itself", id)
		return ""
	}
	merged := captureScope(b.subattrs, stack)
	// subattrs redefining the same key as id (echo:=<<p|echo:="B">>) is
	// this parameter's own value, not a detour through target's body.
	if mb, ok := merged[id]; ok {
		return w.resolveBinding(id, mb, stack)
	}
	next := pushScope(stack, merged)
	return w.resolveID(b.target, next, joinOf(b.subattrs))
}

func (w *Weaver) warnf(format string, args ...interface{}) {
	slog.Warn(fmt.Sprintf(format, args...), "source", w.sourceName)
}
