// Package fragment implements the snippet data model of spec.md §3: the
// FragmentId/Contribution/Snippet types and the append-only, multivalued
// snippet store.
package fragment

import (
	"fmt"
	"strings"
)

// ID identifies a named fragment. It is either the document's anchor
// attribute, or a synthesized `_id_<start>_<end>` when the harvester found
// none.
type ID string

// SyntheticID reproduces the synthesized id from a span's byte range, so
// the same span always yields the same id (spec.md §3 invariant 3).
func SyntheticID(start, end int) ID {
	return ID(fmt.Sprintf("_id_%d_%d", start, end))
}

// Kind tags the sink a fully-woven fragment is dispatched to.
type Kind int

const (
	// KindPlain fragments are inert once woven: they exist only to be
	// referenced by other fragments.
	KindPlain Kind = iota
	// KindSave writes the woven content to Path.
	KindSave
	// KindEval pipes the woven content to an external interpreter.
	KindEval
	// KindPipe hands the woven content to the embedded script host.
	KindPipe
)

func (k Kind) String() string {
	switch k {
	case KindSave:
		return "save"
	case KindEval:
		return "eval"
	case KindPipe:
		return "pipe"
	default:
		return "plain"
	}
}

// Contribution is a single occurrence of a named fragment in the document.
type Contribution struct {
	Kind Kind

	// Path is the block's `path` attribute, if any. A Save without it
	// falls back to the `title` attribute at dispatch.
	Path string
	// Interpreter is the language hint or the `interpreter` attribute,
	// recorded for every listing; only KindEval dispatches to it.
	Interpreter string

	// RawContent is the exact text between the block delimiters. Never
	// rewritten.
	RawContent string
	// Content is the mutable working copy: initially equal to
	// RawContent, replaced in place by the weaver with the fully
	// substituted text.
	Content string

	// DependsOn lists the fragment ids referenced syntactically in the
	// body, in the order the reference grammar found them.
	DependsOn []ID

	// Attributes holds every named attribute recognized on the
	// enclosing block.
	Attributes map[string]string

	// Raw, when true, tells the weaver to treat RawContent as opaque:
	// no reference substitution. Set on contributions a Pipe fragment
	// inserts.
	Raw bool
}

// Snippet is the store entry for one fragment name: either a single
// contribution carried directly in the top-level fields, or — once a
// second contribution under the same name arrives — the ordered list in
// Children.
type Snippet struct {
	Kind Kind

	Path        string
	Interpreter string

	Content    string
	RawContent string
	DependsOn  []ID
	Attributes map[string]string
	Raw        bool

	// Children holds every contribution once a name has two or more;
	// size >= 2 as soon as the second contribution arrives (spec.md
	// §4.2).
	Children []*Contribution
}

// contributions returns every contribution this snippet carries, whether
// still inlined in the top-level fields (len==1) or already split into
// Children (len>=2).
func (s *Snippet) contributions() []*Contribution {
	if len(s.Children) > 0 {
		return s.Children
	}
	return []*Contribution{{
		Kind:        s.Kind,
		Path:        s.Path,
		Interpreter: s.Interpreter,
		Content:     s.Content,
		RawContent:  s.RawContent,
		DependsOn:   s.DependsOn,
		Attributes:  s.Attributes,
		Raw:         s.Raw,
	}}
}

// Contributions is the public, read-only view used by the weaver and the
// reference grammar's substitution step.
func (s *Snippet) Contributions() []*Contribution {
	return s.contributions()
}

// RawJoined concatenates every contribution's RawContent with sep (the
// reference site controls sep, not the definition). sep is used as
// given; escape sequences are decoded by the caller beforehand.
func (s *Snippet) RawJoined(sep string) string {
	parts := s.contributions()
	out := make([]string, len(parts))
	for i, c := range parts {
		out[i] = c.RawContent
	}
	return join(out, sep)
}

// join concatenates parts with sep, first trimming exactly one trailing
// newline from each part. A block's content always carries the newline
// that ended its last source line; keeping it would double up as soon as
// the part is spliced into a reference site that supplies its own line
// break (spec.md §4.1, confirmed against the use_snippets/append_snippets
// fixtures: a single-contribution reference embedded mid-line must not
// introduce a blank line, and multiple contributions joined by the
// default "\n" must read as consecutive lines, not separated by one).
func join(parts []string, sep string) string {
	trimmed := make([]string, len(parts))
	for i, p := range parts {
		trimmed[i] = strings.TrimSuffix(p, "\n")
	}
	out := ""
	for i, p := range trimmed {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

// setContent copies contribution c into the snippet's top-level fields,
// the form a snippet with a single contribution is stored in. Children is
// left untouched.
func (s *Snippet) setContent(c *Contribution) {
	s.Kind = c.Kind
	s.Path = c.Path
	s.Interpreter = c.Interpreter
	s.Content = c.Content
	s.RawContent = c.RawContent
	s.DependsOn = c.DependsOn
	s.Attributes = c.Attributes
	s.Raw = c.Raw
}
