// Package document defines the traversable span-node tree that the weaver
// consumes. Producing this tree (from AsciiDoc, Markdown, or a serialized
// AST) is the job of a reader; the weaver only ever walks it.
package document

// Kind classifies a Span. The harvester only recognizes Listing, Styled
// and Include specially; every other kind is walked transparently.
type Kind string

const (
	KindDocument Kind = "document"
	KindListing  Kind = "listing" // a fenced block, e.g. `----` delimited
	KindStyled   Kind = "styled"  // an inline span carrying a style/anchor
	KindInclude  Kind = "include" // a nested document pulled in via include
	KindParagraph Kind = "paragraph"
	KindOther    Kind = "other"
)

// Attribute is a single named attribute on a Span (e.g. `anchor=req`).
type Attribute struct {
	Key   string
	Value string
}

// Span is one node of the parsed document tree. It mirrors the
// ElementSpan contract of the original asciidoctrine AST: every node
// carries its own literal text, offsets, the positional and named
// attributes recognized on its enclosing block, and its children.
type Span struct {
	Kind Kind

	// Content is the raw text between the block's delimiters, or the
	// literal text of an inline span. Never rewritten by the weaver.
	Content string

	Start, End int

	// PositionalAttrs are the comma-free tokens on a listing block's
	// attribute line, e.g. `source`, `lua`, `save`.
	PositionalAttrs []string

	// Attrs are the named attributes recognized on the node, e.g.
	// `anchor`, `path`, `title`, `interpreter`, `content`.
	Attrs []Attribute

	// Include, when Kind == KindInclude, holds the nested document this
	// include element pulls in.
	Include *AST

	Children []*Span
}

// Attr returns the value of the named attribute, if present.
func (s *Span) Attr(name string) (string, bool) {
	for _, a := range s.Attrs {
		if a.Key == name {
			return a.Value, true
		}
	}
	return "", false
}

// AST is the root of a parsed document.
type AST struct {
	Content  string
	Elements []*Span
	Attrs    []Attribute
}

// Attr returns the value of the named root-level attribute (e.g. the
// logical `source` name used in warning diagnostics).
func (a *AST) Attr(name string) (string, bool) {
	for _, attr := range a.Attrs {
		if attr.Key == name {
			return attr.Value, true
		}
	}
	return "", false
}
