// Package harvest walks a parsed document.AST and populates a
// fragment.Store from the Listing and Styled spans it recognizes,
// following the recognition rules of spec.md §4.3.
package harvest

import (
	"strings"

	"github.com/kober-systems/lisi-go/document"
	"github.com/kober-systems/lisi-go/fragment"
	"github.com/kober-systems/lisi-go/reference"
)

// Extract walks ast and stores every fragment contribution it finds into
// store. It returns every id it harvested, including those found in
// child spans and included documents, in document order, for
// diagnostics.
func Extract(ast *document.AST, store *fragment.Store) []fragment.ID {
	var seen []fragment.ID
	walkChildren(ast.Elements, store, &seen)
	return seen
}

func walkChildren(spans []*document.Span, store *fragment.Store, seen *[]fragment.ID) {
	for _, span := range spans {
		walkSpan(span, store, seen)
	}
}

func walkSpan(span *document.Span, store *fragment.Store, seen *[]fragment.ID) {
	switch span.Kind {
	case document.KindListing:
		if id, ok := extractListing(span, store); ok {
			*seen = append(*seen, id)
		}
	case document.KindStyled:
		if id, ok := extractStyled(span, store); ok {
			*seen = append(*seen, id)
		}
	case document.KindInclude:
		if span.Include != nil {
			walkChildren(span.Include.Elements, store, seen)
		}
	}
	if len(span.Children) > 0 {
		walkChildren(span.Children, store, seen)
	}
}

// extractListing recognizes a fenced block whose first positional
// attribute is "source". The second positional attribute, if present, is
// the interpreter hint. Remaining positional attributes select the sink:
// "save" (needs a path or title attribute), "eval" (dispatches to the
// interpreter), "pipe" (hands off to the embedded script host), and
// "lisi-raw" (opts the contribution out of reference substitution). None
// of those present means the block is a reusable Plain fragment.
func extractListing(span *document.Span, store *fragment.Store) (fragment.ID, bool) {
	if len(span.PositionalAttrs) == 0 || span.PositionalAttrs[0] != "source" {
		return "", false
	}

	c := &fragment.Contribution{
		RawContent: span.Content,
		Content:    span.Content,
		Attributes: map[string]string{},
	}

	if len(span.PositionalAttrs) > 1 {
		c.Interpreter = span.PositionalAttrs[1]
	}

	if len(span.PositionalAttrs) > 2 {
		for _, tag := range span.PositionalAttrs[2:] {
			switch tag {
			case "save":
				c.Kind = fragment.KindSave
			case "eval":
				c.Kind = fragment.KindEval
			case "pipe":
				c.Kind = fragment.KindPipe
			case "lisi-raw":
				c.Raw = true
			}
		}
	}

	for _, a := range span.Attrs {
		c.Attributes[a.Key] = a.Value
		switch a.Key {
		case "path":
			c.Path = a.Value
		case "interpreter":
			c.Interpreter = a.Value
		case "content":
			c.RawContent = a.Value
			c.Content = a.Value
		}
	}

	if !c.Raw {
		c.DependsOn = dependsOn(c.RawContent)
	}

	id := resolveID(span)
	store.Store(id, c)
	return id, true
}

// extractStyled recognizes an inline anchored span, `[#anchor]#content#`,
// as a single-line Plain contribution.
func extractStyled(span *document.Span, store *fragment.Store) (fragment.ID, bool) {
	anchor, ok := span.Attr("anchor")
	if !ok {
		return "", false
	}

	c := &fragment.Contribution{
		Kind:       fragment.KindPlain,
		RawContent: span.Content,
		Content:    span.Content,
		Attributes: map[string]string{},
		DependsOn:  dependsOn(span.Content),
	}

	id := fragment.ID(anchor)
	store.Store(id, c)
	return id, true
}

func dependsOn(body string) []fragment.ID {
	nodes := reference.Parse(body)
	ids := reference.Dependencies(nodes)
	out := make([]fragment.ID, len(ids))
	for i, id := range ids {
		out[i] = fragment.ID(id)
	}
	return out
}

func resolveID(span *document.Span) fragment.ID {
	if anchor, ok := span.Attr("anchor"); ok && strings.TrimSpace(anchor) != "" {
		return fragment.ID(anchor)
	}
	return fragment.SyntheticID(span.Start, span.End)
}
