// Package reference implements the fragment-reference mini-language of
// spec.md §4.1: code runs, plain references `<<id>>`, indented
// references, and reference attributes (`join=...`, `key:=value`,
// `key:=<<ref>>`).
package reference

import "strings"

// NodeKind distinguishes the three token kinds a fragment body parses
// into.
type NodeKind int

const (
	NodeCode NodeKind = iota
	NodePlainRef
	NodeIndentedRef
)

// AttrKind classifies one attribute item inside a reference's attribute
// list.
type AttrKind int

const (
	// AttrJoin is `join=<string>`.
	AttrJoin AttrKind = iota
	// AttrParamValue is `key:=literal`.
	AttrParamValue
	// AttrParamRef is `key:=<<ref>>`.
	AttrParamRef
	// AttrOther is any other `key=value`, carried for information only.
	AttrOther
)

// Attr is one item of a reference's attribute list.
type Attr struct {
	Key     string
	Kind    AttrKind
	Literal string     // set for AttrJoin, AttrParamValue, AttrOther
	Ref     *Reference // set for AttrParamRef
}

// Reference is a parsed `<<id | attrs>>` token.
type Reference struct {
	ID    string
	Attrs []Attr
}

// Join returns the reference's join separator (raw, not escape-decoded),
// defaulting to "\n" per spec.md §4.1.
func (r *Reference) Join() string {
	for _, a := range r.Attrs {
		if a.Kind == AttrJoin {
			return a.Literal
		}
	}
	return "\n"
}

// Node is one element of a parsed fragment body.
type Node struct {
	Kind NodeKind

	Code string // NodeCode

	Ref    *Reference // NodePlainRef, NodeIndentedRef
	Indent string     // NodeIndentedRef: the captured leading whitespace
}

// Parse splits a fragment body into code runs and references.
func Parse(body string) []Node {
	var nodes []Node
	var code strings.Builder
	lineStart := 0

	flush := func() {
		if code.Len() > 0 {
			nodes = append(nodes, Node{Kind: NodeCode, Code: code.String()})
			code.Reset()
		}
	}

	i := 0
	for i < len(body) {
		if body[i] == '\n' {
			code.WriteByte('\n')
			i++
			lineStart = i
			continue
		}
		if strings.HasPrefix(body[i:], "<<") {
			ref, consumed := parseReferenceToken(body[i:])
			if ref != nil {
				indent := body[lineStart:i]
				flush()
				if indent != "" && isAllBlank(indent) {
					nodes = append(nodes, Node{Kind: NodeIndentedRef, Ref: ref, Indent: indent})
				} else {
					nodes = append(nodes, Node{Kind: NodePlainRef, Ref: ref})
				}
				i += consumed
				continue
			}
		}
		code.WriteByte(body[i])
		i++
	}
	flush()

	return nodes
}

// Dependencies returns the fragment ids referenced syntactically at the
// top level of a parsed body — i.e. excluding identifiers that only
// appear nested inside a parameter binding's value; those are looked up
// in the store at substitution time and are not planned as dependencies.
func Dependencies(nodes []Node) []string {
	var ids []string
	for _, n := range nodes {
		if n.Kind == NodePlainRef || n.Kind == NodeIndentedRef {
			ids = append(ids, n.Ref.ID)
		}
	}
	return ids
}

// DecodeEscapes decodes `\n`, `\t`, `\\` in a join literal; other escape
// sequences pass through unchanged (spec.md §4.1, §9 open question).
func DecodeEscapes(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				out.WriteByte('\n')
				i++
				continue
			case 't':
				out.WriteByte('\t')
				i++
				continue
			case '\\':
				out.WriteByte('\\')
				i++
				continue
			}
		}
		out.WriteByte(s[i])
	}
	return out.String()
}

func isAllBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' {
			return false
		}
	}
	return true
}

// parseReferenceToken parses a `<<id | attrs>>` token starting at s[0:2]
// == "<<". It returns nil, 0 if s does not contain a balanced closing
// `>>`.
func parseReferenceToken(s string) (*Reference, int) {
	depth := 1
	i := 2
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "<<"):
			depth++
			i += 2
		case strings.HasPrefix(s[i:], ">>"):
			depth--
			if depth == 0 {
				inner := s[2:i]
				return parseReferenceInner(inner), i + 2
			}
			i += 2
		default:
			i++
		}
	}
	return nil, 0
}

func parseReferenceInner(inner string) *Reference {
	idPart, attrsPart, hasAttrs := splitTopLevel(inner, "|")
	ref := &Reference{ID: strings.TrimSpace(idPart)}
	if hasAttrs {
		ref.Attrs = parseAttrList(attrsPart)
	}
	return ref
}

// splitTopLevel splits s on the first occurrence of sep that is not
// nested inside a `<<...>>` span or a quoted string.
func splitTopLevel(s, sep string) (before, after string, found bool) {
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '"':
			inQuote = !inQuote
		case !inQuote && strings.HasPrefix(s[i:], "<<"):
			depth++
			i++
		case !inQuote && strings.HasPrefix(s[i:], ">>"):
			depth--
			i++
		case !inQuote && depth == 0 && strings.HasPrefix(s[i:], sep):
			return s[:i], s[i+len(sep):], true
		}
	}
	return s, "", false
}

// parseAttrList splits an attribute list on top-level commas/newlines and
// parses each item.
func parseAttrList(s string) []Attr {
	items := splitItems(s)
	attrs := make([]Attr, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if a, ok := parseAttrItem(item); ok {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

func splitItems(s string) []string {
	var items []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '"':
			inQuote = !inQuote
		case !inQuote && strings.HasPrefix(s[i:], "<<"):
			depth++
			i++
		case !inQuote && strings.HasPrefix(s[i:], ">>"):
			depth--
			i++
		case !inQuote && depth == 0 && (s[i] == ',' || s[i] == '\n'):
			items = append(items, s[start:i])
			start = i + 1
		}
	}
	items = append(items, s[start:])
	return items
}

func parseAttrItem(item string) (Attr, bool) {
	opIdx, opLen := findTopLevelAssign(item)
	if opIdx < 0 {
		return Attr{}, false
	}
	key := strings.TrimSpace(item[:opIdx])
	value := strings.TrimSpace(item[opIdx+opLen:])
	isParam := opLen == 2

	if isParam {
		if strings.HasPrefix(value, "<<") {
			ref, consumed := parseReferenceToken(value)
			if ref != nil && consumed == len(value) {
				return Attr{Key: key, Kind: AttrParamRef, Ref: ref}, true
			}
		}
		return Attr{Key: key, Kind: AttrParamValue, Literal: unquote(value)}, true
	}

	if key == "join" {
		return Attr{Key: key, Kind: AttrJoin, Literal: unquote(value)}, true
	}
	return Attr{Key: key, Kind: AttrOther, Literal: unquote(value)}, true
}

// findTopLevelAssign finds the first top-level `:=` or `=` in item,
// outside any nested `<<...>>` span or quoted string, and returns its
// index and operator length (2 for `:=`, 1 for `=`).
func findTopLevelAssign(item string) (idx, length int) {
	depth := 0
	inQuote := false
	for i := 0; i < len(item); i++ {
		switch {
		case item[i] == '"':
			inQuote = !inQuote
		case !inQuote && strings.HasPrefix(item[i:], "<<"):
			depth++
			i++
		case !inQuote && strings.HasPrefix(item[i:], ">>"):
			depth--
			i++
		case !inQuote && depth == 0 && item[i] == '=':
			if i > 0 && item[i-1] == ':' {
				return i - 1, 2
			}
			return i, 1
		}
	}
	return -1, 0
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
