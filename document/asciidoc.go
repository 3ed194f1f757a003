package document

import (
	"regexp"
	"strings"
)

// ParseAsciidoc reads the AsciiDoc subset the weaver cares about: listing
// blocks fenced by `----`, preceded by an optional `[[anchor]]` line, an
// attribute line `[kind, lang, sink...]`, and an optional `.title` line;
// plus inline anchored styled spans of the form `[#anchor]#content#`.
// Everything else becomes an untyped paragraph span so later elements keep
// their source offsets.
//
// This is a reader for the weaver's own tests and the `lisi` CLI's
// smallest useful path. A production reader (full AsciiDoc, Markdown,
// JSON AST) is an external collaborator per spec.md §1 and is not
// reproduced here.
func ParseAsciidoc(source, logicalName string) *AST {
	lines := strings.Split(source, "\n")
	ast := &AST{Content: source}
	if logicalName != "" {
		ast.Attrs = append(ast.Attrs, Attribute{Key: "source", Value: logicalName})
	}

	var anchor string
	var title string
	offset := 0

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lineStart := offset
		offset += len(line) + 1

		trimmed := strings.TrimSpace(line)

		switch {
		case anchorLineRe.MatchString(trimmed):
			anchor = anchorLineRe.FindStringSubmatch(trimmed)[1]
			continue
		case strings.HasPrefix(trimmed, ".") && !strings.HasPrefix(trimmed, ".."):
			title = strings.TrimPrefix(trimmed, ".")
			continue
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			attrLine := trimmed[1 : len(trimmed)-1]
			positional := splitAttrList(attrLine)
			if len(positional) == 0 {
				continue
			}
			// look ahead for the fenced body
			if i+1 >= len(lines) || strings.TrimSpace(lines[i+1]) != "----" {
				continue
			}
			bodyStart := i + 2
			bodyEnd := bodyStart
			for bodyEnd < len(lines) && strings.TrimSpace(lines[bodyEnd]) != "----" {
				bodyEnd++
			}
			body := strings.Join(lines[bodyStart:bodyEnd], "\n")
			if bodyEnd < len(lines) {
				body += "\n"
			}

			span := &Span{
				Kind:            KindListing,
				Content:         body,
				Start:           lineStart,
				End:             lineStart + len(body),
				PositionalAttrs: positional,
			}
			if anchor != "" {
				span.Attrs = append(span.Attrs, Attribute{Key: "anchor", Value: anchor})
			}
			if title != "" {
				span.Attrs = append(span.Attrs, Attribute{Key: "title", Value: title})
			}
			ast.Elements = append(ast.Elements, span)

			anchor, title = "", ""
			i = bodyEnd // skip past the closing fence
		case inlineStyledRe.MatchString(trimmed):
			for _, m := range inlineStyledRe.FindAllStringSubmatch(trimmed, -1) {
				ast.Elements = append(ast.Elements, &Span{
					Kind:    KindStyled,
					Content: m[2],
					Start:   lineStart,
					End:     lineStart + len(m[2]),
					Attrs:   []Attribute{{Key: "anchor", Value: m[1]}},
				})
			}
		default:
			if trimmed != "" {
				ast.Elements = append(ast.Elements, &Span{
					Kind:    KindParagraph,
					Content: line,
					Start:   lineStart,
					End:     lineStart + len(line),
				})
			}
		}
	}

	return ast
}

var (
	anchorLineRe   = regexp.MustCompile(`^\[\[([^\]]+)\]\]$`)
	inlineStyledRe = regexp.MustCompile(`\[#([^\]]+)\]#([^#]*)#`)
)

func splitAttrList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
