package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kober-systems/lisi-go/document"
)

func TestParseAsciidocListingBlockWithAnchor(t *testing.T) {
	src := "[[req]]\n" +
		"[source,lua]\n" +
		"----\n" +
		"require \"m\"\n" +
		"----\n"

	ast := document.ParseAsciidoc(src, "doc.adoc")

	assert.Len(t, ast.Elements, 1)
	span := ast.Elements[0]
	assert.Equal(t, document.KindListing, span.Kind)
	assert.Equal(t, []string{"source", "lua"}, span.PositionalAttrs)
	anchor, ok := span.Attr("anchor")
	assert.True(t, ok)
	assert.Equal(t, "req", anchor)
	assert.Equal(t, "require \"m\"\n", span.Content)

	source, ok := ast.Attr("source")
	assert.True(t, ok)
	assert.Equal(t, "doc.adoc", source)
}

func TestParseAsciidocTitleBecomesSaveFallbackPath(t *testing.T) {
	src := "[[out]]\n" +
		".a.lua\n" +
		"[source,lua,save]\n" +
		"----\n" +
		"print(1)\n" +
		"----\n"

	ast := document.ParseAsciidoc(src, "")
	span := ast.Elements[0]
	title, ok := span.Attr("title")
	assert.True(t, ok)
	assert.Equal(t, "a.lua", title)
	assert.Equal(t, []string{"source", "lua", "save"}, span.PositionalAttrs)
}

func TestParseAsciidocInlineStyledSpan(t *testing.T) {
	ast := document.ParseAsciidoc("Some prose [#greeting]#hello# trailing", "")
	assert.Len(t, ast.Elements, 1)
	span := ast.Elements[0]
	assert.Equal(t, document.KindStyled, span.Kind)
	assert.Equal(t, "hello", span.Content)
	anchor, _ := span.Attr("anchor")
	assert.Equal(t, "greeting", anchor)
}

func TestParseAsciidocUntypedParagraph(t *testing.T) {
	ast := document.ParseAsciidoc("just some prose\n\nmore prose", "")
	assert.Len(t, ast.Elements, 2)
	assert.Equal(t, document.KindParagraph, ast.Elements[0].Kind)
}
