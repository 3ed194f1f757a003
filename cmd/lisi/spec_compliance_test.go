package main

import (
	"context"
	"testing"

	"github.com/kober-systems/lisi-go/document"
	"github.com/kober-systems/lisi-go/env"
	"github.com/kober-systems/lisi-go/fragment"
	"github.com/kober-systems/lisi-go/harvest"
	"github.com/kober-systems/lisi-go/weave"
)

// weaveDoc runs the full document -> harvest -> weave pipeline over src
// and returns every path the cache environment recorded a write for.
func weaveDoc(t *testing.T, logicalName, src string) map[string]string {
	t.Helper()
	ast := document.ParseAsciidoc(src, logicalName)
	store := fragment.NewStore()
	harvest.Extract(ast, store)

	cache := env.NewCache()
	w := weave.New(store, cache, logicalName)
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("weave.Run: %v", err)
	}
	return cache.Writes()
}

func mustEqual(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// TestS1ReferenceResolvesThroughSaveBlock is spec.md §8 scenario S1: a
// save block references a fragment declared earlier in the document.
func TestS1ReferenceResolvesThroughSaveBlock(t *testing.T) {
	src := "[[req]]\n" +
		"[source,lua]\n" +
		"----\n" +
		"require \"m\"\n" +
		"----\n" +
		".a.lua\n" +
		"[source,lua,save]\n" +
		"----\n" +
		"<<req>>\n" +
		"\n" +
		"print(m.v)\n" +
		"----\n"

	writes := weaveDoc(t, "s1.adoc", src)
	mustEqual(t, writes["a.lua"], "require \"m\"\n\nprint(m.v)\n")
}

// TestS2OrderIsPlannerNotDeclarationDriven is S2: identical to S1 except
// the save block is declared before its dependency. The dependency
// planner, not document order, decides weave order.
func TestS2OrderIsPlannerNotDeclarationDriven(t *testing.T) {
	src := ".a.lua\n" +
		"[source,lua,save]\n" +
		"----\n" +
		"<<req>>\n" +
		"\n" +
		"print(m.v)\n" +
		"----\n" +
		"[[req]]\n" +
		"[source,lua]\n" +
		"----\n" +
		"require \"m\"\n" +
		"----\n"

	writes := weaveDoc(t, "s2.adoc", src)
	mustEqual(t, writes["a.lua"], "require \"m\"\n\nprint(m.v)\n")
}

// TestS6IndentedReferenceIndentsEveryLine is S6: a reference whose line
// begins with whitespace only indents every line of its expansion by
// that captured whitespace, the first line excepted (it is already
// indented by the preceding code run).
func TestS6IndentedReferenceIndentsEveryLine(t *testing.T) {
	src := "[[pattern]]\n" +
		"[source,text]\n" +
		"----\n" +
		"line1\n" +
		"line2\n" +
		"line3\n" +
		"----\n" +
		".out.txt\n" +
		"[source,text,save]\n" +
		"----\n" +
		"before\n" +
		"  <<pattern>>\n" +
		"after\n" +
		"----\n"

	writes := weaveDoc(t, "s6.adoc", src)
	mustEqual(t, writes["out.txt"], "before\n  line1\n  line2\n  line3\nafter\n")
}
