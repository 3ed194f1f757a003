package pipehost_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kober-systems/lisi-go/fragment"
	"github.com/kober-systems/lisi-go/pipehost"
)

func TestRunStoreInsertsRawPlainContribution(t *testing.T) {
	store := fragment.NewStore()

	_, err := pipehost.Run(store, `lisi.store("greeting", "hello")`)
	assert.NoError(t, err)

	snippet, ok := store.Get("greeting")
	assert.True(t, ok)
	assert.True(t, snippet.Raw)
	assert.Equal(t, "hello", snippet.RawContent)
}

func TestRunGetSnippetReturnsContentAndAttrs(t *testing.T) {
	store := fragment.NewStore()
	store.Store("req", &fragment.Contribution{
		RawContent: `require "m"`,
		Attributes: map[string]string{"title": "req"},
	})

	out, err := pipehost.Run(store, `lisi.get_snippet("req").content`)
	assert.NoError(t, err)
	assert.Equal(t, `require "m"`, out)
}

func TestRunGetSnippetUnknownReturnsNil(t *testing.T) {
	store := fragment.NewStore()
	out, err := pipehost.Run(store, `lisi.get_snippet("missing")`)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestRunGetSnippetNamesIsSorted(t *testing.T) {
	store := fragment.NewStore()
	store.Store("zeta", &fragment.Contribution{RawContent: "z"})
	store.Store("alpha", &fragment.Contribution{RawContent: "a"})

	out, err := pipehost.Run(store, `lisi.get_snippet_names()`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, out)
}

func TestRunCompileFailureIsReported(t *testing.T) {
	store := fragment.NewStore()
	_, err := pipehost.Run(store, `this is not valid expr syntax {{{`)
	assert.Error(t, err)
}
