// Package pipehost implements the embedded script host of spec.md §4.7:
// a bounded, non-Turing-escape expression evaluator exposing exactly
// three host functions under a `lisi` constant, backed by
// github.com/expr-lang/expr.
package pipehost

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr"

	"github.com/kober-systems/lisi-go/fragment"
)

// Run evaluates content as an expr script with a `lisi` binding exposing
// store/get_snippet/get_snippet_names against store. The store handle is
// live only for the duration of this call (spec.md §5): no goroutine or
// callback may retain it past Run's return.
func Run(store *fragment.Store, content string) (interface{}, error) {
	env := map[string]interface{}{
		"lisi": map[string]interface{}{
			"store":             func(name, content string) interface{} { return storeFn(store, name, content) },
			"get_snippet":       func(name string) interface{} { return getSnippetFn(store, name) },
			"get_snippet_names": func() interface{} { return namesFn(store) },
		},
	}

	program, err := expr.Compile(content, expr.Env(env))
	if err != nil {
		return nil, fmt.Errorf("pipehost: compile: %w", err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("pipehost: run: %w", err)
	}
	return out, nil
}

func storeFn(store *fragment.Store, name, content string) interface{} {
	id := fragment.ID(name)
	store.Pop(id)
	store.Store(id, &fragment.Contribution{
		Kind:       fragment.KindPlain,
		RawContent: content,
		Content:    content,
		Raw:        true,
		Attributes: map[string]string{},
	})
	return nil
}

func getSnippetFn(store *fragment.Store, name string) interface{} {
	snippet, ok := store.Get(fragment.ID(name))
	if !ok {
		return nil
	}
	attrs := make(map[string]interface{}, len(snippet.Attributes))
	for k, v := range snippet.Attributes {
		attrs[k] = v
	}
	return map[string]interface{}{
		"content": snippet.RawJoined("\n"),
		"attrs":   attrs,
	}
}

func namesFn(store *fragment.Store) interface{} {
	ids := store.Ids()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	sort.Strings(names)
	return names
}
