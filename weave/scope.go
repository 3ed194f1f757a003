package weave

import "github.com/kober-systems/lisi-go/reference"

// binding is one parameter a reference's attribute list captured: either
// a literal value, or an indirection to another reference's target
// (spec.md §4.5 step 1).
type binding struct {
	isReference bool
	value       string

	target   string
	subattrs []reference.Attr
}

// scope is one frame of captured parameter bindings. scopeStack is
// lexical: a reference's own frame sits on top of whatever frames were
// active where that reference occurs (spec.md §8 property 5).
type scope map[string]binding

func lookupScope(stack []scope, id string) (binding, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		if b, ok := stack[i][id]; ok {
			return b, true
		}
	}
	return binding{}, false
}

// captureScope builds the frame for one reference's attribute list,
// resolving `key:=<<other>>` against stack as it goes (spec.md §4.5
// step 1).
func captureScope(attrs []reference.Attr, stack []scope) scope {
	s := scope{}
	for _, a := range attrs {
		switch a.Kind {
		case reference.AttrParamValue:
			s[a.Key] = binding{value: a.Literal}
		case reference.AttrParamRef:
			if b, ok := lookupScope(stack, a.Ref.ID); ok {
				s[a.Key] = b
			} else {
				s[a.Key] = binding{isReference: true, target: a.Ref.ID, subattrs: a.Ref.Attrs}
			}
		}
	}
	return s
}

func pushScope(stack []scope, s scope) []scope {
	next := make([]scope, len(stack), len(stack)+1)
	copy(next, stack)
	return append(next, s)
}

// referenceScope is the stack used to substitute a fragment fetched
// fresh from the store: just the frame captured at this reference
// site, not the caller's whole accumulated stack. A binding captured
// by an enclosing reference must not leak into a fragment it merely
// pulls in (spec.md §8 S5: the outer `echo` binding stays invisible
// inside `p`'s own body).
//
// The one exception is an enclosing parameter bound to an indirection
// that targets this same id (`echo:=<<p|echo:="B">>` while the body
// being substituted also calls `<<p>>` directly) — that indirection's
// attributes become the fresh frame instead, so the override reaches
// the fragment it names, matching spec.md §8 S5's worked example.
func referenceScope(stack []scope, id string) []scope {
	if ov, ok := findOverride(stack, id); ok {
		return []scope{captureScope(ov.subattrs, stack)}
	}
	if len(stack) == 0 {
		return []scope{{}}
	}
	return []scope{stack[len(stack)-1]}
}

// findOverride looks for a binding anywhere in stack that indirects to
// target, so a reference fetching target directly can pick up the
// same override.
func findOverride(stack []scope, target string) (binding, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		for _, b := range stack[i] {
			if b.isReference && b.target == target {
				return b, true
			}
		}
	}
	return binding{}, false
}

func joinOf(attrs []reference.Attr) string {
	for _, a := range attrs {
		if a.Kind == reference.AttrJoin {
			return reference.DecodeEscapes(a.Literal)
		}
	}
	return "\n"
}
