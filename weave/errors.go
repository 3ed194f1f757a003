package weave

import "fmt"

// Fatal marks an error that must abort the run at the CLI boundary
// (spec.md §7: MissingAttribute, IoFailure). The reference grammar has
// no failure mode of its own: an unclosed `<<` is kept as literal code,
// so no parse failure is ever reported through Fatal.
type Fatal struct {
	Err error
}

func (f *Fatal) Error() string { return f.Err.Error() }
func (f *Fatal) Unwrap() error { return f.Err }

func fatalf(format string, args ...interface{}) *Fatal {
	return &Fatal{Err: fmt.Errorf(format, args...)}
}

// Warning marks a non-fatal condition (spec.md §7: UnresolvedReference,
// SelfReference, CycleInDependencies, EvalFailure): logged at the point
// of occurrence, never propagated as an error return.
type Warning struct {
	Err error
}

func (w *Warning) Error() string { return w.Err.Error() }
func (w *Warning) Unwrap() error { return w.Err }

