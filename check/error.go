// Package check runs the two AST-walking passes between the parser and
// the code generator: the scoping pass (duplicate/unknown identifier
// detection) and the typing pass (the check-compatibility rule,
// numeric-literal bounds, list/class method resolution, return
// validation). Both collect every error they find rather than
// aborting on the first one, matching spec.md §5's fail-soft rule for
// these passes.
package check

import (
	"fmt"

	"tapl/source"
)

// ScopeError reports a duplicate or unknown identifier, or a control
// keyword (`break`/`continue`/`breakall`) used outside a loop.
type ScopeError struct {
	Span    source.Span
	Message string
}

func (e *ScopeError) Error() string       { return e.Message }
func (e *ScopeError) Location() source.Span { return e.Span }

// TypeError reports an incompatible-types use, an out-of-range numeric
// literal, an uncallable identifier, a return-value mismatch, or a bad
// argument count.
type TypeError struct {
	Span    source.Span
	Message string
}

func (e *TypeError) Error() string       { return e.Message }
func (e *TypeError) Location() source.Span { return e.Span }

func scopeErrorf(span source.Span, format string, args ...any) *ScopeError {
	return &ScopeError{Span: span, Message: fmt.Sprintf(format, args...)}
}

func typeErrorf(span source.Span, format string, args ...any) *TypeError {
	return &TypeError{Span: span, Message: fmt.Sprintf(format, args...)}
}
