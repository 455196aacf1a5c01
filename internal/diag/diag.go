// Package diag renders a compiler error at its source location the way
// every front-end pass in this repository reports one: a bold file
// path and line number, a bold-red "error:" token, the message, and a
// right-aligned line-number gutter over the offending source line.
//
// Grounded on original_source/errors/ast_error.py's
// `{filename}:{line}: error: {message}` + `{line:>4} | {source}`
// layout (BOLD/RED from its Colors helper) and on the teacher's
// `parser/printer.go`, which hardcodes its own ANSI escapes
// (colorYellow/colorReset) rather than pulling in a terminal-color
// library — the same choice is made here.
package diag

import (
	"fmt"
	"path/filepath"
	"strings"

	"tapl/source"
)

const (
	bold  = "\033[1m"
	red   = "\033[31m"
	reset = "\033[0m"
)

// Located is satisfied by every error type produced between the lexer
// and the typing pass (LexError, SyntaxError, ResolveError, ScopeError,
// TypeError): each already carries the Span where it occurred.
type Located interface {
	error
	Location() source.Span
}

// Format renders a single diagnostic against the original source text,
// resolving path to an absolute one the way ast_error.py's filename
// column does.
func Format(path, text string, span source.Span, message string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	line := span.Line(text)
	sourceLine := span.LineText(text)

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s:%d:%s %s%serror:%s %s\n", bold, abs, line, reset, bold, red, reset, message)
	fmt.Fprintf(&b, "%4d | %s", line, sourceLine)
	return b.String()
}

// Report formats err against text, extracting its Span and message via
// the Located interface; errors that don't implement Located (none do
// today — every pass-level error type carries a Span) fall back to a
// location-less rendering of their Error() text.
func Report(path, text string, err error) string {
	if located, ok := err.(Located); ok {
		return Format(path, text, located.Location(), err.Error())
	}
	return fmt.Sprintf("%s%s:%s %s%serror:%s %s", bold, path, reset, bold, red, reset, err.Error())
}

// ReportAll formats a batch of errors, one diagnostic per line pair,
// separated by a blank line the way a terminal-facing compiler run
// reads most easily.
func ReportAll(path, text string, errs []error) string {
	rendered := make([]string, 0, len(errs))
	for _, err := range errs {
		rendered = append(rendered, Report(path, text, err))
	}
	return strings.Join(rendered, "\n\n")
}
