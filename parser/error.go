package parser

import (
	"fmt"

	"tapl/source"
)

// SyntaxError reports a malformed construct encountered by the parser:
// a missing token, an unrecognised statement or expression form, or an
// invalid assignment target. The parser never panics on one of these;
// it records the error and resynchronizes at the next NEWLINE so later
// statements can still be parsed.
type SyntaxError struct {
	Span    source.Span
	Message string
}

func CreateSyntaxError(span source.Span, message string) *SyntaxError {
	return &SyntaxError{Span: span, Message: message}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.Message)
}

func (e *SyntaxError) Location() source.Span {
	return e.Span
}
