// Package resolve runs the two linear passes that sit between the
// tokenizer and the parser: the type resolver registers every
// user-declared class name, and the type applier rewrites identifier
// tokens that name a type (built-in, class, or list[T]) into TYPE
// tokens referencing the registry.
package resolve

import (
	"fmt"

	"tapl/source"
	"tapl/stream"
	"tapl/token"
	"tapl/types"
)

// ResolveError reports a malformed type-name construct, currently
// only a mismatched `list[...]` shape.
type ResolveError struct {
	Span    source.Span
	Message string
}

func (e *ResolveError) Error() string {
	return e.Message
}

func (e *ResolveError) Location() source.Span {
	return e.Span
}

// Classes walks tokens once and registers every identifier
// immediately following a `class` keyword as a new class type,
// matching spec.md §4.2.
func Classes(tokens []token.Token, reg *types.Registry) {
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].Kind == token.CLASS && tokens[i+1].Kind == token.IDENTIFIER {
			reg.AddClass(tokens[i+1].Text)
		}
	}
}

// Apply rewrites tokens in place: every Identifier naming a
// registered type keyword/alias becomes a TYPE token, and then every
// `list [ Type ]` run of four tokens collapses into one TYPE token
// referencing the interned list[T] type. Returns the rewritten token
// slice and any ResolveErrors encountered (malformed list[...] shapes
// are left unreplaced and reported, per spec.md §4.3).
func Apply(tokens []token.Token, reg *types.Registry) ([]token.Token, []error) {
	var errs []error

	s := stream.New(tokens)
	for !s.Done() {
		tok, err := s.Iter()
		if err != nil {
			break
		}
		if tok.Kind != token.IDENTIFIER {
			continue
		}
		t, ok := reg.Get(tok.Text)
		if !ok {
			continue
		}
		replacement := token.Token{Kind: token.TYPE, Span: tok.Span, TypeRef: t}
		if err := s.Replace(1, []token.Token{replacement}); err != nil {
			errs = append(errs, err)
		}
	}

	rewritten := s.Items()
	s2 := stream.New(rewritten)
	for !s2.Done() {
		tok, err := s2.Iter()
		if err != nil {
			break
		}
		if tok.Kind != token.LIST {
			continue
		}

		bracketOpen, okOpen := s2.Peek(0)
		elementTok, okElem := s2.Peek(1)
		bracketClose, okClose := s2.Peek(2)
		switch {
		case !okOpen || bracketOpen.Kind != token.LBRACKET:
			errs = append(errs, &ResolveError{Span: tok.Span, Message: mismatchMessage(token.LBRACKET, okOpen, bracketOpen)})
			continue
		case !okElem || elementTok.Kind != token.TYPE:
			errs = append(errs, &ResolveError{Span: tok.Span, Message: mismatchMessage(token.TYPE, okElem, elementTok)})
			continue
		case !okClose || bracketClose.Kind != token.RBRACKET:
			errs = append(errs, &ResolveError{Span: tok.Span, Message: mismatchMessage(token.RBRACKET, okClose, bracketClose)})
			continue
		}

		elementType, _ := elementTok.TypeRef.(*types.Type)
		listType := reg.InternList(elementType)
		span := tok.Span.Merge(bracketClose.Span)

		// consume the three lookahead tokens so the cursor sits just
		// past them, matching the Replace(4, ...) window the applier
		// is about to collapse.
		if _, err := s2.Iter(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := s2.Iter(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := s2.Iter(); err != nil {
			errs = append(errs, err)
			continue
		}

		replacement := token.Token{Kind: token.TYPE, Span: span, TypeRef: listType}
		if err := s2.Replace(4, []token.Token{replacement}); err != nil {
			errs = append(errs, err)
		}
	}

	return s2.Items(), errs
}

// DescribeMismatch renders a human-readable message for a malformed
// list[...] shape, used by ResolveError callers that want more detail
// than the generic "malformed list[...] type".
func DescribeMismatch(expected token.Kind, got token.Token) string {
	return fmt.Sprintf("expected %s but found %s", expected, got.Kind)
}

// mismatchMessage reports a malformed list[...] type, using
// DescribeMismatch's detailed wording when a token was actually found
// at the mismatched position, or a generic "ran out of tokens" message
// when the stream ended early.
func mismatchMessage(expected token.Kind, ok bool, got token.Token) string {
	if !ok {
		return fmt.Sprintf("malformed list[...] type: expected %s but found end of input", expected)
	}
	return "malformed list[...] type: " + DescribeMismatch(expected, got)
}
