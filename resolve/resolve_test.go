package resolve

import (
	"testing"

	"tapl/source"
	"tapl/token"
	"tapl/types"
)

func tok(kind token.Kind, text string) token.Token {
	return token.Token{Kind: kind, Text: text, Span: source.Make(0, len(text))}
}

func TestClassesRegistersDeclaredNames(t *testing.T) {
	reg := types.NewRegistry()
	tokens := []token.Token{tok(token.CLASS, "class"), tok(token.IDENTIFIER, "Animal"), tok(token.COLON, ":")}
	Classes(tokens, reg)
	if _, ok := reg.Get("Animal"); !ok {
		t.Fatalf("expected Animal to be registered as a class type")
	}
}

func TestApplyRewritesBuiltinIdentifierToType(t *testing.T) {
	reg := types.NewRegistry()
	tokens := []token.Token{tok(token.IDENTIFIER, "u16"), tok(token.IDENTIFIER, "x")}
	out, errs := Apply(tokens, reg)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if out[0].Kind != token.TYPE {
		t.Fatalf("first token = %v, want TYPE", out[0].Kind)
	}
	if out[1].Kind != token.IDENTIFIER {
		t.Fatalf("second token = %v, want IDENTIFIER (plain variable name)", out[1].Kind)
	}
}

func TestApplyCollapsesListBrackets(t *testing.T) {
	reg := types.NewRegistry()
	tokens := []token.Token{
		tok(token.LIST, "list"), tok(token.LBRACKET, "["), tok(token.IDENTIFIER, "u8"), tok(token.RBRACKET, "]"),
		tok(token.IDENTIFIER, "xs"),
	}
	out, errs := Apply(tokens, reg)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(out) != 2 {
		t.Fatalf("got %d tokens, want 2 (one TYPE, one IDENTIFIER); tokens=%v", len(out), out)
	}
	if out[0].Kind != token.TYPE {
		t.Fatalf("first token = %v, want TYPE", out[0].Kind)
	}
	listType, ok := out[0].TypeRef.(*types.Type)
	if !ok || listType.Variant != types.VariantList {
		t.Fatalf("TypeRef = %v, want a list Type", out[0].TypeRef)
	}
}

func TestApplyInternsRepeatedListType(t *testing.T) {
	reg := types.NewRegistry()
	first, _ := Apply([]token.Token{
		tok(token.LIST, "list"), tok(token.LBRACKET, "["), tok(token.IDENTIFIER, "u8"), tok(token.RBRACKET, "]"),
	}, reg)
	second, _ := Apply([]token.Token{
		tok(token.LIST, "list"), tok(token.LBRACKET, "["), tok(token.IDENTIFIER, "u8"), tok(token.RBRACKET, "]"),
	}, reg)
	if first[0].TypeRef.(*types.Type) != second[0].TypeRef.(*types.Type) {
		t.Fatalf("list[u8] was not interned to the same *Type across calls")
	}
}

func TestApplyReportsMalformedListShape(t *testing.T) {
	reg := types.NewRegistry()
	tokens := []token.Token{tok(token.LIST, "list"), tok(token.LPAREN, "(")}
	_, errs := Apply(tokens, reg)
	if len(errs) == 0 {
		t.Fatalf("expected an error for a malformed list[...] shape")
	}
}
