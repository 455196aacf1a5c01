package token

import (
	"testing"

	"tapl/source"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{ASSIGN, "="},
		{EQUAL_EQUAL, "=="},
		{IDENTIFIER, "IDENTIFIER"},
		{CLASS, "class"},
		{EOF, "EOF"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: IDENTIFIER, Text: "myVar", Span: source.Make(0, 5)}
	want := `IDENTIFIER("myVar")`
	if got := tok.String(); got != want {
		t.Errorf("Token.String() = %q, want %q", got, want)
	}
}

func TestKeywordsContainsAllReservedWords(t *testing.T) {
	reserved := []string{
		"class", "else", "false", "for", "if", "list", "null", "print",
		"println", "return", "super", "this", "true", "while", "break",
		"breakall", "continue",
	}
	for _, word := range reserved {
		if _, ok := Keywords[word]; !ok {
			t.Errorf("Keywords missing reserved word %q", word)
		}
	}
}

func TestTwoCharOperatorsResolveBeforeOneChar(t *testing.T) {
	if kind, ok := TwoCharOperators["=="]; !ok || kind != EQUAL_EQUAL {
		t.Errorf("TwoCharOperators[==] = %v, %v, want EQUAL_EQUAL, true", kind, ok)
	}
	if kind, ok := OneCharOperators['=']; !ok || kind != ASSIGN {
		t.Errorf("OneCharOperators['='] = %v, %v, want ASSIGN, true", kind, ok)
	}
}
