package lexer

import (
	"testing"

	"tapl/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func assertKinds(t *testing.T, got []token.Kind, want ...token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOperators(t *testing.T) {
	tokens, _, errs := New("== != <= >= ++ -- += -= *= /= && || + - * /\n").Tokenize()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assertKinds(t, kinds(tokens),
		token.EQUAL_EQUAL, token.NOT_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL,
		token.PLUS_PLUS, token.MINUS_MINUS, token.PLUS_EQUAL, token.MINUS_EQUAL,
		token.STAR_EQUAL, token.SLASH_EQUAL, token.AND_AND, token.OR_OR,
		token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.NEWLINE, token.EOF)
}

func TestIndentDedent(t *testing.T) {
	src := "if true:\n    print(1)\nprint(2)\n"
	tokens, _, errs := New(src).Tokenize()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	got := kinds(tokens)
	want := []token.Kind{
		token.IF, token.TRUE, token.COLON, token.NEWLINE,
		token.INDENT,
		token.PRINT, token.LPAREN, token.NUMBER, token.RPAREN, token.NEWLINE,
		token.DEDENT,
		token.PRINT, token.LPAREN, token.NUMBER, token.RPAREN, token.NEWLINE,
		token.EOF,
	}
	assertKinds(t, got, want...)
}

func TestBadIndentationReportsError(t *testing.T) {
	_, _, errs := New("  u8 x = 0\n").Tokenize()
	if len(errs) == 0 {
		t.Fatalf("expected a lexical error for 2-space indentation")
	}
}

func TestTabsAreRejected(t *testing.T) {
	_, _, errs := New("\tu8 x = 0\n").Tokenize()
	if len(errs) == 0 {
		t.Fatalf("expected a lexical error for a tab character")
	}
}

func TestNumericLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want int64
	}{
		{"0", 0},
		{"42", 42},
		{"0b101", 5},
		{"0x1F", 31},
	}
	for _, tt := range tests {
		tokens, _, errs := New(tt.src + "\n").Tokenize()
		if len(errs) != 0 {
			t.Fatalf("%q: unexpected errors: %v", tt.src, errs)
		}
		if tokens[0].Kind != token.NUMBER {
			t.Fatalf("%q: first token = %v, want NUMBER", tt.src, tokens[0].Kind)
		}
		if tokens[0].Int != tt.want {
			t.Errorf("%q: Int = %d, want %d", tt.src, tokens[0].Int, tt.want)
		}
	}
}

func TestEmptyRadixLiteralIsError(t *testing.T) {
	_, _, errs := New("0b\n").Tokenize()
	if len(errs) == 0 {
		t.Fatalf("expected an error for an empty binary literal")
	}
}

func TestStringInterpolation(t *testing.T) {
	tokens, _, errs := New(`print("x = {1 + 2}")` + "\n").Tokenize()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	got := kinds(tokens)
	want := []token.Kind{
		token.PRINT, token.LPAREN,
		token.STRING_START, token.STRING_CHARS, token.STRING_EXPR_START,
		token.NUMBER, token.PLUS, token.NUMBER, token.STRING_EXPR_END,
		token.STRING_END,
		token.RPAREN, token.NEWLINE, token.EOF,
	}
	assertKinds(t, got, want...)
}

func TestCommentsAreDiscarded(t *testing.T) {
	tokens, discarded, errs := New("u8 x = 1 // a comment\n").Tokenize()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	for _, tok := range tokens {
		if tok.Kind == token.INLINE_COMMENT {
			t.Fatalf("comment leaked into the live stream: %v", tokens)
		}
	}
	if len(discarded) == 0 {
		t.Fatalf("expected the comment in the discarded channel")
	}
}

func TestEveryTokenizationEndsInExactlyOneEOF(t *testing.T) {
	for _, src := range []string{"", "u8 x = 1\n", "if true:\n    x\n"} {
		tokens, _, _ := New(src).Tokenize()
		count := 0
		for i, tok := range tokens {
			if tok.Kind == token.EOF {
				count++
				if i != len(tokens)-1 {
					t.Errorf("%q: EOF not last token", src)
				}
			}
		}
		if count != 1 {
			t.Errorf("%q: saw %d EOF tokens, want 1", src, count)
		}
	}
}
