// Package token defines the TokenKind wire contract and the Token
// value produced by the lexer and consumed by every later pass.
package token

import (
	"fmt"

	"tapl/source"
)

// Kind discriminates the token union laid out in spec.md §6.
type Kind int

const (
	// punctuation
	LBRACE Kind = iota
	RBRACE
	LBRACKET
	RBRACKET
	COLON
	COMMA
	DOT
	LPAREN
	RPAREN
	SEMICOLON
	TILDE

	// operators
	ASSIGN
	EQUAL_EQUAL
	GREATER
	GREATER_EQUAL
	LESS
	LESS_EQUAL
	MINUS
	MINUS_EQUAL
	BANG
	NOT_EQUAL
	PLUS
	PLUS_EQUAL
	SLASH
	SLASH_EQUAL
	STAR
	STAR_EQUAL
	PLUS_PLUS
	MINUS_MINUS
	AMP
	AND_AND
	PIPE
	OR_OR

	// literal kinds
	IDENTIFIER
	TYPE
	CHARACTER
	NUMBER
	INLINE_COMMENT
	BLOCK_COMMENT

	// string kinds
	STRING_START
	STRING_CHARS
	STRING_EXPR_START
	STRING_EXPR_END
	STRING_END

	// keywords
	CLASS
	ELSE
	FALSE
	FOR
	IF
	LIST
	NULL
	PRINT
	PRINTLN
	RETURN
	SUPER
	THIS
	TRUE
	WHILE
	BREAK
	BREAKALL
	CONTINUE

	// special
	INDENT
	DEDENT
	NEWLINE
	ERROR
	EOF
)

var kindNames = map[Kind]string{
	LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]", COLON: ":",
	COMMA: ",", DOT: ".", LPAREN: "(", RPAREN: ")", SEMICOLON: ";", TILDE: "~",
	ASSIGN: "=", EQUAL_EQUAL: "==", GREATER: ">", GREATER_EQUAL: ">=",
	LESS: "<", LESS_EQUAL: "<=", MINUS: "-", MINUS_EQUAL: "-=",
	BANG: "!", NOT_EQUAL: "!=", PLUS: "+", PLUS_EQUAL: "+=",
	SLASH: "/", SLASH_EQUAL: "/=", STAR: "*", STAR_EQUAL: "*=",
	PLUS_PLUS: "++", MINUS_MINUS: "--", AMP: "&", AND_AND: "&&",
	PIPE: "|", OR_OR: "||",
	IDENTIFIER: "IDENTIFIER", TYPE: "TYPE", CHARACTER: "CHARACTER",
	NUMBER: "NUMBER", INLINE_COMMENT: "INLINE_COMMENT", BLOCK_COMMENT: "BLOCK_COMMENT",
	STRING_START: "STRING_START", STRING_CHARS: "STRING_CHARS",
	STRING_EXPR_START: "STRING_EXPR_START", STRING_EXPR_END: "STRING_EXPR_END",
	STRING_END: "STRING_END",
	CLASS:    "class",
	ELSE:     "else",
	FALSE:    "false",
	FOR:      "for",
	IF:       "if",
	LIST:     "list",
	NULL:     "null",
	PRINT:    "print",
	PRINTLN:  "println",
	RETURN:   "return",
	SUPER:    "super",
	THIS:     "this",
	TRUE:     "true",
	WHILE:    "while",
	BREAK:    "break",
	BREAKALL: "breakall",
	CONTINUE: "continue",
	INDENT:   "INDENT",
	DEDENT:   "DEDENT",
	NEWLINE:  "NEWLINE",
	ERROR:    "ERROR",
	EOF:      "EOF",
}

// Keywords maps exact source spellings to their keyword Kind, used by
// the lexer to distinguish keywords from plain identifiers.
var Keywords = map[string]Kind{
	"class": CLASS, "else": ELSE, "false": FALSE, "for": FOR, "if": IF,
	"list": LIST, "null": NULL, "print": PRINT, "println": PRINTLN,
	"return": RETURN, "super": SUPER, "this": THIS, "true": TRUE,
	"while": WHILE, "break": BREAK, "breakall": BREAKALL, "continue": CONTINUE,
}

// TwoCharOperators maps a two-character lexeme to its Kind; the lexer
// tries these before falling back to the matching one-character Kind.
var TwoCharOperators = map[string]Kind{
	"==": EQUAL_EQUAL, "!=": NOT_EQUAL, "<=": LESS_EQUAL, ">=": GREATER_EQUAL,
	"++": PLUS_PLUS, "--": MINUS_MINUS, "+=": PLUS_EQUAL, "-=": MINUS_EQUAL,
	"*=": STAR_EQUAL, "/=": SLASH_EQUAL, "&&": AND_AND, "||": OR_OR,
}

// OneCharOperators maps single-character punctuation/operators to Kind.
var OneCharOperators = map[byte]Kind{
	'{': LBRACE, '}': RBRACE, '[': LBRACKET, ']': RBRACKET, ':': COLON,
	',': COMMA, '.': DOT, '(': LPAREN, ')': RPAREN, ';': SEMICOLON, '~': TILDE,
	'=': ASSIGN, '>': GREATER, '<': LESS, '-': MINUS, '!': BANG,
	'+': PLUS, '/': SLASH, '*': STAR, '&': AMP, '|': PIPE,
}

// Token is the discriminated union described in spec.md §3. Only the
// fields relevant to Kind are meaningful; Text carries the lexeme for
// Identifier/keyword/StringChars/Comment tokens, Int/Rune carry decoded
// literal values, and TypeRef is populated once the type applier has
// rewritten an identifier into a Type token.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Int     int64
	Rune    rune
	IsBlock bool // for Comment tokens: true = block comment, false = inline
	TypeRef any  // *types.Type; stored as any to avoid an import cycle
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (t Token) String() string {
	switch t.Kind {
	case IDENTIFIER, STRING_CHARS, INLINE_COMMENT, BLOCK_COMMENT:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	case NUMBER:
		return fmt.Sprintf("NUMBER(%d)", t.Int)
	case CHARACTER:
		return fmt.Sprintf("CHARACTER(%q)", t.Rune)
	case TYPE:
		return fmt.Sprintf("TYPE(%v)", t.TypeRef)
	default:
		return t.Kind.String()
	}
}
