package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"tapl/check"
	"tapl/codegen"
	"tapl/internal/diag"
	"tapl/lexer"
	"tapl/parser"
	"tapl/resolve"
	"tapl/token"
	"tapl/types"
)

// replCmd implements the `repl` command: an interactive read-eval-check
// loop that lexes, resolves, parses, and checks one line/block at a
// time, then prints the C it would generate — without invoking a real
// C toolchain. Grounded on cmd_repl_compiled.go's buffer-until-ready
// loop, with its brace-balance isInputReady generalized to this
// language's INDENT/DEDENT tokens (there are no braces here), and
// built on github.com/chzyer/readline for history/line-editing instead
// of a bare bufio.Scanner.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive check-and-preview session" }
func (*replCmd) Usage() string {
	return `repl:
  Read a line (or indented block) at a time, type-check it, and print
  the C it would generate.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("tapl repl — type a statement (or Ctrl-D to exit)")

	var buffer strings.Builder
	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Println(err)
			return subcommands.ExitFailure
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		text := buffer.String()

		tokens, _, lexErrs := lexer.New(text).Tokenize()
		if !isInputReady(tokens) {
			continue
		}
		if len(lexErrs) != 0 {
			fmt.Println(diag.ReportAll("repl", text, lexErrs))
			buffer.Reset()
			continue
		}

		reg := types.NewRegistry()
		resolve.Classes(tokens, reg)
		rewritten, resolveErrs := resolve.Apply(tokens, reg)
		if len(resolveErrs) != 0 {
			fmt.Println(diag.ReportAll("repl", text, resolveErrs))
			buffer.Reset()
			continue
		}

		tree, parseErrs := parser.Make(rewritten).Parse("repl")
		if len(parseErrs) != 0 {
			if allParseErrorsAtEnd(parseErrs, text) {
				continue
			}
			fmt.Println(diag.ReportAll("repl", text, parseErrs))
			buffer.Reset()
			continue
		}

		var checkErrs []error
		checkErrs = append(checkErrs, check.Scopes(tree, reg)...)
		checkErrs = append(checkErrs, check.Types(tree, reg)...)
		if len(checkErrs) != 0 {
			fmt.Println(diag.ReportAll("repl", text, checkErrs))
			buffer.Reset()
			continue
		}

		fmt.Print(codegen.Fragment(tree.Statements))
		buffer.Reset()
	}
}

// isInputReady reports whether tokens represents a complete statement
// or block: every INDENT has been matched by a DEDENT, and the final
// token isn't an operator, colon, or keyword that obviously expects
// more to follow.
func isInputReady(tokens []token.Token) bool {
	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case token.INDENT:
			depth++
		case token.DEDENT:
			depth--
		}
	}
	if depth > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}
	switch last.Kind {
	case token.COLON, token.ASSIGN, token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.BANG, token.EQUAL_EQUAL, token.NOT_EQUAL, token.LESS, token.LESS_EQUAL,
		token.GREATER, token.GREATER_EQUAL, token.COMMA, token.LPAREN, token.AND_AND, token.OR_OR,
		token.IF, token.ELSE, token.FOR, token.WHILE, token.RETURN, token.PRINT, token.PRINTLN,
		token.CLASS:
		return false
	}
	return true
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Kind != token.EOF && tokens[i].Kind != token.NEWLINE {
			return &tokens[i]
		}
	}
	return nil
}

// allParseErrorsAtEnd reports whether every parse error is a
// SyntaxError positioned at or past the final line of text — the
// signature of a statement that simply isn't finished yet, which
// should prompt for more input instead of failing.
func allParseErrorsAtEnd(errs []error, text string) bool {
	lastLine := strings.Count(text, "\n") + 1
	for _, err := range errs {
		synErr, ok := err.(*parser.SyntaxError)
		if !ok {
			return false
		}
		if synErr.Span.Line(text) < lastLine {
			return false
		}
	}
	return len(errs) > 0
}
