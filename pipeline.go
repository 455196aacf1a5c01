package main

import (
	"fmt"
	"os"

	"tapl/ast"
	"tapl/check"
	"tapl/lexer"
	"tapl/parser"
	"tapl/resolve"
	"tapl/token"
	"tapl/types"
)

// srcFile bundles a file's raw text with the filename used for
// diagnostics, so every command reports against the same pair the
// parser and checks consumed.
type srcFile struct {
	path string
	text string
}

func readSource(path string) (srcFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return srcFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return srcFile{path: path, text: string(data)}, nil
}

// tokenize runs only the lexer, for the `tokens` subcommand,
// `build -dumpTokens`, and as the first stage of parse.
func tokenize(src srcFile) ([]token.Token, []error) {
	lx := lexer.New(src.text)
	tokens, _, errs := lx.Tokenize()
	return tokens, errs
}

// parse runs the lexer, the class/type resolver, and the parser,
// stopping at the first stage that reports an error.
func parse(src srcFile) (*ast.Ast, *types.Registry, []error) {
	tokens, lexErrs := tokenize(src)
	if len(lexErrs) != 0 {
		return nil, nil, lexErrs
	}

	reg := types.NewRegistry()
	resolve.Classes(tokens, reg)
	rewritten, resolveErrs := resolve.Apply(tokens, reg)
	if len(resolveErrs) != 0 {
		return nil, reg, resolveErrs
	}

	tree, parseErrs := parser.Make(rewritten).Parse(src.path)
	if len(parseErrs) != 0 {
		return nil, reg, parseErrs
	}
	return tree, reg, nil
}

// checkAll runs the front end through both check passes, collecting
// every scope and type error rather than stopping at the first.
func checkAll(src srcFile) (*ast.Ast, *types.Registry, []error) {
	tree, reg, errs := parse(src)
	if len(errs) != 0 {
		return nil, reg, errs
	}
	var all []error
	all = append(all, check.Scopes(tree, reg)...)
	all = append(all, check.Types(tree, reg)...)
	return tree, reg, all
}
