package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"tapl/internal/diag"
	"tapl/parser"
)

// astCmd implements the `ast` command.
type astCmd struct {
	out string
}

func (*astCmd) Name() string     { return "ast" }
func (*astCmd) Synopsis() string { return "Print the parsed AST as JSON for a source file" }
func (*astCmd) Usage() string {
	return `ast <file>:
  Lex, resolve, and parse <file>, then print the AST as JSON.
`
}
func (cmd *astCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.out, "out", "", "write the AST JSON to this file instead of stdout")
}

func (cmd *astCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "file not provided")
		return subcommands.ExitUsageError
	}

	src, err := readSource(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	tree, _, errs := parse(src)
	if len(errs) != 0 {
		fmt.Fprintln(os.Stderr, diag.ReportAll(src.path, src.text, errs))
		return subcommands.ExitFailure
	}

	if cmd.out != "" {
		if err := parser.WriteASTJSONToFile(tree, cmd.out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	if _, err := parser.PrintASTJSON(tree); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
