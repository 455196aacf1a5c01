package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"tapl/internal/diag"
)

// tokensCmd implements the `tokens` command.
type tokensCmd struct{}

func (*tokensCmd) Name() string     { return "tokens" }
func (*tokensCmd) Synopsis() string { return "Print the token stream for a source file" }
func (*tokensCmd) Usage() string {
	return `tokens <file>:
  Lex <file> and print every token, one per line.
`
}
func (*tokensCmd) SetFlags(f *flag.FlagSet) {}

func (*tokensCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	tokens, errs := tokenize(src)
	for _, tok := range tokens {
		fmt.Printf("%4d  %s\n", tok.Span.Line(src.text), tok.String())
	}
	if len(errs) != 0 {
		fmt.Fprintln(os.Stderr, diag.ReportAll(src.path, src.text, errs))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
