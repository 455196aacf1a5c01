package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"tapl/internal/diag"
)

// checkCmd implements the `check` command: runs the full front end
// (lex, resolve, parse) plus both check passes (scoping, typing) and
// reports every diagnostic found, without generating C.
type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "Scope- and type-check a source file" }
func (*checkCmd) Usage() string {
	return `check <file>:
  Run the scoping and typing passes over <file> and report every error.
`
}
func (*checkCmd) SetFlags(f *flag.FlagSet) {}

func (*checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	_, _, errs := checkAll(src)
	if len(errs) != 0 {
		fmt.Fprintln(os.Stderr, diag.ReportAll(src.path, src.text, errs))
		return subcommands.ExitFailure
	}
	fmt.Println("no errors")
	return subcommands.ExitSuccess
}
