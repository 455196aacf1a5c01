package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"tapl/codegen"
	"tapl/internal/diag"
	"tapl/internal/toolchain"
	"tapl/parser"
)

// buildCmd implements the `build` command: the full pipeline from
// source text to a linked executable. -dumpTokens/-dumpAST repurpose
// the teacher's DumpBytecode/DiassembleBytecode artifact-dumping
// habit for this front end's own intermediate forms.
type buildCmd struct {
	outDir      string
	dumpTokens  bool
	dumpAST     bool
	run         bool
	noFormat    bool
	noCompile   bool
	ccCompiler  string
	ccFormatter string
}

func (*buildCmd) Name() string { return "build" }
func (*buildCmd) Synopsis() string {
	return "Compile a source file to C and, unless disabled, to a binary"
}
func (*buildCmd) Usage() string {
	return `build <file>:
  Lex, resolve, parse, check, and generate C for <file> into -out,
  then format and compile it unless -noFormat/-noCompile are given.
`
}

func (cmd *buildCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.outDir, "out", "build", "directory to write main.c and tapl_headers/ into")
	f.BoolVar(&cmd.dumpTokens, "dumpTokens", false, "print the token stream before compiling")
	f.BoolVar(&cmd.dumpAST, "dumpAST", false, "print the parsed AST as JSON before compiling")
	f.BoolVar(&cmd.run, "run", false, "execute the compiled binary after a successful build")
	f.BoolVar(&cmd.noFormat, "noFormat", false, "skip invoking the C formatter")
	f.BoolVar(&cmd.noCompile, "noCompile", false, "skip invoking the C compiler (only emit C sources)")
	f.StringVar(&cmd.ccCompiler, "cc", "", "C compiler binary to invoke (default: cc)")
	f.StringVar(&cmd.ccFormatter, "formatter", "", "C formatter binary to invoke (default: clang-format)")
}

func (cmd *buildCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if cmd.dumpTokens {
		tokens, lexErrs := tokenize(src)
		for _, tok := range tokens {
			fmt.Printf("%4d  %s\n", tok.Span.Line(src.text), tok.String())
		}
		if len(lexErrs) != 0 {
			fmt.Fprintln(os.Stderr, diag.ReportAll(src.path, src.text, lexErrs))
			return subcommands.ExitFailure
		}
	}

	tree, reg, errs := checkAll(src)
	if len(errs) != 0 {
		fmt.Fprintln(os.Stderr, diag.ReportAll(src.path, src.text, errs))
		return subcommands.ExitFailure
	}

	if cmd.dumpAST {
		if _, err := parser.PrintASTJSON(tree); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	if err := os.MkdirAll(cmd.outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating %s: %s\n", cmd.outDir, err.Error())
		return subcommands.ExitFailure
	}
	if err := codegen.Generate(tree, reg, cmd.outDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	tc := toolchain.Toolchain{Compiler: cmd.ccCompiler, Formatter: cmd.ccFormatter}

	if !cmd.noFormat {
		if err := tc.Format(toolchain.GeneratedFiles(cmd.outDir)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	if cmd.noCompile {
		return subcommands.ExitSuccess
	}
	if err := tc.Compile(cmd.outDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if !cmd.run {
		return subcommands.ExitSuccess
	}
	bin, err := filepath.Abs(toolchain.Binary(cmd.outDir))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := toolchain.Run(bin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
