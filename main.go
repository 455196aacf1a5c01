package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&tokensCmd{}, "")
	subcommands.Register(&astCmd{}, "")
	subcommands.Register(&checkCmd{}, "")
	subcommands.Register(&buildCmd{}, "")
	subcommands.Register(&replCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
