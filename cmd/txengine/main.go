package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(subcommands.FlagsCommand(), "")
	commander.Register(&processCmd{}, "")
	commander.Register(&generateCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
