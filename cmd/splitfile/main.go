package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/akamensky/argparse"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitInvalidArgs      = 2
	ExitConfigError      = 3
	ExitStorageError     = 4
	ExitValidationFailed = 5
	ExitIntegrityError   = 6
	ExitIOError          = 7
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// command is a subcommand registered on the parser.
type command interface {
	Happened() bool
	run(ctx context.Context) int
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	parser := argparse.NewParser("splitfile", "Split a file into numbered parts and combine them again")

	commands := []command{
		newSplitCommand(parser),
		newCombineCommand(parser),
		newValidateCommand(parser),
		newDeleteCommand(parser),
	}

	if err := parser.Parse(append([]string{"splitfile"}, args...)); err != nil {
		fmt.Fprint(stderr, parser.Usage(err))
		return ExitInvalidArgs
	}

	// Split and combine are never interrupted halfway.
	ctx := context.Background()

	for _, c := range commands {
		if c.Happened() {
			return c.run(ctx)
		}
	}

	fmt.Fprint(stderr, parser.Usage(nil))
	return ExitInvalidArgs
}
