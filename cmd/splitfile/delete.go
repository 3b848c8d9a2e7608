package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/akamensky/argparse"

	"github.com/ligustah/splitfile/internal/config"
	"github.com/ligustah/splitfile/pkg/parts"
)

// deleteCommand removes the parts of a file without combining them.
// By default it prompts for confirmation unless --force is given.
type deleteCommand struct {
	*argparse.Command
	common   *commonFlags
	pathname *string
	force    *bool
	gapCheck *string
}

func newDeleteCommand(p *argparse.Parser) *deleteCommand {
	cmd := p.NewCommand("delete", "Delete <pathname>.0, <pathname>.1, ... without combining them")

	c := &deleteCommand{Command: cmd}
	c.pathname = cmd.StringPositional(&argparse.Options{Help: "File pathname"})
	c.force = cmd.Flag("f", "force", &argparse.Options{Help: "Skip confirmation prompt"})
	c.gapCheck = cmd.String("g", "gap-check", &argparse.Options{Help: "How to look for missing parts: window or exhaustive"})
	c.common = addCommonFlags(cmd)
	return c
}

func (c *deleteCommand) run(ctx context.Context) int {
	if *c.pathname == "" {
		fmt.Fprint(stderr, c.Usage("pathname is required"))
		return ExitInvalidArgs
	}

	cfg, ok := c.common.load(config.Config{GapCheck: *c.gapCheck})
	if !ok {
		return ExitConfigError
	}

	loc, ok := open(ctx, cfg, *c.pathname)
	if !ok {
		return ExitStorageError
	}
	defer loc.Close()

	// Refuse to delete an incomplete set, the same way combine would.
	set, err := parts.Locate(ctx, loc.Bucket, loc.Key, parts.WithGapCheck(cfg.GapCheckMode()))
	if err != nil {
		return report(err)
	}

	if !*c.force {
		fmt.Fprintf(stdout, "Delete parts 0..%d of %s? [y/N]: ", set.LastPart(), *c.pathname)
		reader := bufio.NewReader(stdin)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(stderr, "Cancelled")
			return ExitSuccess
		}
	}

	fmt.Fprintln(stderr, "[splitfile] Deleting split files")
	if err := parts.Cleanup(ctx, loc.Bucket, *set); err != nil {
		return report(err)
	}

	fmt.Fprintf(stderr, "[splitfile] Deleted %d parts of %s\n", set.Count, *c.pathname)
	return ExitSuccess
}
