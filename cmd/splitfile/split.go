package main

import (
	"context"
	"fmt"

	"github.com/akamensky/argparse"

	"github.com/ligustah/splitfile/internal/config"
	"github.com/ligustah/splitfile/internal/progress"
	"github.com/ligustah/splitfile/pkg/parts"
)

// splitCommand cuts a file into <pathname>.0 ... <pathname>.{count-1}.
type splitCommand struct {
	*argparse.Command
	common   *commonFlags
	pathname *string
	count    *int
	progress *bool
}

func newSplitCommand(p *argparse.Parser) *splitCommand {
	cmd := p.NewCommand("split", "Split a file into count numbered parts next to it")

	c := &splitCommand{Command: cmd}
	c.pathname = cmd.StringPositional(&argparse.Options{Help: "File pathname"})
	c.count = cmd.IntPositional(&argparse.Options{Help: "Number of parts to split the file into"})
	c.progress = cmd.Flag("p", "progress", &argparse.Options{Help: "Show transfer rate and a summary"})
	c.common = addCommonFlags(cmd)
	return c
}

func (c *splitCommand) run(ctx context.Context) int {
	if *c.pathname == "" {
		fmt.Fprint(stderr, c.Usage("pathname is required"))
		return ExitInvalidArgs
	}

	cfg, ok := c.common.load(config.Config{Progress: *c.progress})
	if !ok {
		return ExitConfigError
	}

	loc, ok := open(ctx, cfg, *c.pathname)
	if !ok {
		return ExitStorageError
	}
	defer loc.Close()

	reporter := progress.NewReporter(progress.Options{
		Operation: "Split",
		Header: func(n int) string {
			return fmt.Sprintf("Splitting %s into %d parts", *c.pathname, n)
		},
		ListParts:      true,
		ShowRate:       cfg.Progress,
		Output:         stderr,
		UpdateInterval: cfg.UpdateInterval,
	})
	// Stop is idempotent and silent before Begin.
	defer reporter.Stop()

	if _, err := parts.Split(ctx, loc.Bucket, loc.Key, *c.count, parts.WithProgress(reporter)); err != nil {
		return report(err)
	}
	reporter.Stop()

	fmt.Fprintln(stderr, "[splitfile] Complete")
	return ExitSuccess
}
