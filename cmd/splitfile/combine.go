package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/akamensky/argparse"

	"github.com/ligustah/splitfile/internal/config"
	"github.com/ligustah/splitfile/internal/progress"
	"github.com/ligustah/splitfile/pkg/parts"
)

// combineCommand rebuilds a file from its parts and deletes them.
type combineCommand struct {
	*argparse.Command
	common    *commonFlags
	pathname  *string
	noCleanup *bool
	progress  *bool
	gapCheck  *string
}

func newCombineCommand(p *argparse.Parser) *combineCommand {
	cmd := p.NewCommand("combine", "Combine <pathname>.0, <pathname>.1, ... into pathname")

	c := &combineCommand{Command: cmd}
	c.pathname = cmd.StringPositional(&argparse.Options{Help: "File pathname"})
	c.noCleanup = cmd.Flag("n", "no-cleanup", &argparse.Options{Help: "Don't delete split files after combining"})
	c.progress = cmd.Flag("p", "progress", &argparse.Options{Help: "Show transfer rate and a summary"})
	c.gapCheck = cmd.String("g", "gap-check", &argparse.Options{Help: "How to look for missing parts: window or exhaustive"})
	c.common = addCommonFlags(cmd)
	return c
}

func (c *combineCommand) run(ctx context.Context) int {
	if *c.pathname == "" {
		fmt.Fprint(stderr, c.Usage("pathname is required"))
		return ExitInvalidArgs
	}

	cfg, ok := c.common.load(config.Config{
		NoCleanup: *c.noCleanup,
		Progress:  *c.progress,
		GapCheck:  *c.gapCheck,
	})
	if !ok {
		return ExitConfigError
	}

	loc, ok := open(ctx, cfg, *c.pathname)
	if !ok {
		return ExitStorageError
	}
	defer loc.Close()

	reporter := progress.NewReporter(progress.Options{
		Operation: "Combine",
		Header: func(n int) string {
			return fmt.Sprintf("Combining parts 0..%d into %s", n-1, *c.pathname)
		},
		ShowRate:       cfg.Progress,
		Output:         stderr,
		UpdateInterval: cfg.UpdateInterval,
	})
	// Stop is idempotent and silent before Begin.
	defer reporter.Stop()

	// Parts are deleted below so the totals are printed first.
	result, err := parts.Combine(ctx, loc.Bucket, loc.Key,
		parts.WithNoCleanup(true),
		parts.WithGapCheck(cfg.GapCheckMode()),
		parts.WithProgress(reporter),
	)
	if err != nil {
		code := report(err)
		if errors.Is(err, parts.ErrWriteMismatch) {
			fmt.Fprintln(stderr, "[splitfile] No cleanup")
		}
		return code
	}
	reporter.Stop()

	fmt.Fprintf(stderr, "[splitfile] Bytes read and written: %d\n", result.Totals.Written)

	if !cfg.NoCleanup {
		fmt.Fprintln(stderr, "[splitfile] Deleting split files")
		if err := parts.Cleanup(ctx, loc.Bucket, result.Parts); err != nil {
			return report(err)
		}
	}

	fmt.Fprintln(stderr, "[splitfile] Complete")
	return ExitSuccess
}
