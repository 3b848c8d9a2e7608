package main

import (
	"context"
	"fmt"

	"github.com/akamensky/argparse"

	"github.com/ligustah/splitfile/internal/config"
	"github.com/ligustah/splitfile/pkg/parts"
)

// validateCommand reports whether a file can be combined without touching
// any data.
type validateCommand struct {
	*argparse.Command
	common   *commonFlags
	pathname *string
	gapCheck *string
}

func newValidateCommand(p *argparse.Parser) *validateCommand {
	cmd := p.NewCommand("validate", "Check that the parts of pathname are complete. Reads no part data")

	c := &validateCommand{Command: cmd}
	c.pathname = cmd.StringPositional(&argparse.Options{Help: "File pathname"})
	c.gapCheck = cmd.String("g", "gap-check", &argparse.Options{Help: "How to look for missing parts: window or exhaustive"})
	c.common = addCommonFlags(cmd)
	return c
}

func (c *validateCommand) run(ctx context.Context) int {
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

	result, err := parts.Validate(ctx, loc.Bucket, loc.Key, parts.WithGapCheck(cfg.GapCheckMode()))
	if err != nil {
		return report(err)
	}

	fmt.Fprintf(stdout, "File: %s\n", *c.pathname)
	fmt.Fprintf(stdout, "Parts: %d\n", result.PartCount)
	fmt.Fprintf(stdout, "Total size: %d bytes\n", result.TotalSize)

	if len(result.Warnings) > 0 {
		fmt.Fprintln(stdout, "\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Fprintf(stdout, "  - %s\n", w)
		}
	}

	if result.Valid {
		fmt.Fprintln(stdout, "Status: VALID")
		return ExitSuccess
	}

	fmt.Fprintln(stdout, "Status: INVALID")
	if len(result.Errors) > 0 {
		fmt.Fprintln(stdout, "\nErrors:")
		for _, e := range result.Errors {
			fmt.Fprintf(stdout, "  - %s\n", e)
		}
	}

	return ExitValidationFailed
}
