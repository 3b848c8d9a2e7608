package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/akamensky/argparse"

	"github.com/ligustah/splitfile/internal/config"
	"github.com/ligustah/splitfile/internal/storage"
	"github.com/ligustah/splitfile/pkg/parts"
)

// commonFlags are accepted by every command.
type commonFlags struct {
	bucket *string
	config *string
}

func addCommonFlags(cmd *argparse.Command) *commonFlags {
	return &commonFlags{
		bucket: cmd.String("b", "bucket", &argparse.Options{
			Help: "Bucket URL (s3://, gs://, file://, mem://). Default is the local filesystem",
		}),
		config: cmd.String("c", "config", &argparse.Options{
			Help: "YAML config file",
		}),
	}
}

// load builds the effective configuration: defaults, then the config file,
// then SPLITFILE_* variables, then override (the command's flags).
func (f *commonFlags) load(override config.Config) (config.Config, bool) {
	cfg := config.Default()
	if *f.config != "" {
		var err error
		cfg, err = config.LoadFromFile(*f.config)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return cfg, false
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return cfg, false
	}

	override.Bucket = *f.bucket
	cfg = cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cfg, false
	}
	return cfg, true
}

// open returns the location of pathname under cfg.Bucket.
func open(ctx context.Context, cfg config.Config, pathname string) (*storage.Location, bool) {
	loc, err := storage.Open(ctx, cfg.Bucket, pathname)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening bucket: %v\n", err)
		return nil, false
	}
	return loc, true
}

// report prints err and returns its exit code.
func report(err error) int {
	for _, line := range describe(err) {
		fmt.Fprintf(stderr, "Error: %s\n", line)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch parts.Classify(err) {
	case parts.CategoryNone:
		return ExitSuccess
	case parts.CategoryValidation:
		return ExitValidationFailed
	case parts.CategoryIntegrity:
		return ExitIntegrityError
	case parts.CategoryIO:
		return ExitIOError
	}
	return ExitGeneralError
}

func describe(err error) []string {
	var (
		pe  *parts.PlanError
		mpe *parts.MissingPartsError
		ie  *parts.IntegrityError
	)

	switch {
	case errors.Is(err, parts.ErrInvalidCount):
		return []string{"Count must be greater than 1"}
	case errors.As(err, &pe):
		return []string{fmt.Sprintf("Count is too high, part size is only %d", pe.PartSize)}
	case errors.Is(err, parts.ErrSourceNotFound):
		return []string{"File not found"}
	case errors.Is(err, parts.ErrAlreadySplit):
		return []string{"File has already been split"}
	case errors.Is(err, parts.ErrDestinationExists):
		return []string{"Output file already exists"}
	case errors.Is(err, parts.ErrNoPartsFound):
		return []string{"No parts found"}
	case errors.As(err, &mpe):
		var lines []string
		for _, span := range mpe.Missing {
			if span.Len() > parts.GapProbeWindow {
				lines = append(lines, fmt.Sprintf("Parts %d to %d are missing (%d parts)", span.First, span.Last, span.Len()))
				continue
			}
			for i := span.First; i <= span.Last; i++ {
				lines = append(lines, fmt.Sprintf("Part %d is missing", i))
			}
		}
		return lines
	case errors.As(err, &ie):
		switch ie.Op {
		case "read":
			return []string{fmt.Sprintf("Error reading file - bytes read: %d, file size: %d", ie.Actual, ie.Expected)}
		case "write":
			return []string{fmt.Sprintf("Error writing file - bytes written: %d, file size: %d", ie.Actual, ie.Expected)}
		}
		return []string{fmt.Sprintf("Bytes read: %d, bytes written: %d", ie.Expected, ie.Actual)}
	}
	return []string{err.Error()}
}
