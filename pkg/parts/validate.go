package parts

import (
	"context"
	"errors"
	"fmt"

	"gocloud.dev/blob"
)

// ValidationResult contains the results of checking the parts of a file.
type ValidationResult struct {
	Valid             bool     // true if Combine would find a usable part set
	PartCount         int      // length of the contiguous run from 0
	TotalSize         int64    // sum of part sizes in the run
	PartSizes         []int64  // size of each part in the run
	DestinationExists bool     // the combined file already exists
	Missing           []Span   // index runs reported missing past the run
	Errors            []string // reasons Valid is false
	Warnings          []string // part sizes that one split cannot produce
}

// Validate checks the parts of key without reading their data or writing
// anything. It runs the same discovery as Combine and reports the outcome.
//
// Returns an error only if a storage call fails or the context is
// cancelled. Missing parts, an existing destination or no parts at all are
// reported in the ValidationResult with Valid=false. A part deleted after
// Locate saw it ends the run and is reported as missing.
func Validate(ctx context.Context, bucket *blob.Bucket, key string, options ...Option) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	exists, err := bucket.Exists(ctx, key)
	if err != nil {
		return nil, ioErr("stat", key, err)
	}
	if exists {
		result.Valid = false
		result.DestinationExists = true
		result.Errors = append(result.Errors, fmt.Sprintf("output file %s already exists", key))
	}

	set, err := Locate(ctx, bucket, key, options...)
	var mpe *MissingPartsError
	switch {
	case err == nil:
	case errors.Is(err, ErrNoPartsFound):
		result.Valid = false
		result.Errors = append(result.Errors, "no parts found")
		return result, nil
	case errors.As(err, &mpe):
		result.Valid = false
		result.Missing = mpe.Missing
		for _, m := range mpe.Missing {
			result.Errors = append(result.Errors, missingMessage(m))
		}
		set = &PartSet{Key: key, Count: mpe.LastPart + 1}
	default:
		return nil, err
	}

	result.PartCount = set.Count
	result.PartSizes = make([]int64, 0, set.Count)
	for i, name := range set.Names() {
		attrs, err := bucket.Attributes(ctx, name)
		if isNotExist(err) {
			// Deleted since Locate saw it; the run ends here.
			result.Valid = false
			result.PartCount = i
			result.Errors = append(result.Errors, fmt.Sprintf("part %d is missing", i))
			break
		}
		if err != nil {
			return nil, ioErr("stat", name, err)
		}
		result.PartSizes = append(result.PartSizes, attrs.Size)
		result.TotalSize += attrs.Size
	}

	result.Warnings = append(result.Warnings, sizeWarnings(result.PartSizes)...)
	return result, nil
}

func missingMessage(s Span) string {
	if s.Len() == 1 {
		return fmt.Sprintf("part %d is missing", s.First)
	}
	return fmt.Sprintf("parts %d to %d are missing", s.First, s.Last)
}

// sizeWarnings compares sizes with what splitting their sum into len(sizes)
// parts produces and flags every part that differs.
func sizeWarnings(sizes []int64) []string {
	var warnings []string
	if len(sizes) < 2 {
		return warnings
	}

	var total int64
	for _, size := range sizes {
		total += size
	}
	specs, err := PlanParts(total, len(sizes))
	if err != nil {
		return append(warnings,
			fmt.Sprintf("%d bytes in %d parts cannot come from one split: %v", total, len(sizes), err))
	}

	for _, spec := range specs {
		if got := sizes[spec.Index]; got != spec.Size {
			warnings = append(warnings,
				fmt.Sprintf("part %d size %d, a split of %d bytes into %d parts gives %d", spec.Index, got, total, len(sizes), spec.Size))
		}
	}
	return warnings
}
