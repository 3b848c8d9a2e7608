package parts

import (
	"errors"
	"fmt"
	"strings"

	"gocloud.dev/gcerrors"
)

// Validation errors. They are returned before any part or destination is
// written.
var (
	// ErrInvalidCount is returned when the requested part count is not
	// greater than 1.
	ErrInvalidCount = errors.New("parts: count must be greater than 1")

	// ErrSourceNotFound is returned by Split when the file does not exist.
	ErrSourceNotFound = errors.New("parts: file not found")

	// ErrPartTooSmall is returned when the planned part size is below
	// MinPartSize.
	ErrPartTooSmall = errors.New("parts: part size too small")

	// ErrAlreadySplit is returned by Split when part 0 already exists.
	ErrAlreadySplit = errors.New("parts: file has already been split")

	// ErrDestinationExists is returned by Combine when the output already exists.
	ErrDestinationExists = errors.New("parts: output file already exists")

	// ErrNoPartsFound is returned when part 0 does not exist.
	ErrNoPartsFound = errors.New("parts: no parts found")

	// ErrMissingParts is matched by *MissingPartsError.
	ErrMissingParts = errors.New("parts: parts are missing")
)

// Integrity errors, matched by *IntegrityError.
var (
	ErrReadMismatch  = errors.New("parts: bytes read mismatch")
	ErrWriteMismatch = errors.New("parts: bytes written mismatch")
)

// PlanError reports a part size below MinPartSize.
type PlanError struct {
	PartSize int64
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("parts: count is too high, part size is only %d", e.PartSize)
}

func (e *PlanError) Is(target error) bool {
	return target == ErrPartTooSmall
}

// MissingPartsError is returned by Locate when parts exist beyond the end of
// the contiguous run starting at 0.
//
// Use errors.As to extract it and inspect Missing.
type MissingPartsError struct {
	Key      string
	LastPart int    // last index of the contiguous run
	Missing  []Span // absent index runs after LastPart, ascending
}

func (e *MissingPartsError) Error() string {
	spans := make([]string, len(e.Missing))
	for i, s := range e.Missing {
		spans[i] = s.String()
	}
	return fmt.Sprintf("parts: %s: missing parts %s", e.Key, strings.Join(spans, ", "))
}

// Count returns the number of missing indices.
func (e *MissingPartsError) Count() int {
	n := 0
	for _, s := range e.Missing {
		n += s.Len()
	}
	return n
}

func (e *MissingPartsError) Is(target error) bool {
	return target == ErrMissingParts
}

// IntegrityError reports a byte count mismatch found after a split or
// combine finished its I/O.
type IntegrityError struct {
	Op       string // "read", "write" or "combine"
	Expected int64
	Actual   int64
}

func (e *IntegrityError) Error() string {
	switch e.Op {
	case "read":
		return fmt.Sprintf("parts: error reading file - bytes read: %d, file size: %d", e.Actual, e.Expected)
	case "write":
		return fmt.Sprintf("parts: error writing file - bytes written: %d, file size: %d", e.Actual, e.Expected)
	default:
		return fmt.Sprintf("parts: bytes read: %d, bytes written: %d", e.Expected, e.Actual)
	}
}

func (e *IntegrityError) Is(target error) bool {
	switch target {
	case ErrReadMismatch:
		return e.Op == "read"
	case ErrWriteMismatch:
		return e.Op == "write" || e.Op == "combine"
	}
	return false
}

// IOError wraps a failed storage call.
type IOError struct {
	Op  string
	Key string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("parts: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func ioErr(op, key string, err error) error {
	return &IOError{Op: op, Key: key, Err: err}
}

// Category groups errors by how the caller should report them.
type Category int

const (
	CategoryNone Category = iota
	CategoryValidation
	CategoryIntegrity
	CategoryIO
	CategoryUnknown
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryValidation:
		return "validation"
	case CategoryIntegrity:
		return "integrity"
	case CategoryIO:
		return "io"
	default:
		return "unknown"
	}
}

// Classify returns the category of err. A nil error is CategoryNone.
func Classify(err error) Category {
	if err == nil {
		return CategoryNone
	}

	var ie *IntegrityError
	if errors.As(err, &ie) {
		return CategoryIntegrity
	}
	var ioe *IOError
	if errors.As(err, &ioe) {
		return CategoryIO
	}

	for _, target := range []error{
		ErrInvalidCount,
		ErrSourceNotFound,
		ErrPartTooSmall,
		ErrAlreadySplit,
		ErrDestinationExists,
		ErrNoPartsFound,
		ErrMissingParts,
	} {
		if errors.Is(err, target) {
			return CategoryValidation
		}
	}
	return CategoryUnknown
}

// isNotExist reports whether err says the object doesn't exist. A nil
// error is not a not-found error.
func isNotExist(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}
