package parts

import "fmt"

// GapCheck selects how Locate looks for parts past the contiguous run.
type GapCheck string

const (
	// GapWindow probes the GapProbeWindow indices after the last part.
	GapWindow GapCheck = "window"
	// GapExhaustive lists every part of the key.
	GapExhaustive GapCheck = "exhaustive"
)

// ParseGapCheck parses "window" or "exhaustive". An empty string is GapWindow.
func ParseGapCheck(s string) (GapCheck, error) {
	switch GapCheck(s) {
	case "", GapWindow:
		return GapWindow, nil
	case GapExhaustive:
		return GapExhaustive, nil
	}
	return "", fmt.Errorf("parts: invalid gap check %q (want %q or %q)", s, GapWindow, GapExhaustive)
}

// Progress receives notifications from split and combine. Calls are made
// on the caller's goroutine. Begin is called once, after all checks passed
// and before the first part is touched; size is -1 when unknown.
type Progress interface {
	Begin(parts int, size int64)
	PartStarted(index int, name string)
	BytesCopied(n int64)
	PartCompleted(index int, size int64)
}

// Options configures split and combine operations.
type Options struct {
	NoCleanup bool
	GapCheck  GapCheck
	Progress  Progress
}

// Option is a functional option for configuring operations.
type Option func(*Options)

// WithNoCleanup keeps the parts after a successful combine.
func WithNoCleanup(keep bool) Option {
	return func(o *Options) {
		o.NoCleanup = keep
	}
}

// WithGapCheck sets how Locate detects gaps. Default is GapWindow.
func WithGapCheck(mode GapCheck) Option {
	return func(o *Options) {
		o.GapCheck = mode
	}
}

// WithProgress sets a progress receiver.
func WithProgress(p Progress) Option {
	return func(o *Options) {
		o.Progress = p
	}
}

func buildOptions(options []Option) Options {
	opts := Options{GapCheck: GapWindow}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Progress == nil {
		opts.Progress = nopProgress{}
	}
	return opts
}

type nopProgress struct{}

func (nopProgress) Begin(int, int64)         {}
func (nopProgress) PartStarted(int, string)  {}
func (nopProgress) BytesCopied(int64)        {}
func (nopProgress) PartCompleted(int, int64) {}
