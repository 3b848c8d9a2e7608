package progress

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// Operation is the verb shown in the summary, e.g. "Split".
	Operation string

	// Header, if set, is printed by Begin. It receives the part count.
	Header func(parts int) string

	// ListParts prints the name of every part as it starts.
	ListParts bool

	// ShowRate prints throttled byte counts, speed and a final summary.
	ShowRate bool

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is the minimum time between two rate lines.
	// Default: 500ms
	UpdateInterval time.Duration
}

// Reporter prints human-readable progress for a split or combine. It is
// driven by the copy loop on the caller's goroutine and never starts its
// own.
type Reporter struct {
	opts Options
	now  func() time.Time

	totalSize      int64
	totalParts     int
	completedBytes int64
	completedParts int
	current        string
	startTime      time.Time
	lastUpdate     time.Time
	lastBytes      int64
	stopped        bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}
	if opts.Operation == "" {
		opts.Operation = "Copy"
	}

	return &Reporter{
		opts: opts,
		now:  time.Now,
	}
}

// Begin implements parts.Progress. It records the start time and prints
// the header lines.
func (r *Reporter) Begin(parts int, size int64) {
	r.totalParts = parts
	r.totalSize = size
	r.startTime = r.now()
	r.lastUpdate = r.startTime

	if r.opts.Header != nil {
		fmt.Fprintf(r.opts.Output, "[splitfile] %s\n", r.opts.Header(parts))
	}
	if r.opts.ShowRate && size >= 0 {
		fmt.Fprintf(r.opts.Output, "[splitfile] Total size: %s | Parts: %d\n", FormatBytes(size), parts)
	}
}

// Stop prints the final summary when rates are shown. It does nothing if
// Begin was never called. Safe to call twice.
func (r *Reporter) Stop() {
	if r.stopped || r.startTime.IsZero() {
		return
	}
	r.stopped = true

	if r.opts.ShowRate {
		r.printFinalStatus()
	}
}

// PartStarted implements parts.Progress.
func (r *Reporter) PartStarted(index int, name string) {
	r.current = name
	if r.opts.ListParts {
		fmt.Fprintf(r.opts.Output, "[splitfile] %s\n", name)
	}
}

// BytesCopied implements parts.Progress.
func (r *Reporter) BytesCopied(n int64) {
	r.completedBytes += n
	if !r.opts.ShowRate {
		return
	}
	if r.now().Sub(r.lastUpdate) >= r.opts.UpdateInterval {
		r.printProgress()
	}
}

// PartCompleted implements parts.Progress.
func (r *Reporter) PartCompleted(index int, size int64) {
	r.completedParts++
}

// CompletedBytes returns the number of bytes copied so far.
func (r *Reporter) CompletedBytes() int64 {
	return r.completedBytes
}

// CompletedParts returns the number of parts finished so far.
func (r *Reporter) CompletedParts() int {
	return r.completedParts
}

// printProgress outputs the current progress.
func (r *Reporter) printProgress() {
	now := r.now()
	elapsed := now.Sub(r.lastUpdate).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	speed := float64(r.completedBytes-r.lastBytes) / elapsed

	r.lastUpdate = now
	r.lastBytes = r.completedBytes

	if r.totalSize > 0 {
		percent := float64(r.completedBytes) / float64(r.totalSize) * 100
		eta := "unknown"
		if speed > 0 {
			remaining := float64(r.totalSize - r.completedBytes)
			eta = formatDuration(time.Duration(remaining / speed * float64(time.Second)))
		}
		fmt.Fprintf(r.opts.Output, "[splitfile] Progress: %.1f%% | %s / %s | Speed: %s/s | ETA: %s | Part: %s (%d/%d done)\n",
			percent,
			FormatBytes(r.completedBytes),
			FormatBytes(r.totalSize),
			FormatBytes(int64(speed)),
			eta,
			r.current,
			r.completedParts,
			r.totalParts,
		)
		return
	}

	fmt.Fprintf(r.opts.Output, "[splitfile] Progress: %s | Speed: %s/s | Part: %s (%d/%d done)\n",
		FormatBytes(r.completedBytes),
		FormatBytes(int64(speed)),
		r.current,
		r.completedParts,
		r.totalParts,
	)
}

// printFinalStatus outputs the final status.
func (r *Reporter) printFinalStatus() {
	duration := r.now().Sub(r.startTime)
	seconds := duration.Seconds()
	if seconds <= 0 {
		seconds = 1e-3
	}
	avgSpeed := float64(r.completedBytes) / seconds

	fmt.Fprintf(r.opts.Output, "[splitfile] %s: %s in %d parts | Total time: %s | Average speed: %s/s\n",
		r.opts.Operation,
		FormatBytes(r.completedBytes),
		r.completedParts,
		formatDuration(duration),
		FormatBytes(int64(avgSpeed)),
	)
}

// FormatBytes formats bytes with binary units: "998 B", "2.4 KiB", "256 MiB".
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}

	units := []string{"KiB", "MiB", "GiB", "TiB", "PiB"}
	v := float64(b) / unit
	i := 0
	for v >= unit && i < len(units)-1 {
		v /= unit
		i++
	}
	if v >= 100 {
		return fmt.Sprintf("%.0f %s", v, units[i])
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
