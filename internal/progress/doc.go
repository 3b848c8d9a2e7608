// Package progress prints human-readable progress for split and combine.
//
// A Reporter implements parts.Progress. It is called synchronously from the
// copy loop, so output only advances while bytes are being copied.
//
// # Output
//
// Begin prints the Header line, if one is set, once all checks have passed:
//
//	[splitfile] Splitting movie.mkv into 4 parts
//
// With ListParts, every part name is printed as it starts:
//
//	[splitfile] movie.mkv.0
//	[splitfile] movie.mkv.1
//
// With ShowRate, a progress line is printed at most once per
// UpdateInterval, followed by a summary on Stop:
//
//	[splitfile] Progress: 42.0% | 1.2 GiB / 2.9 GiB | Speed: 310 MiB/s | ETA: 5s | Part: movie.mkv.1 (1/4 done)
//	[splitfile] Split: 2.9 GiB in 4 parts | Total time: 9s | Average speed: 330 MiB/s
package progress
