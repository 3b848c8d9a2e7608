// Package parts splits a file into numbered parts and combines them back.
//
// All operations work on a gocloud.dev/blob bucket, so the same code serves
// a local directory (fileblob), memory (memblob) or object storage. A file
// is identified by its key; its parts live next to it.
//
// # Splitting
//
// Use [Split] to cut a file into a fixed number of parts. The part size is
// computed by [Plan]:
//
//	partSize = ceil(fileSize / count)
//
// count must be greater than 1 and partSize at least [MinPartSize] bytes.
// Split refuses to run when part 0 already exists, so existing parts are
// never overwritten.
//
// # Combining
//
// Use [Combine] to rebuild the file. The destination must not exist. Parts
// are discovered by probing, see [Locate]; there is no manifest. After a
// byte-exact combine the parts are removed with [Cleanup] unless
// [WithNoCleanup] is given.
//
// # Storage Layout
//
//	{bucket}/{key}      (source, or destination of a combine)
//	{bucket}/{key}.0
//	{bucket}/{key}.1
//	...
//	{bucket}/{key}.{count-1}
//
// Indices are decimal and unpadded: compare them numerically, never as
// text ("file.10" sorts before "file.2").
//
// # Errors
//
// Validation failures ([ErrInvalidCount], [ErrSourceNotFound],
// [ErrPartTooSmall], [ErrAlreadySplit], [ErrDestinationExists],
// [ErrNoPartsFound], [ErrMissingParts]) are detected before anything is written. Byte count
// mismatches are reported as [*IntegrityError] once all I/O for the step is
// done; nothing already written is rolled back. Failed storage calls are
// returned as [*IOError]. [Classify] maps any of them to a [Category].
package parts
