package parts

import (
	"context"
	"io"

	"gocloud.dev/blob"
)

// CombineResult describes a combine that got as far as writing the output.
type CombineResult struct {
	Key       string
	Parts     PartSet
	Totals    Totals
	CleanedUp bool
}

// Combine rebuilds key from its parts and, unless WithNoCleanup is set,
// deletes the parts afterwards.
//
// The destination must not exist and Locate must succeed before anything
// is written. Parts are streamed in ascending index order, each opened and
// closed before the next. The destination is committed before the byte
// counts are compared, so on a mismatch it stays for inspection and the
// parts are kept.
//
// Returns an error if:
//   - key already exists (ErrDestinationExists)
//   - Locate fails (ErrNoPartsFound, *MissingPartsError)
//   - a storage call fails (*IOError)
//   - bytes written differ from bytes read (*IntegrityError)
//   - deleting a part fails (*IOError, result.CleanedUp is false)
func Combine(ctx context.Context, bucket *blob.Bucket, key string, options ...Option) (*CombineResult, error) {
	opts := buildOptions(options)

	exists, err := bucket.Exists(ctx, key)
	if err != nil {
		return nil, ioErr("stat", key, err)
	}
	if exists {
		return nil, ErrDestinationExists
	}

	set, err := Locate(ctx, bucket, key, options...)
	if err != nil {
		return nil, err
	}

	opts.Progress.Begin(set.Count, -1)

	dst, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return nil, ioErr("create", key, err)
	}

	open := func(name string) (io.ReadCloser, error) {
		return bucket.NewReader(ctx, name, nil)
	}

	result := &CombineResult{Key: key, Parts: *set}

	buf := make([]byte, MaxBufferSize)
	result.Totals, err = combineStream(dst, key, set.Count, open, buf, opts.Progress)
	if err != nil {
		dst.Close()
		return result, err
	}
	if err := dst.Close(); err != nil {
		return result, ioErr("close", key, err)
	}

	if result.Totals.Written != result.Totals.Read {
		return result, &IntegrityError{
			Op:       "combine",
			Expected: result.Totals.Read,
			Actual:   result.Totals.Written,
		}
	}

	if opts.NoCleanup {
		return result, nil
	}
	if err := Cleanup(ctx, bucket, *set); err != nil {
		return result, err
	}
	result.CleanedUp = true
	return result, nil
}

// Cleanup deletes parts 0 through set.LastPart(). The first failed deletion
// stops the cleanup and is returned as an *IOError.
func Cleanup(ctx context.Context, bucket *blob.Bucket, set PartSet) error {
	for _, name := range set.Names() {
		if err := bucket.Delete(ctx, name); err != nil {
			return ioErr("delete", name, err)
		}
	}
	return nil
}
