package parts

import (
	"context"
	"io"

	"gocloud.dev/blob"
)

// SplitResult describes a completed split.
type SplitResult struct {
	Key      string
	Count    int
	FileSize int64
	PartSize int64
	Totals   Totals
}

// Split cuts key into count parts named key.0 through key.{count-1}.
//
// Checks happen in this order, before anything is written: count > 1,
// source present, part size at least MinPartSize, key.0 absent.
// The source is opened once and never modified; each part is written and
// closed before the next begins.
//
// Returns an error if:
//   - count <= 1 (ErrInvalidCount)
//   - key does not exist (ErrSourceNotFound)
//   - the planned part size is too small (ErrPartTooSmall)
//   - key.0 already exists (ErrAlreadySplit)
//   - a storage call fails (*IOError)
//   - bytes read or written differ from the source size (*IntegrityError);
//     parts already written are left in place
func Split(ctx context.Context, bucket *blob.Bucket, key string, count int, options ...Option) (*SplitResult, error) {
	opts := buildOptions(options)

	if count <= 1 {
		return nil, ErrInvalidCount
	}

	attrs, err := bucket.Attributes(ctx, key)
	if isNotExist(err) {
		return nil, ErrSourceNotFound
	}
	if err != nil {
		return nil, ioErr("stat", key, err)
	}
	fileSize := attrs.Size

	partSize, err := Plan(fileSize, count)
	if err != nil {
		return nil, err
	}

	first := PartName(key, 0)
	exists, err := bucket.Exists(ctx, first)
	if err != nil {
		return nil, ioErr("stat", first, err)
	}
	if exists {
		return nil, ErrAlreadySplit
	}

	src, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, ioErr("open", key, err)
	}
	defer src.Close()

	create := func(name string) (io.WriteCloser, error) {
		return bucket.NewWriter(ctx, name, nil)
	}

	result := &SplitResult{
		Key:      key,
		Count:    count,
		FileSize: fileSize,
		PartSize: partSize,
	}

	opts.Progress.Begin(count, fileSize)
	buf := make([]byte, MaxBufferSize)
	result.Totals, err = splitStream(src, key, count, partSize, create, buf, opts.Progress)
	if err != nil {
		return result, err
	}

	return result, verifySplit(result.Totals, fileSize)
}

// verifySplit checks the totals of a split against the source size.
func verifySplit(t Totals, fileSize int64) error {
	if t.Read != fileSize {
		return &IntegrityError{Op: "read", Expected: fileSize, Actual: t.Read}
	}
	if t.Written != fileSize {
		return &IntegrityError{Op: "write", Expected: fileSize, Actual: t.Written}
	}
	return nil
}
