// Package storage opens the bucket a pathname lives in.
//
// Without a bucket URL the pathname is a local file: the bucket is a
// fileblob bucket rooted at the file's directory and the key is its base
// name, so parts are written next to the file. With a bucket URL the
// pathname is used as the object key unchanged.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// Location is an open bucket and the key of a file in it.
type Location struct {
	Bucket *blob.Bucket
	Key    string
}

// Close closes the bucket.
func (l *Location) Close() error {
	return l.Bucket.Close()
}

// Open returns the location of pathname. bucketURL may be empty for a
// local file or any gocloud URL (s3://, gs://, file://, mem://).
func Open(ctx context.Context, bucketURL, pathname string) (*Location, error) {
	if pathname == "" {
		return nil, fmt.Errorf("storage: empty pathname")
	}

	if bucketURL != "" {
		bkt, err := blob.OpenBucket(ctx, bucketURL)
		if err != nil {
			return nil, fmt.Errorf("storage: open bucket: %w", err)
		}
		return &Location{Bucket: bkt, Key: pathname}, nil
	}

	bkt, key, err := OpenLocal(pathname)
	if err != nil {
		return nil, err
	}
	return &Location{Bucket: bkt, Key: key}, nil
}

// OpenLocal opens a fileblob bucket on the directory of pathname and
// returns the base name as key. No metadata sidecar files are written, so
// the directory only ever holds the file and its parts.
func OpenLocal(pathname string) (*blob.Bucket, string, error) {
	abs, err := filepath.Abs(pathname)
	if err != nil {
		return nil, "", fmt.Errorf("storage: resolve %s: %w", pathname, err)
	}
	dir, key := filepath.Split(abs)
	if key == "" {
		return nil, "", fmt.Errorf("storage: %s is a directory", pathname)
	}

	bkt, err := fileblob.OpenBucket(dir, &fileblob.Options{
		NoTempDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, "", fmt.Errorf("storage: open directory %s: %w", dir, err)
	}
	return bkt, key, nil
}
