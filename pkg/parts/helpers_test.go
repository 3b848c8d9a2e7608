package parts

import (
	"bytes"
	"context"
	"io"
	"testing"

	"gocloud.dev/blob"

	"github.com/ligustah/splitfile/internal/testutils"
)

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// snapshot returns the size of every object in the bucket.
func snapshot(t *testing.T, bucket *blob.Bucket) map[string]int64 {
	t.Helper()
	ctx := context.Background()
	out := make(map[string]int64)
	iter := bucket.List(nil)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		out[obj.Key] = obj.Size
	}
	return out
}

// writeParts stores parts key.i for every index in indices, each size bytes.
func writeParts(t *testing.T, bucket *blob.Bucket, key string, size int, indices ...int) {
	t.Helper()
	for _, i := range indices {
		testutils.WriteObject(t, bucket, PartName(key, i), bytes.Repeat([]byte{byte('a' + i%26)}, size))
	}
}

// splitObject stores data under key and splits it into count parts.
func splitObject(t *testing.T, bucket *blob.Bucket, key string, data []byte, count int) {
	t.Helper()
	testutils.WriteObject(t, bucket, key, data)
	if _, err := Split(context.Background(), bucket, key, count); err != nil {
		t.Fatalf("Split: %v", err)
	}
	if err := bucket.Delete(context.Background(), key); err != nil {
		t.Fatalf("delete source: %v", err)
	}
}
