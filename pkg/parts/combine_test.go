package parts

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ligustah/splitfile/internal/testutils"
)

func TestRoundTrip(t *testing.T) {
	sizes := []int64{2048, 10000, 10001, 3*MaxBufferSize + 1}
	counts := []int{2, 3, 4, 7}

	for _, size := range sizes {
		for _, count := range counts {
			if _, err := Plan(size, count); err != nil {
				continue
			}
			ctx := context.Background()
			bucket := testutils.MemBucket(t)
			data := testutils.GenerateTestData(t, size)
			splitObject(t, bucket, "file.bin", data, count)

			result, err := Combine(ctx, bucket, "file.bin")
			if err != nil {
				t.Fatalf("Combine(size=%d, count=%d): %v", size, count, err)
			}
			if result.Totals.Read != size || result.Totals.Written != size {
				t.Errorf("size=%d count=%d: totals = %+v", size, count, result.Totals)
			}
			if result.Parts.Count != count {
				t.Errorf("size=%d count=%d: combined %d parts", size, count, result.Parts.Count)
			}
			if !bytes.Equal(testutils.ReadObject(t, bucket, "file.bin"), data) {
				t.Errorf("size=%d count=%d: combined data differs", size, count)
			}
		}
	}
}

func TestCombineCleanup(t *testing.T) {
	ctx := context.Background()
	bucket := testutils.MemBucket(t)
	data := testutils.GenerateTestData(t, 10000)
	splitObject(t, bucket, "file.bin", data, 4)

	result, err := Combine(ctx, bucket, "file.bin")
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if !result.CleanedUp {
		t.Error("expected CleanedUp")
	}
	for i := 0; i < 4; i++ {
		if testutils.ObjectExists(t, bucket, PartName("file.bin", i)) {
			t.Errorf("part %d still exists", i)
		}
	}
	if n := testutils.CountObjects(t, bucket, ""); n != 1 {
		t.Errorf("bucket holds %d objects, want 1", n)
	}
}

func TestCombineNoCleanup(t *testing.T) {
	ctx := context.Background()
	bucket := testutils.MemBucket(t)
	data := testutils.GenerateTestData(t, 10001)
	splitObject(t, bucket, "file.bin", data, 4)
	before := snapshot(t, bucket)

	result, err := Combine(ctx, bucket, "file.bin", WithNoCleanup(true))
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if result.CleanedUp {
		t.Error("expected parts to be kept")
	}

	after := snapshot(t, bucket)
	for key, size := range before {
		if after[key] != size {
			t.Errorf("%s changed: %d -> %d", key, size, after[key])
		}
	}
	if !bytes.Equal(testutils.ReadObject(t, bucket, "file.bin"), data) {
		t.Error("combined data differs")
	}
}

func TestCombineDestinationExists(t *testing.T) {
	ctx := context.Background()
	bucket := testutils.MemBucket(t)
	data := testutils.GenerateTestData(t, 10000)
	testutils.WriteObject(t, bucket, "file.bin", data)
	if _, err := Split(ctx, bucket, "file.bin", 4); err != nil {
		t.Fatalf("Split: %v", err)
	}
	before := snapshot(t, bucket)

	_, err := Combine(ctx, bucket, "file.bin")
	if !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("Combine error = %v, want ErrDestinationExists", err)
	}

	after := snapshot(t, bucket)
	if len(after) != len(before) {
		t.Fatalf("object count changed: %d -> %d", len(before), len(after))
	}
	for key, size := range before {
		if after[key] != size {
			t.Errorf("%s changed: %d -> %d", key, size, after[key])
		}
	}
}

func TestCombineMissingParts(t *testing.T) {
	ctx := context.Background()
	bucket := testutils.MemBucket(t)
	writeParts(t, bucket, "file.bin", 2000, 0, 1, 2, 3, 8)

	_, err := Combine(ctx, bucket, "file.bin")
	var mpe *MissingPartsError
	if !errors.As(err, &mpe) {
		t.Fatalf("Combine error = %v, want *MissingPartsError", err)
	}
	if !slices.Equal(mpe.Missing, []Span{{4, 7}}) {
		t.Errorf("missing = %v, want [4-7]", mpe.Missing)
	}
	if testutils.ObjectExists(t, bucket, "file.bin") {
		t.Error("destination created despite missing parts")
	}
	if n := testutils.CountObjects(t, bucket, ""); n != 5 {
		t.Errorf("bucket holds %d objects, want the 5 parts", n)
	}
}

func TestCombineNoParts(t *testing.T) {
	ctx := context.Background()
	bucket := testutils.MemBucket(t)

	_, err := Combine(ctx, bucket, "file.bin")
	if !errors.Is(err, ErrNoPartsFound) {
		t.Fatalf("Combine error = %v, want ErrNoPartsFound", err)
	}
	if testutils.ObjectExists(t, bucket, "file.bin") {
		t.Error("destination created without parts")
	}
}

func TestCombineLocalDirectory(t *testing.T) {
	ctx := context.Background()
	bucket, dir := testutils.DirBucket(t)
	data := testutils.GenerateTestData(t, 2*MaxBufferSize+3)
	path := testutils.WriteFile(t, dir, "archive.tar", data)

	if _, err := Split(ctx, bucket, "archive.tar", 5); err != nil {
		t.Fatalf("Split: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove source: %v", err)
	}

	if _, err := Combine(ctx, bucket, "archive.tar"); err != nil {
		t.Fatalf("Combine: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "archive.tar"))
	if err != nil {
		t.Fatalf("read combined file: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("combined file differs from source")
	}
	if names := testutils.DirEntries(t, dir); len(names) != 1 {
		t.Errorf("directory holds %v, want only archive.tar", names)
	}
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	bucket := testutils.MemBucket(t)
	writeParts(t, bucket, "f", 10, 0, 1, 2)
	testutils.WriteObject(t, bucket, "f", []byte("combined"))

	if err := Cleanup(ctx, bucket, PartSet{Key: "f", Count: 3}); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if n := testutils.CountObjects(t, bucket, ""); n != 1 {
		t.Errorf("bucket holds %d objects, want 1", n)
	}
}

func TestCleanupStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	bucket := testutils.MemBucket(t)
	// f.1 does not exist, so deleting it fails.
	writeParts(t, bucket, "f", 10, 0, 2)

	err := Cleanup(ctx, bucket, PartSet{Key: "f", Count: 3})
	var ioe *IOError
	if !errors.As(err, &ioe) || ioe.Op != "delete" || ioe.Key != "f.1" {
		t.Fatalf("Cleanup error = %v, want delete IOError for f.1", err)
	}
	if testutils.ObjectExists(t, bucket, "f.0") {
		t.Error("f.0 should have been deleted before the failure")
	}
	if !testutils.ObjectExists(t, bucket, "f.2") {
		t.Error("f.2 should survive a failed cleanup")
	}
}

func TestCombineProgress(t *testing.T) {
	ctx := context.Background()
	bucket := testutils.MemBucket(t)
	splitObject(t, bucket, "f", testutils.GenerateTestData(t, 10001), 4)

	p := &countingProgress{}
	if _, err := Combine(ctx, bucket, "f", WithProgress(p)); err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if p.begun != 4 || p.size != -1 {
		t.Errorf("Begin(%d, %d), want Begin(4, -1)", p.begun, p.size)
	}
	if len(p.started) != 4 || p.started[3] != "f.3" {
		t.Errorf("started = %v", p.started)
	}
	if p.bytes != 10001 {
		t.Errorf("bytes = %d, want 10001", p.bytes)
	}
}

func TestCombineProgressNotStartedOnRefusal(t *testing.T) {
	ctx := context.Background()
	bucket := testutils.MemBucket(t)
	writeParts(t, bucket, "f", 2000, 0, 2)

	p := &countingProgress{}
	if _, err := Combine(ctx, bucket, "f", WithProgress(p)); !errors.Is(err, ErrMissingParts) {
		t.Fatalf("Combine error = %v, want ErrMissingParts", err)
	}
	if p.begun != 0 || len(p.started) != 0 {
		t.Errorf("progress started on refused combine: %+v", p)
	}
}
