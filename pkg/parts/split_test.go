package parts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ligustah/splitfile/internal/testutils"
)

func TestSplitScenarios(t *testing.T) {
	tests := []struct {
		name      string
		size      int64
		count     int
		partSize  int64
		wantSizes []int
	}{
		{"even", 10000, 4, 2500, []int{2500, 2500, 2500, 2500}},
		{"remainder", 10001, 4, 2501, []int{2501, 2501, 2501, 2498}},
		{"two parts", 3 * 1024 * 1024, 2, 3 * 512 * 1024, []int{3 * 512 * 1024, 3 * 512 * 1024}},
		{"larger than buffer", 5*MaxBufferSize + 7, 3, (5*MaxBufferSize + 7 + 2) / 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			bucket := testutils.MemBucket(t)
			data := testutils.GenerateTestData(t, tt.size)
			testutils.WriteObject(t, bucket, "test/file.bin", data)

			result, err := Split(ctx, bucket, "test/file.bin", tt.count)
			if err != nil {
				t.Fatalf("Split: %v", err)
			}
			if result.PartSize != tt.partSize {
				t.Errorf("part size = %d, want %d", result.PartSize, tt.partSize)
			}
			if result.Totals.Read != tt.size || result.Totals.Written != tt.size {
				t.Errorf("totals = %+v, want %d", result.Totals, tt.size)
			}

			var sum int
			var joined []byte
			for i := 0; i < tt.count; i++ {
				part := testutils.ReadObject(t, bucket, PartName("test/file.bin", i))
				if tt.wantSizes != nil && len(part) != tt.wantSizes[i] {
					t.Errorf("part %d has %d bytes, want %d", i, len(part), tt.wantSizes[i])
				}
				sum += len(part)
				joined = append(joined, part...)
			}
			if int64(sum) != tt.size {
				t.Errorf("parts sum to %d bytes, want %d", sum, tt.size)
			}
			testutils.CompareReaderToData(t, bytesReader(joined), data)

			if testutils.ObjectExists(t, bucket, PartName("test/file.bin", tt.count)) {
				t.Errorf("unexpected part %d", tt.count)
			}
			// Source untouched.
			testutils.CompareReaderToData(t, bytesReader(testutils.ReadObject(t, bucket, "test/file.bin")), data)
		})
	}
}

func TestSplitAlreadySplit(t *testing.T) {
	ctx := context.Background()
	bucket := testutils.MemBucket(t)
	data := testutils.GenerateTestData(t, 10000)
	testutils.WriteObject(t, bucket, "file.bin", data)

	if _, err := Split(ctx, bucket, "file.bin", 4); err != nil {
		t.Fatalf("first Split: %v", err)
	}
	before := snapshot(t, bucket)

	_, err := Split(ctx, bucket, "file.bin", 2)
	if !errors.Is(err, ErrAlreadySplit) {
		t.Fatalf("second Split error = %v, want ErrAlreadySplit", err)
	}
	if Classify(err) != CategoryValidation {
		t.Errorf("Classify = %v, want validation", Classify(err))
	}

	after := snapshot(t, bucket)
	if len(before) != len(after) {
		t.Fatalf("object count changed: %d -> %d", len(before), len(after))
	}
	for key, size := range before {
		if after[key] != size {
			t.Errorf("%s changed size: %d -> %d", key, size, after[key])
		}
	}
}

func TestSplitRefusals(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		count   int
		wantErr error
	}{
		{"count one", 10000, 1, ErrInvalidCount},
		{"count zero", 10000, 0, ErrInvalidCount},
		{"part too small", 10000, 10, ErrPartTooSmall},
		{"tiny file", 10, 2, ErrPartTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			bucket := testutils.MemBucket(t)
			testutils.WriteObject(t, bucket, "file.bin", testutils.GenerateTestData(t, tt.size))

			_, err := Split(ctx, bucket, "file.bin", tt.count)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Split error = %v, want %v", err, tt.wantErr)
			}
			if n := testutils.CountObjects(t, bucket, ""); n != 1 {
				t.Errorf("bucket holds %d objects, want only the source", n)
			}
		})
	}
}

func TestSplitMissingSource(t *testing.T) {
	ctx := context.Background()
	bucket := testutils.MemBucket(t)

	_, err := Split(ctx, bucket, "nope.bin", 4)
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("Split error = %v, want ErrSourceNotFound", err)
	}
	if Classify(err) != CategoryValidation {
		t.Errorf("Classify = %v, want validation", Classify(err))
	}
	if n := testutils.CountObjects(t, bucket, ""); n != 0 {
		t.Errorf("bucket holds %d objects, want none", n)
	}
}

func TestSplitLocalDirectory(t *testing.T) {
	ctx := context.Background()
	bucket, dir := testutils.DirBucket(t)
	data := testutils.GenerateTestData(t, 10001)
	testutils.WriteFile(t, dir, "movie.mkv", data)

	if _, err := Split(ctx, bucket, "movie.mkv", 4); err != nil {
		t.Fatalf("Split: %v", err)
	}

	names := testutils.DirEntries(t, dir)
	sort.Strings(names)
	want := []string{"movie.mkv", "movie.mkv.0", "movie.mkv.1", "movie.mkv.2", "movie.mkv.3"}
	if len(names) != len(want) {
		t.Fatalf("directory holds %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("entry %d = %s, want %s", i, names[i], want[i])
		}
	}

	info, err := os.Stat(filepath.Join(dir, "movie.mkv.3"))
	if err != nil {
		t.Fatalf("stat last part: %v", err)
	}
	if info.Size() != 2498 {
		t.Errorf("last part has %d bytes, want 2498", info.Size())
	}
}

type countingProgress struct {
	begun     int
	size      int64
	started   []string
	completed []int64
	bytes     int64
}

func (p *countingProgress) Begin(parts int, size int64)        { p.begun, p.size = parts, size }
func (p *countingProgress) PartStarted(index int, name string) { p.started = append(p.started, name) }
func (p *countingProgress) BytesCopied(n int64)                { p.bytes += n }
func (p *countingProgress) PartCompleted(index int, size int64) {
	p.completed = append(p.completed, size)
}

func TestSplitProgress(t *testing.T) {
	ctx := context.Background()
	bucket := testutils.MemBucket(t)
	testutils.WriteObject(t, bucket, "f", testutils.GenerateTestData(t, 10001))

	p := &countingProgress{}
	if _, err := Split(ctx, bucket, "f", 4, WithProgress(p)); err != nil {
		t.Fatalf("Split: %v", err)
	}

	if p.begun != 4 || p.size != 10001 {
		t.Errorf("Begin(%d, %d), want Begin(4, 10001)", p.begun, p.size)
	}
	if len(p.started) != 4 || p.started[0] != "f.0" || p.started[3] != "f.3" {
		t.Errorf("started = %v", p.started)
	}
	if p.bytes != 10001 {
		t.Errorf("bytes = %d, want 10001", p.bytes)
	}
	if len(p.completed) != 4 || p.completed[3] != 2498 {
		t.Errorf("completed = %v", p.completed)
	}
}
