package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ligustah/splitfile/internal/testutils"
)

func TestOpenLocal(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFile(t, dir, "movie.mkv", []byte("frames"))

	loc, err := Open(context.Background(), "", filepath.Join(dir, "movie.mkv"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer loc.Close()

	if loc.Key != "movie.mkv" {
		t.Errorf("Key = %q, want movie.mkv", loc.Key)
	}
	if got := testutils.ReadObject(t, loc.Bucket, loc.Key); string(got) != "frames" {
		t.Errorf("content = %q", got)
	}

	testutils.WriteObject(t, loc.Bucket, "movie.mkv.0", []byte("part"))
	want := map[string]bool{"movie.mkv": true, "movie.mkv.0": true}
	entries := testutils.DirEntries(t, dir)
	if len(entries) != len(want) {
		t.Fatalf("dir = %v, want only the file and its part", entries)
	}
	for _, name := range entries {
		if !want[name] {
			t.Errorf("unexpected file %q in directory", name)
		}
	}
}

func TestOpenLocalRelative(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFile(t, dir, "a.bin", []byte("a"))

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	bucket, key, err := OpenLocal("a.bin")
	if err != nil {
		t.Fatalf("OpenLocal() error = %v", err)
	}
	defer bucket.Close()

	if key != "a.bin" {
		t.Errorf("key = %q, want a.bin", key)
	}
	if !testutils.ObjectExists(t, bucket, key) {
		t.Error("a.bin not found through bucket")
	}
}

func TestOpenBucketURL(t *testing.T) {
	loc, err := Open(context.Background(), "mem://", "dir/file.bin")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer loc.Close()

	if loc.Key != "dir/file.bin" {
		t.Errorf("Key = %q, want the pathname unchanged", loc.Key)
	}
	testutils.WriteObject(t, loc.Bucket, loc.Key, []byte("x"))
	if !testutils.ObjectExists(t, loc.Bucket, loc.Key) {
		t.Error("object not written")
	}
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name      string
		bucketURL string
		pathname  string
	}{
		{"empty pathname", "", ""},
		{"unknown scheme", "bogus://bucket", "f.bin"},
		{"filesystem root", "", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := Open(context.Background(), tt.bucketURL, tt.pathname)
			if err == nil {
				loc.Close()
				t.Fatal("Open() should fail")
			}
		})
	}
}
