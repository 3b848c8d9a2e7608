package parts

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"gocloud.dev/blob"
)

// PartSet is a contiguous run of parts key.0 through key.{Count-1}.
type PartSet struct {
	Key   string
	Count int
}

// LastPart returns the index of the last part.
func (s PartSet) LastPart() int {
	return s.Count - 1
}

// Names returns the part keys in ascending index order.
func (s PartSet) Names() []string {
	names := make([]string, s.Count)
	for i := range names {
		names[i] = PartName(s.Key, i)
	}
	return names
}

// Span is a run of consecutive part indices, First through Last inclusive.
type Span struct {
	First int
	Last  int
}

// Len returns the number of indices in the span.
func (s Span) Len() int {
	return s.Last - s.First + 1
}

func (s Span) String() string {
	if s.First == s.Last {
		return strconv.Itoa(s.First)
	}
	return fmt.Sprintf("%d-%d", s.First, s.Last)
}

// Locate finds the parts of key by probing key.0, key.1, ... until one is
// missing, then looks past the end of that run for stray parts.
//
// With GapWindow (default) the GapProbeWindow indices after the last part
// are probed; the first one found makes every index before it missing.
// With GapExhaustive every key.N is listed and all absent indices up to the
// highest one found are missing. Missing indices are reported as spans, so
// a single stray part far past the run costs one entry. Neither mode can see a gap further than
// the data it looks at: GapWindow misses parts more than GapProbeWindow
// past the end.
//
// Returns an error if:
//   - key.0 does not exist (ErrNoPartsFound)
//   - parts exist past the run (*MissingPartsError)
//   - a storage call fails (*IOError)
func Locate(ctx context.Context, bucket *blob.Bucket, key string, options ...Option) (*PartSet, error) {
	opts := buildOptions(options)

	next := 0
	for {
		ok, err := partExists(ctx, bucket, key, next)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		next++
	}

	if next == 0 {
		return nil, ErrNoPartsFound
	}

	set := &PartSet{Key: key, Count: next}

	var missing []Span
	var err error
	switch opts.GapCheck {
	case GapExhaustive:
		missing, err = scanGaps(ctx, bucket, key, set.LastPart())
	default:
		missing, err = probeGaps(ctx, bucket, key, set.LastPart())
	}
	if err != nil {
		return nil, err
	}
	if missing != nil {
		return nil, &MissingPartsError{Key: key, LastPart: set.LastPart(), Missing: missing}
	}

	return set, nil
}

// probeGaps checks the GapProbeWindow indices after last. It returns nil
// when none exist.
func probeGaps(ctx context.Context, bucket *blob.Bucket, key string, last int) ([]Span, error) {
	for offset := 1; offset <= GapProbeWindow; offset++ {
		ok, err := partExists(ctx, bucket, key, last+offset)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		missing := []Span{}
		if offset > 1 {
			missing = append(missing, Span{First: last + 1, Last: last + offset - 1})
		}
		return missing, nil
	}
	return nil, nil
}

// scanGaps lists all parts of key and returns the absent index runs between
// last and the highest index present. It returns nil when nothing lies
// past last.
func scanGaps(ctx context.Context, bucket *blob.Bucket, key string, last int) ([]Span, error) {
	var present []int

	iter := bucket.List(&blob.ListOptions{Prefix: key + "."})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ioErr("list", key+".", err)
		}
		if obj.IsDir {
			continue
		}
		idx, ok := ParseIndex(key, obj.Key)
		if !ok || idx <= last {
			continue
		}
		present = append(present, idx)
	}

	if len(present) == 0 {
		return nil, nil
	}
	sort.Ints(present)

	missing := []Span{}
	prev := last
	for _, idx := range present {
		if idx > prev+1 {
			missing = append(missing, Span{First: prev + 1, Last: idx - 1})
		}
		prev = idx
	}
	return missing, nil
}

func partExists(ctx context.Context, bucket *blob.Bucket, key string, idx int) (bool, error) {
	name := PartName(key, idx)
	ok, err := bucket.Exists(ctx, name)
	if err != nil {
		return false, ioErr("stat", name, err)
	}
	return ok, nil
}
