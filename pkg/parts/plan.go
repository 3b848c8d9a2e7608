package parts

import (
	"strconv"
	"strings"
)

const (
	// MinPartSize is the smallest part size Plan accepts.
	MinPartSize = 1024

	// MaxBufferSize bounds every read during split and combine.
	MaxBufferSize = 1024 * 1024

	// GapProbeWindow is how many indices past the last part GapWindow probes.
	GapProbeWindow = 9
)

// PartSpec describes one planned part.
type PartSpec struct {
	Index int
	Size  int64 // expected size; the last part gets the remainder
}

// Plan returns the part size for splitting fileSize bytes into count parts:
// ceil(fileSize / count). It fails with ErrInvalidCount when count <= 1 and
// with ErrPartTooSmall when the part size is below MinPartSize.
func Plan(fileSize int64, count int) (int64, error) {
	if count <= 1 {
		return 0, ErrInvalidCount
	}
	n := int64(count)
	partSize := (fileSize + n - 1) / n
	if partSize < MinPartSize {
		return 0, &PlanError{PartSize: partSize}
	}
	return partSize, nil
}

// PlanParts returns the PartSpec of every part of a split.
func PlanParts(fileSize int64, count int) ([]PartSpec, error) {
	partSize, err := Plan(fileSize, count)
	if err != nil {
		return nil, err
	}

	specs := make([]PartSpec, count)
	remaining := fileSize
	for i := range specs {
		size := partSize
		if remaining < size {
			size = remaining
		}
		specs[i] = PartSpec{Index: i, Size: size}
		remaining -= size
	}
	return specs, nil
}

// PartName returns the key of part index of key.
func PartName(key string, index int) string {
	return key + "." + strconv.Itoa(index)
}

// ParseIndex returns the index encoded in name if name is a part of key.
// Only canonical decimal suffixes count: "key.07" and "key.+1" are not parts.
func ParseIndex(key, name string) (int, bool) {
	suffix, ok := strings.CutPrefix(name, key+".")
	if !ok || suffix == "" {
		return 0, false
	}
	if len(suffix) > 1 && suffix[0] == '0' {
		return 0, false
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return idx, true
}
