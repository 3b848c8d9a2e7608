package parts

import (
	"errors"
	"io"
)

// Totals accumulates bytes read and written across the steps of an
// operation. Each step returns its own Totals; drivers add them up.
type Totals struct {
	Read    int64
	Written int64
}

// Add returns the sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{Read: t.Read + o.Read, Written: t.Written + o.Written}
}

// copyPart copies at most owed bytes from src to dst in chunks no larger
// than buf. A read of zero bytes ends the part early. Write errors are
// returned as is; short writes only show up in the totals.
func copyPart(dst io.Writer, src io.Reader, owed int64, buf []byte, p Progress) (Totals, error) {
	var t Totals
	for owed > 0 {
		chunk := buf
		if int64(len(chunk)) > owed {
			chunk = chunk[:owed]
		}

		n, readErr := src.Read(chunk)
		if n > 0 {
			owed -= int64(n)
			t.Read += int64(n)

			nw, writeErr := dst.Write(chunk[:n])
			t.Written += int64(nw)
			p.BytesCopied(int64(nw))
			if writeErr != nil {
				return t, &stepError{op: "write", err: writeErr}
			}
		}
		if readErr == io.EOF || (n == 0 && readErr == nil) {
			break
		}
		if readErr != nil {
			return t, &stepError{op: "read", err: readErr}
		}
	}
	return t, nil
}

// copyAll copies src to dst until EOF.
func copyAll(dst io.Writer, src io.Reader, buf []byte, p Progress) (Totals, error) {
	var t Totals
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			t.Read += int64(n)

			nw, writeErr := dst.Write(buf[:n])
			t.Written += int64(nw)
			p.BytesCopied(int64(nw))
			if writeErr != nil {
				return t, &stepError{op: "write", err: writeErr}
			}
		}
		if readErr == io.EOF {
			return t, nil
		}
		if readErr != nil {
			return t, &stepError{op: "read", err: readErr}
		}
	}
}

// splitStream writes count parts of partSize bytes from src, creating each
// part with create and closing it before the next one starts.
func splitStream(src io.Reader, key string, count int, partSize int64, create func(name string) (io.WriteCloser, error), buf []byte, p Progress) (Totals, error) {
	var total Totals
	for i := 0; i < count; i++ {
		name := PartName(key, i)
		p.PartStarted(i, name)

		w, err := create(name)
		if err != nil {
			return total, ioErr("create", name, err)
		}

		// Every part is owed partSize; the end of src cuts the last short.
		t, err := copyPart(w, src, partSize, buf, p)
		total = total.Add(t)
		if err != nil {
			w.Close()
			return total, stepIOErr(err, key, name)
		}
		if err := w.Close(); err != nil {
			return total, ioErr("close", name, err)
		}
		p.PartCompleted(i, t.Written)
	}
	return total, nil
}

// combineStream appends parts 0..count-1 of key to dst in order.
func combineStream(dst io.Writer, key string, count int, open func(name string) (io.ReadCloser, error), buf []byte, p Progress) (Totals, error) {
	var total Totals
	for i := 0; i < count; i++ {
		name := PartName(key, i)
		p.PartStarted(i, name)

		r, err := open(name)
		if err != nil {
			return total, ioErr("open", name, err)
		}

		t, err := copyAll(dst, r, buf, p)
		total = total.Add(t)
		r.Close()
		if err != nil {
			return total, stepIOErr(err, name, key)
		}
		p.PartCompleted(i, t.Read)
	}
	return total, nil
}

// stepError tags an error from a copy loop with the side that failed.
type stepError struct {
	op  string
	err error
}

func (e *stepError) Error() string { return e.op + ": " + e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

// stepIOErr converts a copy loop error into an IOError naming the key that
// was being read or written.
func stepIOErr(err error, readKey, writeKey string) error {
	var se *stepError
	if errors.As(err, &se) {
		if se.op == "read" {
			return ioErr("read", readKey, se.err)
		}
		return ioErr("write", writeKey, se.err)
	}
	return err
}
