package seriallog

import "iter"

const (
	// LineTerminator completes a line.
	LineTerminator byte = 13
	// LineFeed is dropped wherever it appears, so CRLF devices frame cleanly.
	// A device terminating lines with bare LF never completes a line.
	LineFeed byte = 10
)

// Framer turns a raw byte stream into lines terminated by CR.
//
// The in-progress line is unbounded: a device that never sends CR grows the
// buffer for the life of the session.
//
// A Framer is not safe for concurrent use; each capture session owns one.
type Framer struct {
	buf []byte
}

// Feed consumes one byte. When b completes a line, Feed returns a copy of the
// line (without CR or any LF) and true, and the buffer starts over.
func (f *Framer) Feed(b byte) ([]byte, bool) {
	switch b {
	case LineTerminator:
		line := make([]byte, len(f.buf))
		copy(line, f.buf)
		f.buf = f.buf[:0]
		return line, true
	case LineFeed:
		return nil, false
	default:
		f.buf = append(f.buf, b)
		return nil, false
	}
}

// Lines feeds data through the framer and yields each completed line as it is
// produced. Bytes after the last CR stay pending for the next call. If the
// consumer stops early, the bytes after the yielded line are not fed.
func (f *Framer) Lines(data []byte) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for _, b := range data {
			line, ok := f.Feed(b)
			if !ok {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

// Pending reports how many bytes of the current unterminated line are buffered.
func (f *Framer) Pending() int {
	return len(f.buf)
}

// Reset discards the unterminated line.
func (f *Framer) Reset() {
	f.buf = f.buf[:0]
}
