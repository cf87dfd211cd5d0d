package seriallog

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// RecordWriter appends records to a single output file.
// It is safe for concurrent use; each Append is one write of a whole record.
type RecordWriter struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// OpenRecordWriter opens path for appending, creating it if needed. Existing
// content is never truncated.
func OpenRecordWriter(path string) (*RecordWriter, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileOpen, err)
	}
	return &RecordWriter{file: f, path: path}, nil
}

// Append writes rec. A failed record is not retried or kept.
func (w *RecordWriter) Append(rec Record) error {
	b := rec.Bytes()

	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileWrite, w.path, err)
	}
	return nil
}

// Path returns the file the writer appends to.
func (w *RecordWriter) Path() string {
	return w.path
}

// Close closes the underlying file.
func (w *RecordWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
