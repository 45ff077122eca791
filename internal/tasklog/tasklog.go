// Package tasklog implements the run log: an append-only sink shared by all
// workers, fed by per-task buffers that are flushed in one write.
package tasklog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
)

// Sink serializes writes to the underlying writer.
type Sink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewSink wraps w. Closing the sink does not close w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// OpenFile opens path for appending, creating it when missing.
func OpenFile(path string) (*Sink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return &Sink{w: file, closer: file}, nil
}

// WriteLine appends line and a trailing newline as one write.
func (s *Sink) WriteLine(line string) error {
	return s.write([]byte(line + "\n"))
}

// Flush writes the buffer's contents as one contiguous block. Empty buffers
// are not written.
func (s *Sink) Flush(buf *Buffer) error {
	if buf == nil || buf.Len() == 0 {
		return nil
	}
	return s.write(buf.Bytes())
}

func (s *Sink) write(p []byte) error {
	if s == nil || s.w == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(p)
	return err
}

// Close releases the file opened by OpenFile.
func (s *Sink) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closer.Close()
}

// Buffer collects one task's log lines. It is not safe for concurrent use;
// each task owns its own.
type Buffer struct {
	buf bytes.Buffer
}

// Write implements io.Writer so subprocess captures can be copied in.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

// Printf appends a formatted line; a newline is added when missing.
func (b *Buffer) Printf(format string, args ...any) {
	fmt.Fprintf(&b.buf, format, args...)
	if data := b.buf.Bytes(); len(data) > 0 && data[len(data)-1] != '\n' {
		b.buf.WriteByte('\n')
	}
}

// Bytes returns the buffered content.
func (b *Buffer) Bytes() []byte { return b.buf.Bytes() }

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int { return b.buf.Len() }

// String returns the buffered content as text.
func (b *Buffer) String() string { return b.buf.String() }
