package storage

import (
	"context"
	"fmt"
	"io"
)

// StreamWriter writes the envelope to an io.Writer such as stdout.
type StreamWriter struct {
	w    io.Writer
	name string
}

// NewStream creates a StreamWriter; name is what Location reports.
func NewStream(w io.Writer, name string) *StreamWriter {
	return &StreamWriter{w: w, name: name}
}

// Location returns the stream's name
func (s *StreamWriter) Location() string {
	return s.name
}

// Write copies data to the underlying writer
func (s *StreamWriter) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("writing to %s: %w", s.name, err)
	}
	return nil
}
