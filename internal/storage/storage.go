package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/airtable-events/internal/event"
)

// Writer is a destination for the encoded envelope.
type Writer interface {
	// Write stores data, replacing whatever was there before.
	Write(ctx context.Context, data []byte) error
	// Location describes where data goes, for logs and summaries.
	Location() string
}

// FileStorage writes the envelope to a file on local disk
type FileStorage struct {
	path string
}

// New creates a FileStorage for path. A leading ~/ is expanded.
// The parent directory is created on first write, not here.
func New(path string) (*FileStorage, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	return &FileStorage{
		path: path,
	}, nil
}

// Location returns the output path
func (s *FileStorage) Location() string {
	return s.path
}

// Write overwrites the output file with data
func (s *FileStorage) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}

	return nil
}

// Load reads the envelope written by a previous run. A missing file yields an
// empty envelope.
func (s *FileStorage) Load() (*event.Envelope, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &event.Envelope{Events: make([]event.Event, 0)}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	return event.DecodeEnvelope(data)
}
