// Package fileio has the file channels used to export and import task backups.
package fileio

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// DirExporter writes exported files into a directory.
type DirExporter struct {
	Dir string
}

// Export writes data as filename inside the directory, replacing any previous file.
func (d DirExporter) Export(ctx context.Context, filename string, data []byte) error {
	if filename == "" || filepath.Base(filename) != filename {
		return fmt.Errorf("invalid file name %q", filename)
	}

	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("could not create export directory: %w", err)
	}

	// Write to a temporary file first so a failed export never leaves a truncated backup.
	tmp, err := os.CreateTemp(d.Dir, "."+filename+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close export: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(d.Dir, filename)); err != nil {
		return fmt.Errorf("could not move export into place: %w", err)
	}

	return nil
}

// WriterExporter writes exported data into a writer, ignoring the file name.
type WriterExporter struct {
	Writer io.Writer
}

// Export satisfies the export channel.
func (w WriterExporter) Export(_ context.Context, _ string, data []byte) error {
	if _, err := w.Writer.Write(data); err != nil {
		return fmt.Errorf("could not write export: %w", err)
	}
	return nil
}

// Selection is a user selected file that can be read once.
type Selection struct {
	fs fs.FS

	mu   sync.Mutex
	path string
}

// NewSelection selects path inside filesystem.
func NewSelection(filesystem fs.FS, path string) *Selection {
	return &Selection{fs: filesystem, path: path}
}

// Read returns the contents of the selected file.
func (s *Selection) Read(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	path := s.path
	s.mu.Unlock()

	if path == "" {
		return nil, fmt.Errorf("no file selected")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading selected file: %w", err)
	}

	return data, nil
}

// Clear drops the selection, later reads fail.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = ""
}

// Selected returns the selected path, empty once cleared.
func (s *Selection) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}
