package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/c360studio/aboxer/export"
	"github.com/c360studio/aboxer/ontology/ofn"
)

// StdoutPath names standard output as an output path.
const StdoutPath = "-"

// NewWriter returns a sink writing a complete document in format to w.
func NewWriter(w io.Writer, format export.Format, h ofn.Header) (WriteCloser, error) {
	if format == export.FormatFunctional || format == "" {
		return ofn.NewEncoder(w, h), nil
	}
	e, err := export.NewExporter(w, format, h)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// File is a sink writing a document to a file. The document is written to a
// temporary file next to the destination and renamed into place by Close,
// so a failed conversion never leaves a truncated output behind.
type File struct {
	WriteCloser
	f    *os.File
	path string
}

// Create opens a File sink for path, or for standard output when path is
// StdoutPath.
func Create(path string, format export.Format, h ofn.Header) (*File, error) {
	if path == StdoutPath {
		w, err := NewWriter(os.Stdout, format, h)
		if err != nil {
			return nil, err
		}
		return &File{WriteCloser: w, path: path}, nil
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	w, err := NewWriter(f, format, h)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	return &File{WriteCloser: w, f: f, path: path}, nil
}

// Path returns the destination path.
func (s *File) Path() string { return s.path }

// Close completes the document and moves it to its destination.
func (s *File) Close() error {
	if err := s.WriteCloser.Close(); err != nil {
		s.Abort()
		return err
	}
	if s.f == nil {
		return nil
	}
	tmp := s.f.Name()
	if err := s.f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close output: %w", err)
	}
	s.f = nil
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("move output into place: %w", err)
	}
	return nil
}

// Abort discards the output. It is a no-op after Close or for standard
// output.
func (s *File) Abort() {
	if s.f == nil {
		return
	}
	s.f.Close()
	os.Remove(s.f.Name())
	s.f = nil
}
