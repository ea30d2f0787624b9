package feed

import (
	"context"
	"os"
)

// FileSource reads a document from local disk on every fetch.
type FileSource struct {
	path string
}

// NewFileSource constructs a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return s.path }

// Path exposes the watched file location.
func (s *FileSource) Path() string { return s.path }

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &FetchError{Source: s.path, Err: err}
	}
	return data, nil
}
