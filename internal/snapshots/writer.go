// Package snapshots writes generated JSON documents (normalized schedule,
// stadium manifest) so that readers never observe a half-written file.
package snapshots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists JSON documents under a base directory.
type Writer struct {
	basePath string
}

// NewWriter constructs a writer rooted at basePath.
func NewWriter(basePath string) *Writer {
	return &Writer{basePath: basePath}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// Path returns where name is written.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.basePath, name)
}

// WriteJSON marshals payload with two-space indentation and replaces name
// atomically. An identical existing file is left untouched; changed reports
// whether anything was written.
func (w *Writer) WriteJSON(name string, payload any) (changed bool, err error) {
	if w == nil {
		return false, fmt.Errorf("snapshot writer not configured")
	}
	if name == "" {
		return false, fmt.Errorf("file name required")
	}

	target := w.Path(name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", name, err)
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return false, err
	}
	return true, nil
}
