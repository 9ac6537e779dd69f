// Package fileio reads and writes document files.
package fileio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/connections/pkg/loader"
	"github.com/vanderheijden86/connections/pkg/model"
)

// Read returns the contents of path.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// WithExtension appends the document extension when path has none.
func WithExtension(path string) string {
	if filepath.Ext(path) == "" {
		return path + model.Extension
	}
	return path
}

// Load reads and decodes a document file. A file that is not a document
// fails with an error wrapping loader.ErrInvalidFile.
func Load(path string) (map[string]any, error) {
	data, err := Read(path)
	if err != nil {
		return nil, err
	}
	raw, err := loader.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// Save encodes doc and writes it to path. It returns the bytes written.
func Save(path string, doc *model.File) ([]byte, error) {
	data, err := loader.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if err := Write(path, data); err != nil {
		return nil, err
	}
	return data, nil
}
