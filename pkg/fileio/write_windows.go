package fileio

import (
	"fmt"
	"os"
	"path/filepath"
)

// Write replaces path with data. Rename over an open file is not atomic
// on Windows, so the file is rewritten in place.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
