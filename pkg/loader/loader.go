// Package loader decodes, normalizes and encodes relationship documents.
package loader

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vanderheijden86/connections/pkg/model"
)

// ErrInvalidFile is returned for input that is not a Connections document.
var ErrInvalidFile = errors.New("not a Connections file")

// NewID returns a fresh random identifier for people, connections and socials.
func NewID() string {
	return uuid.NewString()
}

// Decode parses raw JSON into a generic value and checks the format marker.
// The result is suitable for Normalize.
func Decode(data []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidFile)
	}
	if !IsDocument(root) {
		return nil, fmt.Errorf("%w: missing %q marker", ErrInvalidFile, model.AppMarker)
	}
	return root, nil
}

// IsDocument reports whether a decoded value carries our format marker.
func IsDocument(raw map[string]any) bool {
	meta, _ := raw["meta"].(map[string]any)
	app, _ := meta["app"].(string)
	return app == model.AppMarker
}

// Parse decodes and normalizes a saved document.
func Parse(data []byte, opts Options) (*model.File, error) {
	raw, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Normalize(raw, opts), nil
}

// Marshal encodes a document the way it is written to disk: two-space
// indented JSON with a trailing newline.
func Marshal(f *model.File) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var buf bytes.Buffer
	buf.Grow(len(data) + 1)
	buf.Write(data)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
