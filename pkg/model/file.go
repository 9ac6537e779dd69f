package model

import (
	"fmt"
	"time"

	"github.com/vanderheijden86/connections/pkg/geom"
)

// AppMarker identifies a document as ours; anything else is rejected on open.
const AppMarker = "Connections"

// FileVersion is the document format version written by this build.
const FileVersion = 1

// Extension is the file name suffix used by pickers and discovery.
const Extension = ".connections"

// TimestampLayout matches the millisecond UTC ISO-8601 strings stored in meta.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in the document timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Connection is an undirected, typed edge between two people
type Connection struct {
	ID         string         `json:"id"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Kind       ConnectionKind `json:"kind"`
	FamilyRole FamilyRole     `json:"familyRole,omitempty"`
	Color      string         `json:"color"`
}

// Joins reports whether the connection links a and b in either direction.
func (c *Connection) Joins(a, b string) bool {
	return (c.From == a && c.To == b) || (c.From == b && c.To == a)
}

// Touches reports whether id is one of the endpoints.
func (c *Connection) Touches(id string) bool {
	return c.From == id || c.To == id
}

// Other returns the endpoint opposite id.
func (c *Connection) Other(id string) string {
	if c.From == id {
		return c.To
	}
	return c.From
}

// Validate checks the connection is internally consistent
func (c *Connection) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("connection ID cannot be empty")
	}
	if c.From == "" || c.To == "" {
		return fmt.Errorf("connection %s: endpoints cannot be empty", c.ID)
	}
	if c.From == c.To {
		return fmt.Errorf("connection %s: self-loop on %s", c.ID, c.From)
	}
	if !c.Kind.IsValid() {
		return fmt.Errorf("connection %s: invalid kind: %s", c.ID, c.Kind)
	}
	if c.FamilyRole != "" && c.Kind != KindFamily {
		return fmt.Errorf("connection %s: family role on %s connection", c.ID, c.Kind)
	}
	if c.FamilyRole != "" && !c.FamilyRole.IsValid() {
		return fmt.Errorf("connection %s: invalid family role: %s", c.ID, c.FamilyRole)
	}
	return nil
}

// Meta is the document header
type Meta struct {
	App       string `json:"app"`
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Language  Lang   `json:"language"`
}

// File is a whole saved document
type File struct {
	Meta        Meta               `json:"meta"`
	People      map[string]*Person `json:"people"`
	Connections []Connection       `json:"connections"`
	Viewport    geom.Viewport      `json:"viewport"`
}

// DefaultFile returns an empty document stamped with now.
func DefaultFile(lang Lang, now time.Time) *File {
	if !lang.IsValid() {
		lang = LangRU
	}
	ts := FormatTimestamp(now)
	return &File{
		Meta: Meta{
			App:       AppMarker,
			Version:   FileVersion,
			CreatedAt: ts,
			UpdatedAt: ts,
			Language:  lang,
		},
		People:      map[string]*Person{},
		Connections: []Connection{},
		Viewport:    geom.DefaultViewport(),
	}
}

// Clone creates a deep copy of the document
func (f *File) Clone() *File {
	clone := *f
	clone.People = make(map[string]*Person, len(f.People))
	for id, p := range f.People {
		pc := p.Clone()
		clone.People[id] = &pc
	}
	clone.Connections = append([]Connection{}, f.Connections...)
	return &clone
}

// ConnectionExistsBetween reports whether any connection joins a and b.
func (f *File) ConnectionExistsBetween(a, b string) bool {
	for i := range f.Connections {
		if f.Connections[i].Joins(a, b) {
			return true
		}
	}
	return false
}

// Positions returns every person's committed position.
func (f *File) Positions() []geom.Vec2 {
	pts := make([]geom.Vec2, 0, len(f.People))
	for _, p := range f.People {
		pts = append(pts, p.Position)
	}
	return pts
}

// Validate checks the document invariants: a recognized header, valid
// people, connections between existing people and at most one connection
// per pair.
func (f *File) Validate() error {
	if f.Meta.App != AppMarker {
		return fmt.Errorf("unexpected app marker %q", f.Meta.App)
	}
	if !f.Meta.Language.IsValid() {
		return fmt.Errorf("invalid language: %s", f.Meta.Language)
	}
	for id, p := range f.People {
		if p == nil {
			return fmt.Errorf("person %s is nil", id)
		}
		if p.ID != id {
			return fmt.Errorf("person key %s does not match id %s", id, p.ID)
		}
		if err := p.Validate(); err != nil {
			return err
		}
	}
	seen := make(map[[2]string]bool, len(f.Connections))
	for i := range f.Connections {
		c := &f.Connections[i]
		if err := c.Validate(); err != nil {
			return err
		}
		if f.People[c.From] == nil || f.People[c.To] == nil {
			return fmt.Errorf("connection %s references a missing person", c.ID)
		}
		key := PairKey(c.From, c.To)
		if seen[key] {
			return fmt.Errorf("duplicate connection between %s and %s", c.From, c.To)
		}
		seen[key] = true
	}
	return nil
}

// PairKey is an order-independent key for an unordered pair of ids.
func PairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
