package store

import (
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/vanderheijden86/connections/pkg/loader"
	"github.com/vanderheijden86/connections/pkg/model"
)

// SessionVersion is the snapshot format version; other versions are ignored.
const SessionVersion = 1

// TabState is one tab inside a session snapshot.
type TabState struct {
	ID               string      `json:"id"`
	Path             *string     `json:"path"`
	Dirty            bool        `json:"dirty"`
	File             *model.File `json:"file"`
	SelectedID       *string     `json:"selectedId"`
	MultiSelectedIDs []string    `json:"multiSelectedIds"`
}

// SessionSnapshot captures every open tab so the workspace can be restored
// on the next start.
type SessionSnapshot struct {
	Version     int        `json:"version"`
	ActiveTabID string     `json:"activeTabId"`
	Tabs        []TabState `json:"tabs"`
}

// Snapshot captures the open tabs. The documents are shared, not copied;
// they are immutable.
func (s *Store) Snapshot() SessionSnapshot {
	snap := SessionSnapshot{
		Version:     SessionVersion,
		ActiveTabID: s.cur().id,
		Tabs:        make([]TabState, 0, len(s.tabs)),
	}
	for _, t := range s.tabs {
		ts := TabState{
			ID:               t.id,
			Dirty:            t.dirty,
			File:             t.doc,
			MultiSelectedIDs: append([]string{}, t.sel.Multi...),
		}
		if t.path != "" {
			p := t.path
			ts.Path = &p
		}
		if t.sel.Focused != "" {
			f := t.sel.Focused
			ts.SelectedID = &f
		}
		snap.Tabs = append(snap.Tabs, ts)
	}
	return snap
}

// EncodeSnapshot serializes the current session.
func (s *Store) EncodeSnapshot() ([]byte, error) {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

// RestoreSession replaces the open tabs with those in an encoded snapshot.
// Tabs without a document object are dropped and every document goes
// through the same normalization as an opened file. It returns false, and
// leaves the store untouched, when nothing usable is found.
func (s *Store) RestoreSession(data []byte) bool {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Warn("session snapshot unreadable", zap.Error(err))
		return false
	}
	if v, _ := raw["version"].(float64); v != SessionVersion {
		s.log.Info("session snapshot version mismatch", zap.Any("version", raw["version"]))
		return false
	}
	list, _ := raw["tabs"].([]any)

	var tabs []*tab
	seen := map[string]bool{}
	for i, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			s.log.Warn("dropping malformed session tab", zap.Int("index", i))
			continue
		}
		fileRaw, ok := obj["file"].(map[string]any)
		if !ok {
			s.log.Warn("dropping session tab without document", zap.Int("index", i))
			continue
		}
		t := &tab{doc: loader.Normalize(fileRaw, s.loaderOptions())}
		if id, ok := obj["id"].(string); ok && id != "" && !seen[id] {
			t.id = id
		} else {
			t.id = s.newID()
		}
		seen[t.id] = true
		t.path, _ = obj["path"].(string)
		t.dirty, _ = obj["dirty"].(bool)
		if id, ok := obj["selectedId"].(string); ok && t.doc.People[id] != nil {
			t.sel.Focused = id
		}
		if ids, ok := obj["multiSelectedIds"].([]any); ok {
			for _, v := range ids {
				if id, ok := v.(string); ok && t.doc.People[id] != nil && !t.sel.IsMulti(id) {
					t.sel.Multi = append(t.sel.Multi, id)
				}
			}
		}
		s.bump(t, true)
		tabs = append(tabs, t)
	}
	if len(tabs) == 0 {
		return false
	}

	s.tabs = tabs
	active := 0
	if id, ok := raw["activeTabId"].(string); ok {
		if i := s.indexOf(id); i >= 0 {
			active = i
		}
	}
	s.activate(active)
	s.log.Info("session restored", zap.Int("tabs", len(tabs)))
	return true
}
