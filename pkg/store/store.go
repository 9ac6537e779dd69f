// Package store owns the open documents, their selection state and the
// active-tab cursor.
//
// Documents are immutable snapshots: every mutation builds a new
// *model.File that shares untouched people and collections with the
// previous one, so any snapshot handed out by Doc stays valid and unchanged
// for as long as the caller holds it. Operations that reference unknown ids
// are silent no-ops.
//
// A Store is not safe for concurrent use; it is driven from the UI event
// loop. Snapshots may be read from any goroutine.
package store

import (
	"time"

	"go.uber.org/zap"

	"github.com/vanderheijden86/connections/pkg/geom"
	"github.com/vanderheijden86/connections/pkg/loader"
	"github.com/vanderheijden86/connections/pkg/model"
)

// Pending is a connection waiting for its kind to be chosen.
type Pending struct {
	From string
	To   string
}

// Selection is the transient, per-tab selection state.
type Selection struct {
	Focused string
	Multi   []string
	Pending *Pending
}

// IsMulti reports whether id is part of the multi-selection.
func (s Selection) IsMulti(id string) bool {
	for _, m := range s.Multi {
		if m == id {
			return true
		}
	}
	return false
}

// Options configures a Store. Zero values pick production defaults.
type Options struct {
	Logger   *zap.Logger
	Now      func() time.Time
	NewID    func() string
	Language model.Lang
}

type tab struct {
	id       string
	path     string
	dirty    bool
	doc      *model.File
	sel      Selection
	rev      uint64
	graphRev uint64
}

// Store holds every open tab.
type Store struct {
	log   *zap.Logger
	now   func() time.Time
	newID func() string

	tabs   []*tab
	active int
	seq    uint64
}

// New creates a store with a single blank tab.
func New(opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = loader.NewID
	}
	s := &Store{
		log:   opts.Logger.Named("store"),
		now:   opts.Now,
		newID: opts.NewID,
	}
	s.tabs = []*tab{s.blankTab(opts.Language)}
	return s
}

func (s *Store) loaderOptions() loader.Options {
	return loader.Options{NewID: s.newID, Now: s.now}
}

func (s *Store) bump(t *tab, graph bool) {
	s.seq++
	t.rev = s.seq
	if graph {
		t.graphRev = s.seq
	}
}

func (s *Store) blankTab(lang model.Lang) *tab {
	t := &tab{id: s.newID(), doc: model.DefaultFile(lang, s.now())}
	s.bump(t, true)
	return t
}

func (s *Store) cur() *tab { return s.tabs[s.active] }

// Doc returns the active document snapshot. Callers must not modify it.
func (s *Store) Doc() *model.File { return s.cur().doc }

// Selection returns a copy of the active tab's selection.
func (s *Store) Selection() Selection {
	sel := s.cur().sel
	sel.Multi = append([]string(nil), sel.Multi...)
	if sel.Pending != nil {
		p := *sel.Pending
		sel.Pending = &p
	}
	return sel
}

// Revision returns the active tab's document revision and graph revision.
// The document revision changes on every mutation; the graph revision only
// when the people set, the connections or the language change, or when a
// different tab becomes active.
func (s *Store) Revision() (doc, graph uint64) {
	t := s.cur()
	return t.rev, t.graphRev
}

// commit installs the draft as the active document and marks it dirty.
func (s *Store) commit(d *draft, graph bool) {
	t := s.cur()
	d.next.Meta.UpdatedAt = model.FormatTimestamp(s.now())
	t.doc = d.next
	t.dirty = true
	s.bump(t, graph)
}

// SetLanguage switches the document language.
func (s *Store) SetLanguage(lang model.Lang) bool {
	if !lang.IsValid() || s.Doc().Meta.Language == lang {
		return false
	}
	d := newDraft(s.Doc())
	d.next.Meta.Language = lang
	s.commit(d, true)
	return true
}

// SetViewport stores the pan/zoom state. Sub-epsilon changes are ignored.
func (s *Store) SetViewport(vp geom.Viewport) bool {
	vp.Scale = geom.ClampScale(vp.Scale)
	if s.Doc().Viewport.NearlyEqual(vp) {
		return false
	}
	d := newDraft(s.Doc())
	d.next.Viewport = vp
	s.commit(d, false)
	return true
}

// CreatePerson adds a person with default attributes at a world position
// and focuses it.
func (s *Store) CreatePerson(x, y float64) string {
	p := model.NewPerson(s.newID(), x, y)
	d := newDraft(s.Doc())
	d.people()[p.ID] = &p
	s.commit(d, true)
	s.cur().sel.Focused = p.ID
	s.log.Debug("person created", zap.String("id", p.ID))
	return p.ID
}

// MovePerson commits a new base position.
func (s *Store) MovePerson(id string, x, y float64) bool {
	p := s.Doc().People[id]
	if p == nil {
		s.log.Debug("move ignored: unknown person", zap.String("id", id))
		return false
	}
	to := geom.Vec2{X: x, Y: y}
	if geom.NearlySamePosition(p.Position, to) {
		return false
	}
	d := newDraft(s.Doc())
	d.person(id).Position = to
	s.commit(d, false)
	return true
}

// UpdatePerson merges the set fields of patch into the person.
func (s *Store) UpdatePerson(id string, patch model.PersonPatch) bool {
	if s.Doc().People[id] == nil {
		s.log.Debug("update ignored: unknown person", zap.String("id", id))
		return false
	}
	if patch.Empty() {
		return false
	}
	d := newDraft(s.Doc())
	patch.Apply(d.person(id))
	s.commit(d, false)
	return true
}

// DeletePerson removes a person and every connection touching it.
func (s *Store) DeletePerson(id string) bool {
	return s.deletePeople([]string{id}, false)
}

// DeleteManyPeople removes several people in one transition and clears the
// multi-selection.
func (s *Store) DeleteManyPeople(ids []string) bool {
	return s.deletePeople(ids, true)
}

func (s *Store) deletePeople(ids []string, clearMulti bool) bool {
	del := make(map[string]bool, len(ids))
	for _, id := range ids {
		if s.Doc().People[id] != nil {
			del[id] = true
		}
	}
	if len(del) == 0 {
		return false
	}

	d := newDraft(s.Doc())
	people := d.people()
	for id := range del {
		delete(people, id)
	}
	kept := make([]model.Connection, 0, len(d.next.Connections))
	for _, c := range d.next.Connections {
		if !del[c.From] && !del[c.To] {
			kept = append(kept, c)
		}
	}
	d.setConnections(kept)
	s.commit(d, true)

	sel := &s.cur().sel
	if del[sel.Focused] {
		sel.Focused = ""
	}
	if clearMulti {
		sel.Multi = nil
	} else {
		sel.Multi = filterIDs(sel.Multi, func(id string) bool { return !del[id] })
	}
	if sel.Pending != nil && (del[sel.Pending.From] || del[sel.Pending.To]) {
		sel.Pending = nil
	}
	s.log.Debug("people deleted", zap.Int("count", len(del)))
	return true
}

// AddPhotos appends photo data URLs to a person.
func (s *Store) AddPhotos(id string, photos []string) bool {
	if s.Doc().People[id] == nil || len(photos) == 0 {
		return false
	}
	d := newDraft(s.Doc())
	p := d.person(id)
	p.Photos = append(p.Photos, photos...)
	s.commit(d, false)
	return true
}

// RemovePhoto drops the photo at index.
func (s *Store) RemovePhoto(id string, index int) bool {
	p := s.Doc().People[id]
	if p == nil || index < 0 || index >= len(p.Photos) {
		return false
	}
	d := newDraft(s.Doc())
	w := d.person(id)
	w.Photos = append(w.Photos[:index:index], w.Photos[index+1:]...)
	s.commit(d, false)
	return true
}

// AddSocial appends a social link and returns its id.
func (s *Store) AddSocial(id, kind, value string) (string, bool) {
	if s.Doc().People[id] == nil {
		return "", false
	}
	link := model.SocialLink{ID: s.newID(), Type: kind, Value: value}
	d := newDraft(s.Doc())
	p := d.person(id)
	p.Socials = append(p.Socials, link)
	s.commit(d, false)
	return link.ID, true
}

// SocialPatch updates the type and/or value of a social link.
type SocialPatch struct {
	Type  model.Field[string]
	Value model.Field[string]
}

// UpdateSocial edits one social link of a person.
func (s *Store) UpdateSocial(personID, socialID string, patch SocialPatch) bool {
	p := s.Doc().People[personID]
	if p == nil || indexOfSocial(p, socialID) < 0 || (!patch.Type.Set && !patch.Value.Set) {
		return false
	}
	d := newDraft(s.Doc())
	w := d.person(personID)
	link := &w.Socials[indexOfSocial(w, socialID)]
	if patch.Type.Set {
		link.Type = patch.Type.Value
	}
	if patch.Value.Set {
		link.Value = patch.Value.Value
	}
	s.commit(d, false)
	return true
}

// RemoveSocial deletes one social link of a person.
func (s *Store) RemoveSocial(personID, socialID string) bool {
	p := s.Doc().People[personID]
	if p == nil || indexOfSocial(p, socialID) < 0 {
		return false
	}
	d := newDraft(s.Doc())
	w := d.person(personID)
	i := indexOfSocial(w, socialID)
	w.Socials = append(w.Socials[:i:i], w.Socials[i+1:]...)
	s.commit(d, false)
	return true
}

func indexOfSocial(p *model.Person, id string) int {
	for i := range p.Socials {
		if p.Socials[i].ID == id {
			return i
		}
	}
	return -1
}

// ConnectionExistsBetween reports whether a and b are already connected,
// regardless of kind or direction.
func (s *Store) ConnectionExistsBetween(a, b string) bool {
	return s.Doc().ConnectionExistsBetween(a, b)
}

// CreateConnection links two existing, not yet connected people. role is
// only kept for family connections.
func (s *Store) CreateConnection(from, to string, kind model.ConnectionKind, role model.FamilyRole) (string, bool) {
	doc := s.Doc()
	if doc.People[from] == nil || doc.People[to] == nil || from == to {
		s.log.Debug("connect ignored: bad endpoints", zap.String("from", from), zap.String("to", to))
		return "", false
	}
	if !kind.IsValid() || doc.ConnectionExistsBetween(from, to) {
		return "", false
	}
	if kind != model.KindFamily || !role.IsValid() {
		role = ""
	}
	c := model.Connection{
		ID:         s.newID(),
		From:       from,
		To:         to,
		Kind:       kind,
		FamilyRole: role,
		Color:      model.ConnectionColor(kind, role),
	}
	d := newDraft(doc)
	d.setConnections(append(d.connections(), c))
	s.commit(d, true)
	s.log.Debug("connection created", zap.String("id", c.ID), zap.String("kind", string(kind)))
	return c.ID, true
}

// DeleteConnection removes a connection by id.
func (s *Store) DeleteConnection(id string) bool {
	doc := s.Doc()
	idx := -1
	for i := range doc.Connections {
		if doc.Connections[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	d := newDraft(doc)
	list := d.connections()
	d.setConnections(append(list[:idx:idx], list[idx+1:]...))
	s.commit(d, true)
	return true
}

// SetSelected focuses a person; "" clears the focus.
func (s *Store) SetSelected(id string) {
	if id != "" && s.Doc().People[id] == nil {
		return
	}
	s.cur().sel.Focused = id
}

// SetMultiSelected replaces the multi-selection with ids, dropping
// duplicates and unknown ids.
func (s *Store) SetMultiSelected(ids []string) {
	seen := make(map[string]bool, len(ids))
	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] || s.Doc().People[id] == nil {
			continue
		}
		seen[id] = true
		uniq = append(uniq, id)
	}
	s.cur().sel.Multi = uniq
}

// ToggleMultiSelected adds or removes id from the multi-selection.
func (s *Store) ToggleMultiSelected(id string) {
	sel := &s.cur().sel
	if sel.IsMulti(id) {
		sel.Multi = filterIDs(sel.Multi, func(x string) bool { return x != id })
		return
	}
	if s.Doc().People[id] == nil {
		return
	}
	sel.Multi = append(sel.Multi, id)
}

// ClearMultiSelected empties the multi-selection.
func (s *Store) ClearMultiSelected() { s.cur().sel.Multi = nil }

// SetPendingConnection records a connection awaiting kind selection.
func (s *Store) SetPendingConnection(from, to string) {
	doc := s.Doc()
	if doc.People[from] == nil || doc.People[to] == nil {
		return
	}
	s.cur().sel.Pending = &Pending{From: from, To: to}
}

// ClearPendingConnection drops the pending connection.
func (s *Store) ClearPendingConnection() { s.cur().sel.Pending = nil }

func filterIDs(ids []string, keep func(string) bool) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}
