package store

import "github.com/vanderheijden86/connections/pkg/model"

// draft is a copy-on-write view over a document snapshot. The first write
// to a collection copies that collection; the first write to a person
// clones that person. Everything else stays shared with the base snapshot,
// which is never modified.
type draft struct {
	next      *model.File
	ownPeople bool
	ownConns  bool
	owned     map[string]bool
}

func newDraft(base *model.File) *draft {
	next := *base
	return &draft{next: &next, owned: map[string]bool{}}
}

func (d *draft) people() map[string]*model.Person {
	if !d.ownPeople {
		m := make(map[string]*model.Person, len(d.next.People)+1)
		for id, p := range d.next.People {
			m[id] = p
		}
		d.next.People = m
		d.ownPeople = true
	}
	return d.next.People
}

// person returns a private, writable copy of the person, or nil.
func (d *draft) person(id string) *model.Person {
	p := d.next.People[id]
	if p == nil {
		return nil
	}
	if d.owned[id] {
		return p
	}
	c := p.Clone()
	d.people()[id] = &c
	d.owned[id] = true
	return &c
}

func (d *draft) connections() []model.Connection {
	if !d.ownConns {
		d.next.Connections = append(make([]model.Connection, 0, len(d.next.Connections)+1), d.next.Connections...)
		d.ownConns = true
	}
	return d.next.Connections
}

func (d *draft) setConnections(list []model.Connection) {
	d.next.Connections = list
	d.ownConns = true
}
