// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// entity.go holds the entity state map and its component manager.
// Entities are the renderable records created and mutated by script
// commands and consumed by the renderer each frame.

import (
	"log/slog"

	"github.com/gazed/kadi/math/lin"
)

// Entity is one renderable record. Entities are value types: a buffer
// swap copies them wholesale and no record pointer ever escapes the
// state map. Only ids escape.
type Entity struct {
	Position    lin.V3  // world space.
	Orientation lin.V3  // yaw, pitch, roll in degrees.
	Color       Color   // packed RGBA.
	Radius      float64 // uniform scale.
	MeshType    string  // short tag: "cube", "sphere", "grid".
	CameraType  string  // camera space the entity is drawn in.
	IsActive    bool    // render gate.
}

// EntityTable maps live entity ids to records.
type EntityTable map[uint64]Entity

// cloneEntityTable deep copies the table. Records are value types so
// an entry copy is a deep copy.
func cloneEntityTable(src EntityTable) EntityTable {
	dst := make(EntityTable, len(src))
	for id, rec := range src {
		dst[id] = rec
	}
	return dst
}

// entities
// =============================================================================

// entities is the entity component manager: a double buffered entity
// table plus the id source and callback registry for the entity API.
type entities struct {
	buf   *StateBuffer[EntityTable]
	ids   *idSource
	calls *callbacks
}

// newEntities is called once by the engine on startup.
func newEntities() *entities {
	return &entities{
		buf:   NewStateBuffer(EntityTable{}, cloneEntityTable, nil),
		ids:   &idSource{},
		calls: newCallbacks(),
	}
}

// create allocates a new id and inserts the record described by the
// command into the back buffer. Returns the assigned id, or NoID when
// id space is exhausted.
func (es *entities) create(c *Command) uint64 {
	id := es.ids.create()
	if id == NoID {
		return NoID
	}
	tab := *es.buf.Back()
	tab[id] = Entity{
		Position:    c.Pos,
		Orientation: c.Orient,
		Color:       c.Col,
		Radius:      clampRadius(c.Radius),
		MeshType:    c.Tag,
		CameraType:  CamWorld,
		IsActive:    true,
	}
	return id
}

// update applies the fields marked present in the payload, leaving
// the rest untouched. Unknown ids are logged and dropped.
func (es *entities) update(c *Command) {
	tab := *es.buf.Back()
	rec, ok := tab[c.ID]
	if !ok {
		slog.Warn("update for unknown entity", "id", c.ID)
		return
	}
	if c.Has.Has(HasPosition) {
		rec.Position = c.Pos
	}
	if c.Has.Has(HasOrientation) {
		rec.Orientation = c.Orient
	}
	if c.Has.Has(HasColor) {
		rec.Color = c.Col
	}
	if c.Has.Has(HasRadius) {
		rec.Radius = clampRadius(c.Radius)
	}
	if c.Has.Has(HasActive) {
		rec.IsActive = c.Flag
	}
	tab[c.ID] = rec
}

// move offsets the entity position by the command delta.
func (es *entities) move(c *Command) {
	tab := *es.buf.Back()
	rec, ok := tab[c.ID]
	if !ok {
		slog.Warn("move for unknown entity", "id", c.ID)
		return
	}
	rec.Position = rec.Position.Add(c.Pos)
	tab[c.ID] = rec
}

// destroy removes the record. Later updates against the id are dropped
// with a warning; the id becomes a dangling key consumers tolerate.
func (es *entities) destroy(c *Command) {
	tab := *es.buf.Back()
	if _, ok := tab[c.ID]; !ok {
		slog.Warn("destroy for unknown entity", "id", c.ID)
		return
	}
	delete(tab, c.ID)
}

// clampRadius limits scale on write, never on read.
func clampRadius(r float64) float64 {
	if r < 0 {
		return 0
	}
	return r
}
