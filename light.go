// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// light.go holds the light state map consumed by the renderer.

import (
	"log/slog"

	"github.com/gazed/kadi/math/lin"
)

// Light is one light record.
type Light struct {
	Position  lin.V3
	Color     Color
	Intensity float64 // clamped to 0:1 on write.
	IsActive  bool
}

// LightTable maps light ids to records.
type LightTable map[uint64]Light

// cloneLightTable deep copies the table.
func cloneLightTable(src LightTable) LightTable {
	dst := make(LightTable, len(src))
	for id, rec := range src {
		dst[id] = rec
	}
	return dst
}

// lights
// =============================================================================

// lights is the light component manager.
type lights struct {
	buf   *StateBuffer[LightTable]
	ids   *idSource
	calls *callbacks
}

// newLights is called once by the engine on startup.
func newLights() *lights {
	return &lights{
		buf:   NewStateBuffer(LightTable{}, cloneLightTable, nil),
		ids:   &idSource{},
		calls: newCallbacks(),
	}
}

// create allocates a new id and inserts the light record.
func (ls *lights) create(c *Command) uint64 {
	id := ls.ids.create()
	if id == NoID {
		return NoID
	}
	tab := *ls.buf.Back()
	tab[id] = Light{
		Position:  c.Pos,
		Color:     c.Col,
		Intensity: lin.Clamp(c.Radius, 0, 1),
		IsActive:  true,
	}
	return id
}

// update applies the fields marked present in the payload.
func (ls *lights) update(c *Command) {
	tab := *ls.buf.Back()
	rec, ok := tab[c.ID]
	if !ok {
		slog.Warn("update for unknown light", "id", c.ID)
		return
	}
	if c.Has.Has(HasPosition) {
		rec.Position = c.Pos
	}
	if c.Has.Has(HasColor) {
		rec.Color = c.Col
	}
	if c.Has.Has(HasIntensity) {
		rec.Intensity = lin.Clamp(c.Radius, 0, 1)
	}
	if c.Has.Has(HasActive) {
		rec.IsActive = c.Flag
	}
	tab[c.ID] = rec
}

// destroy removes the record.
func (ls *lights) destroy(c *Command) {
	tab := *ls.buf.Back()
	if _, ok := tab[c.ID]; !ok {
		slog.Warn("destroy for unknown light", "id", c.ID)
		return
	}
	delete(tab, c.ID)
}
