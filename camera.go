// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// camera.go holds the camera state map, the active camera scalar, and
// the derived projection cache rebuilt on each swap.

import (
	"log/slog"
	"math"

	"github.com/gazed/kadi/math/lin"
)

// Camera variants. The kind tag selects the projection configuration.
const (
	CamWorld  = "world"  // perspective projection.
	CamScreen = "screen" // orthographic projection.
)

// Default projection configuration applied on create and when a
// type switch rebuilds the projection.
const (
	defaultFOV    = 60.0
	defaultAspect = 16.0 / 9.0
	defaultNear   = 0.1
	defaultFar    = 1000.0
)

// Camera is one camera record. The kind tag determines which
// projection fields are meaningful.
type Camera struct {
	Position    lin.V3
	Orientation lin.V3 // yaw, pitch, roll in degrees.
	Kind        string // CamWorld or CamScreen.

	// world variant: perspective configuration.
	FOV, Aspect float64

	// screen variant: orthographic clip planes.
	Left, Right, Bottom, Top float64

	// shared depth planes.
	Near, Far float64

	// Viewport is a normalized x, y, w, h rectangle in [0,1]²
	// applied to the final render target.
	Viewport [4]float64

	IsActive bool
}

// CameraTable maps camera ids to records and tracks the single
// currently active camera id. The active id is a scalar independent of
// the key set: destroying the active camera leaves it dangling and
// consumers treat the miss as "no camera".
type CameraTable struct {
	Recs   map[uint64]Camera
	Active uint64
}

// cloneCameraTable deep copies the table.
func cloneCameraTable(src CameraTable) CameraTable {
	dst := CameraTable{Recs: make(map[uint64]Camera, len(src.Recs)), Active: src.Active}
	for id, rec := range src.Recs {
		dst.Recs[id] = rec
	}
	return dst
}

// Projection is a ready-to-bind projection derived from a camera
// record. Building one costs enough that the renderer should not do it
// per query, so the camera manager caches them per swap.
type Projection struct {
	PM    lin.M4 // projection matrix.
	Ortho bool   // true for the screen variant.
}

// cameras
// =============================================================================

// cameras is the camera component manager: a double buffered camera
// table, its id source and callback registry, and the projection cache.
type cameras struct {
	buf   *StateBuffer[CameraTable]
	ids   *idSource
	calls *callbacks

	// cache holds derived projections for every record present in the
	// front buffer. It is rebuilt at the end of swap and never mutated
	// anywhere else.
	cache map[uint64]*Projection
}

// newCameras is called once by the engine on startup.
func newCameras() *cameras {
	cs := &cameras{ids: &idSource{}, calls: newCallbacks(), cache: map[uint64]*Projection{}}
	cs.buf = NewStateBuffer(CameraTable{Recs: map[uint64]Camera{}}, cloneCameraTable, cs.rebuildCache)
	return cs
}

// rebuildCache derives a projection for every camera in the new front
// buffer. Runs inside swap; treated as derived data everywhere else.
func (cs *cameras) rebuildCache(front *CameraTable) {
	cache := make(map[uint64]*Projection, len(front.Recs))
	for id, rec := range front.Recs {
		cache[id] = project(rec)
	}
	cs.cache = cache
}

// project builds the ready-to-bind projection for one record.
func project(rec Camera) *Projection {
	p := &Projection{}
	switch rec.Kind {
	case CamScreen:
		p.Ortho = true
		p.PM.Ortho(rec.Left, rec.Right, rec.Bottom, rec.Top, rec.Near, rec.Far)
	default:
		p.PM.Persp(rec.FOV, rec.Aspect, rec.Near, rec.Far)
	}
	return p
}

// projection returns the cached projection for the given id, or nil
// when the id is not present in the front buffer.
func (cs *cameras) projection(id uint64) *Projection { return cs.cache[id] }

// activeProjection resolves the active camera scalar against the front
// buffer. A dangling or unset active id yields nil: no camera.
func (cs *cameras) activeProjection() *Projection {
	front := cs.buf.Front()
	if front.Active == UnsetID {
		return nil
	}
	if _, ok := front.Recs[front.Active]; !ok {
		return nil
	}
	return cs.cache[front.Active]
}

// create inserts a camera with the command's position, orientation,
// kind and viewport, and default projection configuration.
func (cs *cameras) create(c *Command) uint64 {
	id := cs.ids.create()
	if id == NoID {
		return NoID
	}
	rec := Camera{
		Position:    c.Pos,
		Orientation: c.Orient,
		Kind:        camKind(c.Tag),
		Viewport:    c.View,
		IsActive:    true,
	}
	configureProjection(&rec, c.Proj)
	tab := cs.buf.Back()
	tab.Recs[id] = rec
	return id
}

// update applies position and orientation together. The joint write is
// the primary interface; the split legacy paths tear under contention
// and arrive as partial updates.
func (cs *cameras) update(c *Command) {
	tab := cs.buf.Back()
	rec, ok := tab.Recs[c.ID]
	if !ok {
		slog.Warn("update for unknown camera", "id", c.ID)
		return
	}
	if c.Has == 0 || c.Has.Has(HasPosition) {
		rec.Position = c.Pos
	}
	if c.Has == 0 || c.Has.Has(HasOrientation) {
		rec.Orientation = c.Orient
	}
	tab.Recs[c.ID] = rec
}

// updateKind switches the projection variant atomically with the
// write. Position and orientation are preserved; the projection
// configuration is rebuilt for the new variant.
func (cs *cameras) updateKind(c *Command) {
	tab := cs.buf.Back()
	rec, ok := tab.Recs[c.ID]
	if !ok {
		slog.Warn("type change for unknown camera", "id", c.ID)
		return
	}
	rec.Kind = camKind(c.Tag)
	configureProjection(&rec, c.Proj)
	tab.Recs[c.ID] = rec
}

// move offsets the camera position by the command delta.
func (cs *cameras) move(c *Command) {
	tab := cs.buf.Back()
	rec, ok := tab.Recs[c.ID]
	if !ok {
		slog.Warn("move for unknown camera", "id", c.ID)
		return
	}
	rec.Position = rec.Position.Add(c.Pos)
	tab.Recs[c.ID] = rec
}

// lookAt points the camera at a world target, deriving yaw and pitch
// from the direction vector. Roll is reset to zero.
func (cs *cameras) lookAt(c *Command) {
	tab := cs.buf.Back()
	rec, ok := tab.Recs[c.ID]
	if !ok {
		slog.Warn("look at for unknown camera", "id", c.ID)
		return
	}
	rec.Orientation = lookOrientation(rec.Position, c.Aux)
	tab.Recs[c.ID] = rec
}

// setActive overwrites the active camera scalar. The id is not checked
// against the key set; consumers resolve it on read.
func (cs *cameras) setActive(c *Command) {
	cs.buf.Back().Active = c.ID
}

// destroy removes the record. The active scalar is deliberately left
// alone: a dangling active id reads as "no camera".
func (cs *cameras) destroy(c *Command) {
	tab := cs.buf.Back()
	if _, ok := tab.Recs[c.ID]; !ok {
		slog.Warn("destroy for unknown camera", "id", c.ID)
		return
	}
	delete(tab.Recs, c.ID)
}

// camKind normalizes a camera kind tag.
func camKind(tag string) string {
	if tag == CamScreen {
		return CamScreen
	}
	return CamWorld
}

// configureProjection fills the projection configuration for the
// record's variant. Zero payload values fall back to defaults.
func configureProjection(rec *Camera, proj [6]float64) {
	switch rec.Kind {
	case CamScreen:
		rec.Left, rec.Right = proj[0], proj[1]
		rec.Bottom, rec.Top = proj[2], proj[3]
		rec.Near, rec.Far = proj[4], proj[5]
		if rec.Right == rec.Left {
			rec.Left, rec.Right = 0, 1
		}
		if rec.Top == rec.Bottom {
			rec.Bottom, rec.Top = 0, 1
		}
		if rec.Far == rec.Near {
			rec.Near, rec.Far = -1, 1
		}
		rec.FOV, rec.Aspect = 0, 0
	default:
		rec.FOV, rec.Aspect = proj[0], proj[1]
		rec.Near, rec.Far = proj[2], proj[3]
		if rec.FOV <= 0 || rec.FOV >= 180 {
			rec.FOV = defaultFOV
		}
		if rec.Aspect <= 0 {
			rec.Aspect = defaultAspect
		}
		if rec.Far <= rec.Near {
			rec.Near, rec.Far = defaultNear, defaultFar
		}
		rec.Left, rec.Right, rec.Bottom, rec.Top = 0, 0, 0, 0
	}
}

// lookOrientation derives yaw and pitch in degrees for the +X forward,
// +Y left, +Z up right-handed world. Yaw rotates about +Z toward +Y;
// pitch is positive looking down.
func lookOrientation(from, target lin.V3) lin.V3 {
	dir := target.Sub(from)
	flat := math.Sqrt(dir.X*dir.X + dir.Y*dir.Y)
	if lin.AeqZ(flat) && lin.AeqZ(dir.Z) {
		return lin.V3{} // target on top of the camera: keep level.
	}
	return lin.V3{
		X: lin.Deg(math.Atan2(dir.Y, dir.X)),  // yaw.
		Y: lin.Deg(-math.Atan2(dir.Z, flat)),  // pitch.
		Z: 0,                                  // roll.
	}
}
