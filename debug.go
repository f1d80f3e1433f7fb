// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// debug.go holds the debug primitive list: an append-only,
// lifetime-bounded set of visualization shapes drawn over the scene.

import "github.com/gazed/kadi/math/lin"

// DebugKind tags one debug primitive shape.
type DebugKind uint8

// Debug primitive kinds.
const (
	DebugPoint DebugKind = iota
	DebugLine
	DebugCylinder
	DebugSphere
	DebugArrow
	DebugText
	DebugBillboard
	DebugBasis
	DebugScreenText
	DebugMessage
)

// DebugMode selects how a primitive interacts with scene depth.
type DebugMode uint8

// Debug render modes.
const (
	DebugAlways   DebugMode = iota // draw over everything.
	DebugUseDepth                  // respect the depth buffer.
	DebugXRay                      // draw occluded parts differently.
)

// DebugPrim is one debug shape. Duration counts down in seconds;
// a negative duration lives until explicitly cleared. Start and End
// colors are interpolated over the primitive lifetime.
type DebugPrim struct {
	Kind     DebugKind
	A, B     lin.V3 // geometry: point, endpoints, or basis origin.
	Radius   float64
	Text     string // text, billboard, screen text, and messages.
	Duration float64
	Lifetime float64 // original duration: drives the color fade.
	Start    Color
	End      Color
	Mode     DebugMode
}

// DebugTable is the debug subsystem state: the primitive list plus
// the visibility gate and the camera ids used for the world and
// screen passes.
type DebugTable struct {
	Prims     []DebugPrim
	Visible   bool
	WorldCam  uint64
	ScreenCam uint64
}

// cloneDebugTable deep copies the table. The swap copies the full
// primitive list.
func cloneDebugTable(src DebugTable) DebugTable {
	dst := src
	dst.Prims = make([]DebugPrim, len(src.Prims))
	copy(dst.Prims, src.Prims)
	return dst
}

// prims
// =============================================================================

// prims is the debug primitive component manager.
type prims struct {
	buf   *StateBuffer[DebugTable]
	calls *callbacks
}

// newPrims is called once by the engine on startup.
func newPrims() *prims {
	return &prims{
		buf:   NewStateBuffer(DebugTable{Visible: true}, cloneDebugTable, nil),
		calls: newCallbacks(),
	}
}

// add appends one primitive from the command payload.
func (ps *prims) add(c *Command) {
	tab := ps.buf.Back()
	tab.Prims = append(tab.Prims, DebugPrim{
		Kind:     DebugKind(c.Prim),
		A:        c.Pos,
		B:        c.Aux,
		Radius:   c.Radius,
		Text:     c.Tag,
		Duration: c.Duration,
		Lifetime: c.Duration,
		Start:    c.Col,
		End:      c.Col2,
		Mode:     DebugMode(c.Mode),
	})
}

// clear drops every primitive, including the infinite duration ones.
func (ps *prims) clear(c *Command) {
	tab := ps.buf.Back()
	tab.Prims = tab.Prims[:0]
}

// show sets the visibility gate.
func (ps *prims) show(c *Command) {
	ps.buf.Back().Visible = c.Flag
}

// setCamera records which camera the world or screen debug pass binds.
func (ps *prims) setCamera(c *Command) {
	tab := ps.buf.Back()
	if c.Tag == CamScreen {
		tab.ScreenCam = c.ID
		return
	}
	tab.WorldCam = c.ID
}

// tick integrates primitive lifetimes after the frame's front snapshot
// has been consumed. Countdowns apply to the back buffer so the next
// swap publishes the aged list. Primitives with negative duration
// persist until cleared.
func (ps *prims) tick(dt float64) {
	front := ps.buf.Front()
	if len(front.Prims) == 0 && !ps.buf.IsDirty() {
		return // nothing aging: avoid dirtying a clean buffer.
	}
	tab := ps.buf.Back()
	kept := tab.Prims[:0]
	for _, p := range tab.Prims {
		if p.Duration < 0 {
			kept = append(kept, p) // lives until cleared.
			continue
		}
		p.Duration -= dt
		if p.Duration > 0 {
			kept = append(kept, p)
		}
	}
	tab.Prims = kept
}
