// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// input.go publishes a per-frame input snapshot that the script worker
// can query. The main thread polls the device layer; queries from the
// worker read the latest snapshot under a short read lock.

import "sync"

// Input bounds for index validation.
const (
	MaxControllers     = 4
	MaxControllerAxes  = 6
	MaxControllerKeys  = 16
	MaxMouseButtons    = 5
)

// Controller is the state of one game controller.
type Controller struct {
	Connected bool
	Axes      [MaxControllerAxes]float64
	Buttons   [MaxControllerKeys]bool
}

// Pressed is the raw device state gathered once per frame by the
// DeviceInput collaborator.
type Pressed struct {
	Mx, My      int         // current mouse location in pixels.
	Down        map[int]int // key code to ticks held.
	Buttons     map[int]int // mouse button to ticks held.
	Scroll      int
	Controllers [MaxControllers]Controller
}

// Input keeps the current and previous frame snapshots so the script
// side can ask edge questions: just pressed, just released.
type Input struct {
	mu   sync.RWMutex
	cur  Pressed
	prev Pressed

	lastMx, lastMy int // mouse location one frame back, for deltas.
}

// newInput is called once by the engine on startup.
func newInput() *Input {
	return &Input{
		cur:  Pressed{Down: map[int]int{}, Buttons: map[int]int{}},
		prev: Pressed{Down: map[int]int{}, Buttons: map[int]int{}},
	}
}

// refresh rolls the current snapshot to previous and installs the new
// device state. Called by the frame loop before the drain.
func (in *Input) refresh(p Pressed) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.lastMx, in.lastMy = in.cur.Mx, in.cur.My
	in.prev = in.cur
	if p.Down == nil {
		p.Down = map[int]int{}
	}
	if p.Buttons == nil {
		p.Buttons = map[int]int{}
	}
	in.cur = p
}

// KeyPressed reports whether the key is currently down.
func (in *Input) KeyPressed(code int) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.cur.Down[code] > 0
}

// KeyJustPressed reports a down edge this frame.
func (in *Input) KeyJustPressed(code int) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.cur.Down[code] > 0 && in.prev.Down[code] == 0
}

// KeyJustReleased reports an up edge this frame.
func (in *Input) KeyJustReleased(code int) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.cur.Down[code] == 0 && in.prev.Down[code] > 0
}

// MousePosition returns the current mouse location.
func (in *Input) MousePosition() (x, y int) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.cur.Mx, in.cur.My
}

// MouseDelta returns mouse movement since the previous frame.
func (in *Input) MouseDelta() (dx, dy int) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.cur.Mx - in.lastMx, in.cur.My - in.lastMy
}

// MousePressed reports whether the mouse button is currently down.
func (in *Input) MousePressed(button int) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.cur.Buttons[button] > 0
}

// MouseJustPressed reports a down edge this frame.
func (in *Input) MouseJustPressed(button int) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.cur.Buttons[button] > 0 && in.prev.Buttons[button] == 0
}

// ControllerConnected reports whether controller i is attached.
// Out of range indices read as disconnected.
func (in *Input) ControllerConnected(i int) bool {
	if i < 0 || i >= MaxControllers {
		return false
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.cur.Controllers[i].Connected
}

// ControllerAxis returns the axis value for controller i, zero when
// either index is out of range.
func (in *Input) ControllerAxis(i, axis int) float64 {
	if i < 0 || i >= MaxControllers || axis < 0 || axis >= MaxControllerAxes {
		return 0
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.cur.Controllers[i].Axes[axis]
}

// ControllerPressed reports a held controller button, false when
// either index is out of range.
func (in *Input) ControllerPressed(i, button int) bool {
	if i < 0 || i >= MaxControllers || button < 0 || button >= MaxControllerKeys {
		return false
	}
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.cur.Controllers[i].Buttons[button]
}
