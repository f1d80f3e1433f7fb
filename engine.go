// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// engine.go is where everything starts. Engine owns the subsystem
// component managers and the device facing collaborators, and provides
// the per-subsystem APIs used by the script boundary.

import (
	"errors"
	"sync/atomic"
)

// Engine errors surfaced to the script boundary as err results.
var (
	// ErrQueueFull reports a refused submission. Backpressure is the
	// caller's problem by design: drop, retry next frame, or report.
	ErrQueueFull = errors.New("command queue full")

	errIDExhausted = errors.New("record identifiers exhausted")
)

// Renderer consumes the entity, camera, and light front buffers once
// per frame. The GPU device behind it is out of engine scope.
type Renderer interface {
	Render(f *RenderFrame)
}

// RenderFrame is the read-only snapshot handed to the renderer.
// The maps are front buffers: the renderer must not retain or mutate
// them past the call.
type RenderFrame struct {
	Entities EntityTable
	Lights   LightTable
	Cameras  map[uint64]Camera

	// ActiveCamera resolved against the camera front buffer.
	// Projection is nil when the active id is unset or dangling:
	// the renderer treats the frame as having no camera.
	ActiveCamera uint64
	Projection   *Projection
}

// AudioMixer consumes the audio front buffer once per frame and makes
// the underlying library match it. Mixing is out of engine scope.
type AudioMixer interface {
	Apply(a *AudioTable)
}

// DebugDrawer consumes the debug primitive front buffer once per
// frame. The projections are the cached world and screen pass cameras,
// nil when unset or dangling.
type DebugDrawer interface {
	Draw(d *DebugTable, world, screen *Projection)
}

// DeviceInput polls the OS input state once per frame.
type DeviceInput interface {
	Poll() Pressed
}

// Engine owns all engine state and the main thread frame loop.
// One Engine is constructed at startup and plumbed through
// explicitly; there are no package level singletons.
type Engine struct {
	cfg Config

	// command ingress from the script worker.
	renderQ *CommandQueue
	debugQ  *CommandQueue

	// subsystem component managers.
	ents *entities
	cams *cameras
	lits *lights
	snds *sounds
	draw *prims

	in *Input

	// external collaborators. Never nil after NewEngine.
	renderer Renderer
	mixer    AudioMixer
	drawer   DebugDrawer
	dev      DeviceInput

	// hooks run at the top of every frame on the main thread.
	// Used to pump collaborator queues such as the broker agent's.
	hooks []func()

	stats   Stats
	stopped atomic.Bool
}

// NewEngine creates the engine aggregate with the given configuration
// attributes. Collaborators default to no-ops so headless and test
// setups need no extra wiring.
func NewEngine(attrs ...Attr) (*Engine, error) {
	cfg := configDefaults
	for _, attr := range attrs {
		attr(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	eng := &Engine{
		cfg:      cfg,
		renderQ:  NewCommandQueue(cfg.RenderQueue),
		debugQ:   NewCommandQueue(cfg.DebugQueue),
		ents:     newEntities(),
		cams:     newCameras(),
		lits:     newLights(),
		snds:     newSounds(),
		draw:     newPrims(),
		in:       newInput(),
		renderer: nullRenderer{},
		mixer:    nullMixer{},
		drawer:   nullDrawer{},
		dev:      nullDevice{},
	}
	return eng, nil
}

// SetRenderer installs the render consumer. A nil renderer restores
// the no-op default.
func (eng *Engine) SetRenderer(r Renderer) {
	if r == nil {
		r = nullRenderer{}
	}
	eng.renderer = r
}

// SetMixer installs the audio consumer.
func (eng *Engine) SetMixer(m AudioMixer) {
	if m == nil {
		m = nullMixer{}
	}
	eng.mixer = m
}

// SetDebugDrawer installs the debug primitive consumer.
func (eng *Engine) SetDebugDrawer(d DebugDrawer) {
	if d == nil {
		d = nullDrawer{}
	}
	eng.drawer = d
}

// SetDeviceInput installs the input poller.
func (eng *Engine) SetDeviceInput(d DeviceInput) {
	if d == nil {
		d = nullDevice{}
	}
	eng.dev = d
}

// OnFrame registers a hook run at the top of every frame on the main
// thread, after input polling and before the command drain. Not safe
// to call once the frame loop is running.
func (eng *Engine) OnFrame(hook func()) {
	if hook != nil {
		eng.hooks = append(eng.hooks, hook)
	}
}

// Shutdown asks the frame loop to exit after the current frame.
func (eng *Engine) Shutdown() { eng.stopped.Store(true) }

// Input exposes the per-frame input snapshot queries.
// Safe to call from the script worker.
func (eng *Engine) Input() *Input { return eng.in }

// Config returns the engine configuration.
func (eng *Engine) Config() Config { return eng.cfg }

// Stats
// =============================================================================

// Stats is a point-in-time observability snapshot.
type Stats struct {
	Frames    uint64 // frames completed.
	Commands  uint64 // commands processed.
	Callbacks uint64 // callbacks dispatched.

	Swaps      uint64 // successful buffer swaps, all subsystems.
	Skipped    uint64 // clean swaps skipped, all subsystems.
	SwapErrors uint64 // abandoned swaps, all subsystems.
}

// Snapshot aggregates counters across the subsystem buffers.
func (eng *Engine) Snapshot() Stats {
	s := eng.stats
	for _, c := range eng.counters() {
		s.Swaps += c.TotalSwaps()
		s.Skipped += c.SkippedSwaps()
		s.SwapErrors += c.SwapErrors()
	}
	return s
}

// swapCounters is the observability face of a state buffer.
type swapCounters interface {
	TotalSwaps() uint64
	SkippedSwaps() uint64
	SwapErrors() uint64
}

// counters lists every subsystem buffer.
func (eng *Engine) counters() []swapCounters {
	return []swapCounters{eng.ents.buf, eng.cams.buf, eng.lits.buf, eng.snds.buf, eng.draw.buf}
}

// null collaborators
// =============================================================================
// Defaults used until real consumers are installed.

type nullRenderer struct{}

func (nullRenderer) Render(*RenderFrame) {}

type nullMixer struct{}

func (nullMixer) Apply(*AudioTable) {}

type nullDrawer struct{}

func (nullDrawer) Draw(*DebugTable, *Projection, *Projection) {}

type nullDevice struct{}

func (nullDevice) Poll() Pressed { return Pressed{} }
