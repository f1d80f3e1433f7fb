// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// loop.go runs the main thread frame loop. The per-frame ordering is
// the engine's one hard contract: drain, swap, consume, dispatch, in
// that order, every frame, and nothing else ever calls swap.

import "time"

// timeStepSecs is the fixed update interval. State advances at a
// constant rate independent of render speed. Based on:
//
//	http://gafferongames.com/game-physics/fix-your-timestep
//	http://www.koonsolo.com/news/dewitters-gameloop
const timeStepSecs = 0.02

// capSecs ignores loop time beyond this bound to avoid a spiral of
// death where slow frames demand ever more catch-up updates.
const capSecs = 0.2

// Run loops until Shutdown is called. Each pass steps the engine at
// the fixed timestep, sleeping when rendering runs faster than 100fps.
// Run must be called from the thread that owns the device handles.
func (eng *Engine) Run() {
	updateTime := 0.0
	lastTime := time.Now()
	for !eng.stopped.Load() {
		elapsed := time.Since(lastTime).Seconds()
		lastTime = time.Now()
		if elapsed > capSecs {
			elapsed = capSecs
		}
		if elapsed < 0.01 {
			time.Sleep(time.Duration((0.01 - elapsed) * float64(time.Second)))
		}
		updateTime += elapsed
		for updateTime >= timeStepSecs {
			eng.Step(timeStepSecs)
			updateTime -= timeStepSecs
		}
	}
}

// Step advances the engine one frame. Strictly, per frame:
//
//  1. poll inputs, advance clocks.
//  2. drain each command queue into the back buffers.
//  3. swap each subsystem buffer: dirty publishes, clean skips.
//  4. consume the front buffers: render, debug draw, mix.
//  5. dispatch callbacks made ready this frame.
//  6. advance to the next frame.
//
// Consumers may read Front repeatedly within one frame and always see
// identical snapshots.
func (eng *Engine) Step(dt float64) {
	// 1. inputs and clocks, then frame hooks such as the broker pump.
	eng.in.refresh(eng.dev.Poll())
	for _, hook := range eng.hooks {
		hook()
	}

	// 2. every command drains before any swap, so every command is
	// observable on the next front buffer.
	eng.renderQ.ConsumeAll(eng.process)
	eng.debugQ.ConsumeAll(eng.process)

	// 3. publish. The camera swap also rebuilds the projection cache.
	eng.ents.buf.Swap()
	eng.cams.buf.Swap()
	eng.lits.buf.Swap()
	eng.snds.buf.Swap()
	eng.draw.buf.Swap()

	// 4. consume front snapshots.
	eng.renderer.Render(eng.renderFrame())
	debugFront := eng.draw.buf.Front()
	eng.drawer.Draw(debugFront,
		eng.cams.projection(debugFront.WorldCam),
		eng.cams.projection(debugFront.ScreenCam))
	eng.mixer.Apply(eng.snds.buf.Front())

	// integrate debug lifetimes after the snapshot was consumed.
	eng.draw.tick(dt)

	// 5. callbacks fire only after their effect is visible.
	for _, cb := range eng.registries() {
		eng.stats.Callbacks += uint64(cb.dispatch())
	}

	// 6. next frame.
	eng.stats.Frames++
}

// renderFrame assembles the renderer's view of the front buffers.
func (eng *Engine) renderFrame() *RenderFrame {
	camFront := eng.cams.buf.Front()
	return &RenderFrame{
		Entities:     *eng.ents.buf.Front(),
		Lights:       *eng.lits.buf.Front(),
		Cameras:      camFront.Recs,
		ActiveCamera: camFront.Active,
		Projection:   eng.cams.activeProjection(),
	}
}

// registries lists every callback registry in dispatch order.
func (eng *Engine) registries() []*callbacks {
	return []*callbacks{eng.ents.calls, eng.cams.calls, eng.lits.calls, eng.snds.calls, eng.draw.calls}
}
