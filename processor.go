// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// processor.go drains the command queues once per frame and dispatches
// each command to a back buffer mutation. Dispatch is a kind-indexed
// function table rather than a type hierarchy: the data path stays
// free of interface indirection.

import "log/slog"

// handler applies one command kind to engine state.
type handler func(eng *Engine, c *Command)

// handlers is the kind-indexed dispatch table. Nil entries drop the
// command with a warning.
var handlers = [cmdKinds]handler{
	CmdCreateMesh:    (*Engine).createMesh,
	CmdUpdateEntity:  func(eng *Engine, c *Command) { eng.ents.update(c) },
	CmdMoveEntity:    func(eng *Engine, c *Command) { eng.ents.move(c) },
	CmdDestroyEntity: func(eng *Engine, c *Command) { eng.ents.destroy(c) },

	CmdCreateCamera:     (*Engine).createCamera,
	CmdUpdateCamera:     func(eng *Engine, c *Command) { eng.cams.update(c) },
	CmdUpdateCameraType: (*Engine).changeCameraType,
	CmdMoveCamera:       func(eng *Engine, c *Command) { eng.cams.move(c) },
	CmdLookAtCamera:     func(eng *Engine, c *Command) { eng.cams.lookAt(c) },
	CmdSetActiveCamera:  (*Engine).setActiveCamera,
	CmdDestroyCamera:    func(eng *Engine, c *Command) { eng.cams.destroy(c) },

	CmdCreateLight:  (*Engine).createLight,
	CmdUpdateLight:  func(eng *Engine, c *Command) { eng.lits.update(c) },
	CmdDestroyLight: func(eng *Engine, c *Command) { eng.lits.destroy(c) },

	CmdCreateSound:    (*Engine).createSound,
	CmdPlaySound:      func(eng *Engine, c *Command) { eng.snds.play(c) },
	CmdStopSound:      func(eng *Engine, c *Command) { eng.snds.stop(c) },
	CmdSetVolume:      func(eng *Engine, c *Command) { eng.snds.setVolume(c) },
	CmdSetBalance:     func(eng *Engine, c *Command) { eng.snds.setBalance(c) },
	CmdSetSpeed:       func(eng *Engine, c *Command) { eng.snds.setSpeed(c) },
	CmdMoveSound:      func(eng *Engine, c *Command) { eng.snds.move(c) },
	CmdSetListeners:   func(eng *Engine, c *Command) { eng.snds.setListeners(c) },
	CmdUpdateListener: func(eng *Engine, c *Command) { eng.snds.updateListener(c) },

	CmdDebugPrim:   func(eng *Engine, c *Command) { eng.draw.add(c) },
	CmdDebugClear:  func(eng *Engine, c *Command) { eng.draw.clear(c) },
	CmdDebugShow:   func(eng *Engine, c *Command) { eng.draw.show(c) },
	CmdDebugCamera: func(eng *Engine, c *Command) { eng.draw.setCamera(c) },
}

// process dispatches one drained command. Errors inside a handler are
// contained: the command is logged and skipped, the rest of the drain
// proceeds, and the drain loop never panics out.
func (eng *Engine) process(c *Command) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("command handler panic", "kind", c.Kind, "id", c.ID, "panic", r)
		}
	}()
	if int(c.Kind) >= len(handlers) || handlers[c.Kind] == nil {
		slog.Warn("unknown command dropped", "kind", c.Kind)
		return
	}
	handlers[c.Kind](eng, c)
	eng.stats.Commands++
}

// create handlers: allocate the record, then tell the originating
// registry that the callback is ready with the assigned id. A failed
// create completes the callback with the error sentinel instead.

func (eng *Engine) createMesh(c *Command) {
	finishCreate(eng.ents.calls, c.CID, eng.ents.create(c))
}

func (eng *Engine) createCamera(c *Command) {
	finishCreate(eng.cams.calls, c.CID, eng.cams.create(c))
}

func (eng *Engine) createLight(c *Command) {
	finishCreate(eng.lits.calls, c.CID, eng.lits.create(c))
}

func (eng *Engine) createSound(c *Command) {
	finishCreate(eng.snds.calls, c.CID, eng.snds.create(c))
}

func (eng *Engine) changeCameraType(c *Command) {
	eng.cams.updateKind(c)
	if c.CID != 0 {
		eng.cams.calls.complete(c.CID, c.ID)
	}
}

func (eng *Engine) setActiveCamera(c *Command) {
	eng.cams.setActive(c)
	if c.CID != 0 {
		eng.cams.calls.complete(c.CID, c.ID)
	}
}

// finishCreate routes the create result to the callback registry.
func finishCreate(calls *callbacks, cid, id uint64) {
	if cid == 0 {
		return // direct create: no continuation registered.
	}
	if id == NoID {
		calls.fail(cid, errIDExhausted)
		return
	}
	calls.complete(cid, id)
}
