// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// api.go exposes the per-subsystem APIs the script boundary calls.
// Each method packages one command and submits it; the APIs hold no
// state beyond the callback registries and id sources owned by the
// component managers. A full queue surfaces as ErrQueueFull.

import "github.com/gazed/kadi/math/lin"

// EntityAPI queues entity mutations.
type EntityAPI struct{ eng *Engine }

// Entities returns the entity API.
func (eng *Engine) Entities() EntityAPI { return EntityAPI{eng} }

// CreateMesh queues an async entity create. The callback receives the
// assigned id after the create is visible on the front buffer, or NoID
// with an error when the create failed or was refused by a full queue.
func (api EntityAPI) CreateMesh(meshType string, pos lin.V3, radius float64, col Color, cb Callback) error {
	cid := uint64(0)
	if cb != nil {
		cid = api.eng.ents.calls.register(cb)
	}
	cmd := Command{Kind: CmdCreateMesh, CID: cid, Pos: pos, Radius: radius, Col: col, Tag: meshType}
	if !api.eng.renderQ.Submit(cmd) {
		if cid != 0 {
			api.eng.ents.calls.fail(cid, ErrQueueFull)
		}
		return ErrQueueFull
	}
	return nil
}

// UpdatePosition queues a partial update carrying only the position.
func (api EntityAPI) UpdatePosition(id uint64, pos lin.V3) error {
	return api.eng.submitRender(Command{Kind: CmdUpdateEntity, ID: id, Has: HasPosition, Pos: pos})
}

// MoveBy queues a relative position change.
func (api EntityAPI) MoveBy(id uint64, delta lin.V3) error {
	return api.eng.submitRender(Command{Kind: CmdMoveEntity, ID: id, Pos: delta})
}

// UpdateOrientation queues a partial update carrying only the
// orientation in degrees.
func (api EntityAPI) UpdateOrientation(id uint64, orient lin.V3) error {
	return api.eng.submitRender(Command{Kind: CmdUpdateEntity, ID: id, Has: HasOrientation, Orient: orient})
}

// UpdateColor queues a partial update carrying only the color.
func (api EntityAPI) UpdateColor(id uint64, col Color) error {
	return api.eng.submitRender(Command{Kind: CmdUpdateEntity, ID: id, Has: HasColor, Col: col})
}

// Destroy queues removal of the entity record.
func (api EntityAPI) Destroy(id uint64) error {
	return api.eng.submitRender(Command{Kind: CmdDestroyEntity, ID: id})
}

// CameraAPI
// =============================================================================

// CameraAPI queues camera mutations.
type CameraAPI struct{ eng *Engine }

// Cameras returns the camera API.
func (eng *Engine) Cameras() CameraAPI { return CameraAPI{eng} }

// Create queues an async camera create.
func (api CameraAPI) Create(pos, orient lin.V3, kind string, cb Callback) error {
	cid := uint64(0)
	if cb != nil {
		cid = api.eng.cams.calls.register(cb)
	}
	cmd := Command{Kind: CmdCreateCamera, CID: cid, Pos: pos, Orient: orient, Tag: kind, View: [4]float64{0, 0, 1, 1}}
	if !api.eng.renderQ.Submit(cmd) {
		if cid != 0 {
			api.eng.cams.calls.fail(cid, ErrQueueFull)
		}
		return ErrQueueFull
	}
	return nil
}

// Update queues the atomic joint position and orientation write.
// This is the primary camera update interface.
func (api CameraAPI) Update(id uint64, pos, orient lin.V3) error {
	return api.eng.submitRender(Command{Kind: CmdUpdateCamera, ID: id, Pos: pos, Orient: orient})
}

// UpdatePosition queues a position-only camera update.
//
// Deprecated: racy against UpdateOrientation from the same frame;
// use Update. Kept for older scripts.
func (api CameraAPI) UpdatePosition(id uint64, pos lin.V3) error {
	return api.eng.submitRender(Command{Kind: CmdUpdateCamera, ID: id, Has: HasPosition, Pos: pos})
}

// UpdateOrientation queues an orientation-only camera update.
//
// Deprecated: racy against UpdatePosition from the same frame;
// use Update. Kept for older scripts.
func (api CameraAPI) UpdateOrientation(id uint64, orient lin.V3) error {
	return api.eng.submitRender(Command{Kind: CmdUpdateCamera, ID: id, Has: HasOrientation, Orient: orient})
}

// MoveBy queues a relative camera move.
func (api CameraAPI) MoveBy(id uint64, delta lin.V3) error {
	return api.eng.submitRender(Command{Kind: CmdMoveCamera, ID: id, Pos: delta})
}

// LookAt queues an orientation change pointing the camera at target.
func (api CameraAPI) LookAt(id uint64, target lin.V3) error {
	return api.eng.submitRender(Command{Kind: CmdLookAtCamera, ID: id, Aux: target})
}

// SetActive queues the active camera scalar write. The optional
// callback completes once the write is visible.
func (api CameraAPI) SetActive(id uint64, cb Callback) error {
	cid := uint64(0)
	if cb != nil {
		cid = api.eng.cams.calls.register(cb)
	}
	cmd := Command{Kind: CmdSetActiveCamera, ID: id, CID: cid}
	if !api.eng.renderQ.Submit(cmd) {
		if cid != 0 {
			api.eng.cams.calls.fail(cid, ErrQueueFull)
		}
		return ErrQueueFull
	}
	return nil
}

// Destroy queues removal of the camera record.
func (api CameraAPI) Destroy(id uint64) error {
	return api.eng.submitRender(Command{Kind: CmdDestroyCamera, ID: id})
}

// SetKind queues a projection variant switch. Position and orientation
// are preserved across the switch.
func (api CameraAPI) SetKind(id uint64, kind string, cb Callback) error {
	cid := uint64(0)
	if cb != nil {
		cid = api.eng.cams.calls.register(cb)
	}
	cmd := Command{Kind: CmdUpdateCameraType, ID: id, CID: cid, Tag: kind}
	if !api.eng.renderQ.Submit(cmd) {
		if cid != 0 {
			api.eng.cams.calls.fail(cid, ErrQueueFull)
		}
		return ErrQueueFull
	}
	return nil
}

// LightAPI
// =============================================================================

// LightAPI queues light mutations.
type LightAPI struct{ eng *Engine }

// Lights returns the light API.
func (eng *Engine) Lights() LightAPI { return LightAPI{eng} }

// Create queues an async light create.
func (api LightAPI) Create(pos lin.V3, col Color, intensity float64, cb Callback) error {
	cid := uint64(0)
	if cb != nil {
		cid = api.eng.lits.calls.register(cb)
	}
	cmd := Command{Kind: CmdCreateLight, CID: cid, Pos: pos, Col: col, Radius: intensity}
	if !api.eng.renderQ.Submit(cmd) {
		if cid != 0 {
			api.eng.lits.calls.fail(cid, ErrQueueFull)
		}
		return ErrQueueFull
	}
	return nil
}

// Update queues a partial light update.
func (api LightAPI) Update(id uint64, has Fields, pos lin.V3, col Color, intensity float64) error {
	return api.eng.submitRender(Command{Kind: CmdUpdateLight, ID: id, Has: has, Pos: pos, Col: col, Radius: intensity})
}

// Destroy queues removal of the light record.
func (api LightAPI) Destroy(id uint64) error {
	return api.eng.submitRender(Command{Kind: CmdDestroyLight, ID: id})
}

// AudioAPI
// =============================================================================

// AudioAPI queues audio source mutations.
type AudioAPI struct{ eng *Engine }

// Audio returns the audio API.
func (eng *Engine) Audio() AudioAPI { return AudioAPI{eng} }

// LoadAsync queues a sound load. The callback receives the sound id.
func (api AudioAPI) LoadAsync(path string, threeD bool, cb Callback) error {
	cid := uint64(0)
	if cb != nil {
		cid = api.eng.snds.calls.register(cb)
	}
	cmd := Command{Kind: CmdCreateSound, CID: cid, Tag: path, Flag: threeD}
	if !api.eng.renderQ.Submit(cmd) {
		if cid != 0 {
			api.eng.snds.calls.fail(cid, ErrQueueFull)
		}
		return ErrQueueFull
	}
	return nil
}

// CreateOrGet binds the path to a sound id immediately and queues the
// record create. Calling again with a known path returns the same id.
func (api AudioAPI) CreateOrGet(path string, threeD bool) (uint64, error) {
	id, err := api.eng.snds.reserve(path)
	if err != nil {
		return NoID, err
	}
	err = api.eng.submitRender(Command{Kind: CmdCreateSound, ID: id, Tag: path, Flag: threeD})
	if err != nil {
		return NoID, err
	}
	return id, nil
}

// Play queues playback with the given fields. The has mask selects
// which of volume, balance, speed, looped, paused, position apply.
func (api AudioAPI) Play(id uint64, has Fields, volume, balance, speed float64, looped, paused bool, pos lin.V3) error {
	cmd := Command{
		Kind: CmdPlaySound, ID: id, Has: has,
		Volume: volume, Balance: balance, Speed: speed, Pos: pos,
		Flag: looped, Flag2: paused,
	}
	return api.eng.submitRender(cmd)
}

// Stop queues a playback halt.
func (api AudioAPI) Stop(id uint64) error {
	return api.eng.submitRender(Command{Kind: CmdStopSound, ID: id})
}

// SetVolume queues a volume write, clamped on write to 0:1.
func (api AudioAPI) SetVolume(id uint64, v float64) error {
	return api.eng.submitRender(Command{Kind: CmdSetVolume, ID: id, Has: HasVolume, Volume: v})
}

// SetBalance queues a stereo balance write, clamped on write to -1:1.
func (api AudioAPI) SetBalance(id uint64, b float64) error {
	return api.eng.submitRender(Command{Kind: CmdSetBalance, ID: id, Has: HasBalance, Balance: b})
}

// SetSpeed queues a playback speed write, clamped on write to 0.1:10.
func (api AudioAPI) SetSpeed(id uint64, s float64) error {
	return api.eng.submitRender(Command{Kind: CmdSetSpeed, ID: id, Has: HasSpeed, Speed: s})
}

// Move3D queues a 3D position write for the sound.
func (api AudioAPI) Move3D(id uint64, pos lin.V3) error {
	return api.eng.submitRender(Command{Kind: CmdMoveSound, ID: id, Has: HasPosition, Pos: pos})
}

// SetListeners queues a listener count change, capped at MaxListeners.
func (api AudioAPI) SetListeners(n int) error {
	return api.eng.submitRender(Command{Kind: CmdSetListeners, Index: n})
}

// UpdateListener queues one listener pose write.
func (api AudioAPI) UpdateListener(i int, pos, forward, up lin.V3) error {
	return api.eng.submitRender(Command{Kind: CmdUpdateListener, Index: i, Pos: pos, Aux: forward, Up: up})
}

// DebugAPI
// =============================================================================

// DebugAPI queues debug visualization mutations on the debug queue.
type DebugAPI struct{ eng *Engine }

// Debug returns the debug API.
func (eng *Engine) Debug() DebugAPI { return DebugAPI{eng} }

// Add queues one debug primitive.
func (api DebugAPI) Add(p DebugPrim) error {
	cmd := Command{
		Kind: CmdDebugPrim, Prim: uint8(p.Kind), Mode: uint8(p.Mode),
		Pos: p.A, Aux: p.B, Radius: p.Radius, Tag: p.Text,
		Duration: p.Duration, Col: p.Start, Col2: p.End,
	}
	return api.eng.submitDebug(cmd)
}

// Clear queues removal of every primitive.
func (api DebugAPI) Clear() error {
	return api.eng.submitDebug(Command{Kind: CmdDebugClear})
}

// Show queues the visibility gate.
func (api DebugAPI) Show(visible bool) error {
	return api.eng.submitDebug(Command{Kind: CmdDebugShow, Flag: visible})
}

// RenderWorld queues the world pass camera binding.
func (api DebugAPI) RenderWorld(camID uint64) error {
	return api.eng.submitDebug(Command{Kind: CmdDebugCamera, ID: camID, Tag: CamWorld})
}

// RenderScreen queues the screen pass camera binding.
func (api DebugAPI) RenderScreen(camID uint64) error {
	return api.eng.submitDebug(Command{Kind: CmdDebugCamera, ID: camID, Tag: CamScreen})
}

// submit helpers
// =============================================================================

func (eng *Engine) submitRender(cmd Command) error {
	if !eng.renderQ.Submit(cmd) {
		return ErrQueueFull
	}
	return nil
}

func (eng *Engine) submitDebug(cmd Command) error {
	if !eng.debugQ.Submit(cmd) {
		return ErrQueueFull
	}
	return nil
}
