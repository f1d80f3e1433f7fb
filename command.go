// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// command.go defines the tagged command union carried from the script
// worker to the main thread. One flat record per command keeps queue
// slots a fixed, predictable size.

import "github.com/gazed/kadi/math/lin"

// CmdKind discriminates the command payload.
type CmdKind uint8

// Command kinds. Each maps to one back buffer mutation in the
// processor dispatch table.
const (
	CmdNone CmdKind = iota

	// entity commands.
	CmdCreateMesh
	CmdUpdateEntity
	CmdMoveEntity
	CmdDestroyEntity

	// camera commands.
	CmdCreateCamera
	CmdUpdateCamera
	CmdUpdateCameraType
	CmdMoveCamera
	CmdLookAtCamera
	CmdSetActiveCamera
	CmdDestroyCamera

	// light commands.
	CmdCreateLight
	CmdUpdateLight
	CmdDestroyLight

	// audio commands.
	CmdCreateSound
	CmdPlaySound
	CmdStopSound
	CmdSetVolume
	CmdSetBalance
	CmdSetSpeed
	CmdMoveSound
	CmdSetListeners
	CmdUpdateListener

	// debug commands.
	CmdDebugPrim
	CmdDebugClear
	CmdDebugShow
	CmdDebugCamera

	cmdKinds // count: sizes the dispatch table.
)

// Fields marks which optional payload fields are present so partial
// updates are representable without sentinel values.
type Fields uint16

// Present field markers for partial update commands.
const (
	HasPosition Fields = 1 << iota
	HasOrientation
	HasColor
	HasRadius
	HasVolume
	HasBalance
	HasSpeed
	HasLooped
	HasPaused
	HasActive
	HasIntensity
)

// Has reports whether field f is present in the payload.
func (fs Fields) Has(f Fields) bool { return fs&f != 0 }

// Command is one mutation intent plus its payload. The kind selects
// which fields are meaningful; unused fields stay zero.
type Command struct {
	Kind CmdKind
	ID   uint64 // target record id, or preassigned id for creates.
	CID  uint64 // callback id for async creates, 0 when none.
	Has  Fields // present markers for partial updates.

	Pos    lin.V3 // position, delta, or first point.
	Aux    lin.V3 // second point, look target, or listener forward.
	Up     lin.V3 // listener up vector.
	Orient lin.V3 // yaw, pitch, roll in degrees.

	Radius   float64
	Duration float64
	Volume   float64
	Balance  float64
	Speed    float64
	Proj     [6]float64 // fov,aspect,near,far or left,right,bottom,top,near,far.
	View     [4]float64 // normalized viewport rectangle.

	Col  Color // primary color.
	Col2 Color // debug fade end color.

	Tag   string // mesh type, camera type, sound path, or debug text.
	Prim  uint8  // debug primitive kind, see DebugKind.
	Mode  uint8  // debug render mode, see DebugMode.
	Flag  bool   // looped, visible, active, 3D: kind bound.
	Flag2 bool   // paused, for play commands.
	Index int    // listener index or count.
}
