// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package kadi provides the core of a scriptable real-time engine:
// a script worker drives rendering, audio, and debug visualization on
// the main thread through typed command queues and double-buffered
// state maps. The package wraps the machinery shared by every
// subsystem:
//   - typed command queues carrying mutation intents from the
//     script worker to the main thread.
//   - double-buffered state containers published once per frame.
//   - callback registries pairing async create requests with the
//     identifiers assigned on the main thread.
//   - a frame loop that drains, swaps, consumes, and dispatches
//     in a fixed order.
//   - a broker agent (package broker) whose tool invocations feed
//     the same command pathway.
//
// Refer to the package subdirectories:
//   - math/lin for the projection math used by cameras.
//   - script for the Lua facing method registries.
//   - broker for the KADI websocket agent.
package kadi

// Design note: Concurrency based on "Share memory by communicating".
// The script worker never touches engine state directly. It describes
// intent as commands; the main thread owns all state and all device
// handles.

// World coordinate conventions: +X forward, +Y left, +Z up,
// right-handed. Angles are degrees. Colors are 8 bits per channel.

const (
	// UnsetID marks an id field with no owner.
	UnsetID uint64 = 0

	// NoID is the reserved all-ones sentinel meaning "no such object".
	// It is never issued as a live id.
	NoID uint64 = ^uint64(0)

	// MaxID caps live ids to the range scripts can represent losslessly
	// in an IEEE-754 double.
	MaxID uint64 = 1<<53 - 1
)

// Color is a packed 8-bit RGBA color. Records hold packed colors and
// never expand them to floats.
type Color struct {
	R, G, B, A uint8
}

// White is the default record color.
var White = Color{255, 255, 255, 255}
