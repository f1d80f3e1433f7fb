// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package lin provides the small amount of linear math needed by the
// kadi engine core: 3 element vectors, 4x4 matrices, and the projection
// transforms used to prepare camera data for rendering.
//
// Package lin is provided as part of the kadi engine.
package lin

// Design Notes:
//
// This is a CPU based 3D math library called from per-frame code.
// Some general guidelines apply throughout the library:
//   - avoid instantiating new structures
//   - use pointers to structures
//   - prefer multiply over divide

import "math"

// Various linear math constants.
const (
	DegRad float64 = math.Pi * 2 / 360.0 // X degrees * DegRad = Y radians
	RadDeg float64 = 360.0 / (math.Pi * 2)

	// Epsilon is used to distinguish when a float is close enough
	// to a number.
	Epsilon float64 = 0.000001
)

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * DegRad }

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * RadDeg }

// Aeq (~=) almost-equals returns true if the difference between a and b
// is so small that it doesn't matter.
func Aeq(a, b float64) bool { return math.Abs(a-b) < Epsilon }

// AeqZ (~=) almost-equals returns true if the difference between x
// and zero is so small that it doesn't matter.
func AeqZ(x float64) bool { return math.Abs(x) < Epsilon }

// Clamp returns x limited to the closed interval lo:hi.
func Clamp(x, lo, hi float64) float64 {
	switch {
	case x < lo:
		return lo
	case x > hi:
		return hi
	}
	return x
}
