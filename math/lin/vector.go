// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// vector.go holds the 3 element vector used for world positions,
// orientations in degrees, and direction calculations.

import "math"

// V3 is a 3 element vector. It is used for engine positions, deltas,
// and direction vectors. V3 is a value type so that records holding
// vectors copy cleanly on buffer swaps.
type V3 struct {
	X, Y, Z float64
}

// SetS (=) sets the vector to the given scalar values.
func (v *V3) SetS(x, y, z float64) *V3 {
	v.X, v.Y, v.Z = x, y, z
	return v
}

// Add (+) returns the sum of vectors v and b as a new value.
func (v V3) Add(b V3) V3 { return V3{v.X + b.X, v.Y + b.Y, v.Z + b.Z} }

// Sub (-) returns vector b subtracted from vector v as a new value.
func (v V3) Sub(b V3) V3 { return V3{v.X - b.X, v.Y - b.Y, v.Z - b.Z} }

// Scale (*) returns vector v scaled by scalar s as a new value.
func (v V3) Scale(s float64) V3 { return V3{v.X * s, v.Y * s, v.Z * s} }

// Dot (•) returns the dot product of vectors v and b.
// Wikipedia: "the cosine of the angle between two unit vectors".
func (v V3) Dot(b V3) float64 { return v.X*b.X + v.Y*b.Y + v.Z*b.Z }

// Len returns the length of vector v.
func (v V3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Unit returns vector v scaled to length 1. The zero vector
// is returned unchanged.
func (v V3) Unit() V3 {
	l := v.Len()
	if AeqZ(l) {
		return v
	}
	return v.Scale(1 / l)
}

// Cross (×) returns the cross product of vectors v and b.
// The result is a vector perpendicular to both inputs.
func (v V3) Cross(b V3) V3 {
	return V3{
		X: v.Y*b.Z - v.Z*b.Y,
		Y: v.Z*b.X - v.X*b.Z,
		Z: v.X*b.Y - v.Y*b.X,
	}
}

// Finite returns true if every component is a normal finite number.
// Used to reject positions that would poison later math.
func (v V3) Finite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
