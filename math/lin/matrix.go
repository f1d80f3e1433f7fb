// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// matrix.go holds the 4x4 matrix and the two projection transforms
// needed to turn camera records into ready-to-bind projections.

import "math"

// M4 is a 4x4 matrix where the matrix elements are individually
// addressable row-column values, ie: Yx is row Y column x.
type M4 struct {
	Xx, Xy, Xz, Xw float64 // row 1 : indices 0, 1, 2, 3   [00, 01, 02, 03]
	Yx, Yy, Yz, Yw float64 // row 2 : indices 4, 5, 6, 7   [10, 11, 12, 13]
	Zx, Zy, Zz, Zw float64 // row 3 : indices 8, 9, a, b   [20, 21, 22, 23]
	Wx, Wy, Wz, Ww float64 // row 4 : indices c, d, e, f   [30, 31, 32, 33]
}

// M4I is the 4x4 identity matrix.
var M4I = M4{
	Xx: 1,
	Yy: 1,
	Zz: 1,
	Ww: 1,
}

// Set (=) assigns all the values of matrix a to matrix m.
func (m *M4) Set(a M4) *M4 { *m = a; return m }

// Aeq (~=) almost-equals returns true if all the elements in matrix m
// are within Epsilon of the corresponding elements in matrix a.
func (m *M4) Aeq(a *M4) bool {
	return Aeq(m.Xx, a.Xx) && Aeq(m.Xy, a.Xy) && Aeq(m.Xz, a.Xz) && Aeq(m.Xw, a.Xw) &&
		Aeq(m.Yx, a.Yx) && Aeq(m.Yy, a.Yy) && Aeq(m.Yz, a.Yz) && Aeq(m.Yw, a.Yw) &&
		Aeq(m.Zx, a.Zx) && Aeq(m.Zy, a.Zy) && Aeq(m.Zz, a.Zz) && Aeq(m.Zw, a.Zw) &&
		Aeq(m.Wx, a.Wx) && Aeq(m.Wy, a.Wy) && Aeq(m.Wz, a.Wz) && Aeq(m.Ww, a.Ww)
}

// Ortho sets matrix m with projection values needed to transform a
// 3 dimensional model to a 2 dimensional plane. Orthographic projection
// ignores depth. The input arguments are:
//
//	left, right:  Vertical clipping planes.
//	bottom, top:  Horizontal clipping planes.
//	near, far  :  Depth clipping planes. The depth values are
//	              negative if the plane is to be behind the viewer.
func (m *M4) Ortho(left, right, bottom, top, near, far float64) *M4 {
	m.Xx = 2 / (right - left)
	m.Xy, m.Xz, m.Xw = 0, 0, 0
	m.Yx = 0
	m.Yy = 2 / (top - bottom)
	m.Yz, m.Yw = 0, 0
	m.Zx, m.Zy = 0, 0
	m.Zz = -2 / (far - near)
	m.Zw = 0
	m.Wx = -(right + left) / (right - left)
	m.Wy = -(top + bottom) / (top - bottom)
	m.Wz = -(far + near) / (far - near)
	m.Ww = 1
	return m
}

// Persp sets matrix m with projection values needed to transform a
// 3 dimensional model to a 2 dimensional plane. Objects that are further
// away from the viewer will appear smaller. The input arguments are:
//
//	fov        An amount in degrees indicating how much of the
//	           scene is visible.
//	aspect     The ratio of width to height of the view.
//	near, far  The depth clipping planes. The depth values are
//	           negative if the plane is to be behind the viewer.
func (m *M4) Persp(fov, aspect, near, far float64) *M4 {
	f := 1 / math.Tan(Rad(fov)*0.5)
	m.Xx = f / aspect
	m.Xy, m.Xz, m.Xw = 0, 0, 0
	m.Yx = 0
	m.Yy = f
	m.Yz, m.Yw = 0, 0
	m.Zx, m.Zy = 0, 0
	m.Zz = (far + near) / (near - far)
	m.Zw = -1
	m.Wx, m.Wy = 0, 0
	m.Wz = 2 * far * near / (near - far)
	m.Ww = 0
	return m
}

// methods above do not allocate memory.
// ============================================================================
// convenience functions for allocating matrices. Nothing else should allocate.

// NewM4 creates a new, all zero, 4x4 matrix.
func NewM4() *M4 { return &M4{} }

// NewM4I creates a new 4x4 identity matrix.
func NewM4I() *M4 { m := &M4{}; return m.Set(M4I) }
