// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import (
	"math"
	"testing"
)

func TestDegreesRadians(t *testing.T) {
	if !Aeq(Rad(180), math.Pi) {
		t.Errorf("expected pi got %f", Rad(180))
	}
	if !Aeq(Deg(math.Pi/2), 90) {
		t.Errorf("expected 90 got %f", Deg(math.Pi/2))
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 1) != 1 || Clamp(-5, 0, 1) != 0 || Clamp(0.5, 0, 1) != 0.5 {
		t.Errorf("clamp bounds wrong")
	}
}

func TestVectorOps(t *testing.T) {
	a := V3{X: 1, Y: 2, Z: 3}
	b := V3{X: 4, Y: 5, Z: 6}
	if a.Add(b) != (V3{X: 5, Y: 7, Z: 9}) {
		t.Errorf("add wrong")
	}
	if b.Sub(a) != (V3{X: 3, Y: 3, Z: 3}) {
		t.Errorf("sub wrong")
	}
	if !Aeq(a.Dot(b), 32) {
		t.Errorf("dot wrong: %f", a.Dot(b))
	}
	x := V3{X: 1}
	y := V3{Y: 1}
	if x.Cross(y) != (V3{Z: 1}) {
		t.Errorf("cross wrong: %+v", x.Cross(y))
	}
}

func TestUnit(t *testing.T) {
	v := V3{X: 3, Y: 4}.Unit()
	if !Aeq(v.Len(), 1) {
		t.Errorf("unit length wrong: %f", v.Len())
	}
	zero := V3{}.Unit()
	if zero != (V3{}) {
		t.Errorf("zero vector must survive Unit")
	}
}

func TestFinite(t *testing.T) {
	if !(V3{X: 1}).Finite() {
		t.Errorf("normal vector read as non-finite")
	}
	if (V3{X: math.NaN()}).Finite() || (V3{Z: math.Inf(1)}).Finite() {
		t.Errorf("non-finite vector passed")
	}
}

// Test the perspective projection against hand calculated values.
func TestPerspectiveM4(t *testing.T) {
	m := NewM4().Persp(90, 1, 1, 10)
	f := 1 / math.Tan(Rad(90)*0.5) // 1 for a 90 degree fov.
	if !Aeq(m.Xx, f) || !Aeq(m.Yy, f) {
		t.Errorf("perspective scale wrong: %f %f", m.Xx, m.Yy)
	}
	if !Aeq(m.Zz, (10+1)/(1-10.0)) || !Aeq(m.Zw, -1) {
		t.Errorf("perspective depth wrong: %f %f", m.Zz, m.Zw)
	}
	if !Aeq(m.Wz, 2*10*1/(1-10.0)) {
		t.Errorf("perspective translation wrong: %f", m.Wz)
	}
}

// Test the orthographic projection maps the clip volume corners.
func TestOrthographicM4(t *testing.T) {
	m := NewM4().Ortho(0, 800, 0, 600, -1, 1)
	if !Aeq(m.Xx, 2/800.0) || !Aeq(m.Yy, 2/600.0) || !Aeq(m.Zz, -1) {
		t.Errorf("ortho scale wrong: %f %f %f", m.Xx, m.Yy, m.Zz)
	}
	if !Aeq(m.Wx, -1) || !Aeq(m.Wy, -1) || !Aeq(m.Ww, 1) {
		t.Errorf("ortho translation wrong: %f %f", m.Wx, m.Wy)
	}
}

func TestM4Identity(t *testing.T) {
	m := NewM4I()
	if !m.Aeq(&M4I) {
		t.Errorf("identity mismatch")
	}
}
