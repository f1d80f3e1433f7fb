// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package script

// result.go builds the {ok, value} / {err, message} result tables
// every script facing method returns. Errors are results, never
// raises: a bad argument must not kill the main thread.

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/gazed/kadi"
	"github.com/gazed/kadi/math/lin"
)

// maxCoord bounds world coordinates accepted from scripts.
const maxCoord = 10000.0

// maxPathBytes bounds sound path lengths.
const maxPathBytes = 260

// ok pushes an {ok=value} result table.
func ok(ls *lua.LState, v lua.LValue) int {
	t := ls.NewTable()
	t.RawSetString("ok", v)
	ls.Push(t)
	return 1
}

// okTrue pushes the common {ok=true} result.
func okTrue(ls *lua.LState) int { return ok(ls, lua.LTrue) }

// fail pushes an {err=message} result table.
func fail(ls *lua.LState, msg string) int {
	t := ls.NewTable()
	t.RawSetString("err", lua.LString(msg))
	ls.Push(t)
	return 1
}

// failErr pushes an err result from a Go error.
func failErr(ls *lua.LState, err error) int { return fail(ls, err.Error()) }

// validation helpers
// =============================================================================

// checkVec extracts a world coordinate triple from stack positions
// i, i+1, i+2. Non-finite or out of bound components are rejected.
func checkVec(ls *lua.LState, i int) (lin.V3, bool) {
	v := lin.V3{
		X: float64(ls.CheckNumber(i)),
		Y: float64(ls.CheckNumber(i + 1)),
		Z: float64(ls.CheckNumber(i + 2)),
	}
	return v, vecOK(v)
}

// vecOK validates a world coordinate triple.
func vecOK(v lin.V3) bool {
	if !v.Finite() {
		return false
	}
	return math.Abs(v.X) <= maxCoord && math.Abs(v.Y) <= maxCoord && math.Abs(v.Z) <= maxCoord
}

// checkColor extracts an r,g,b,a quad from stack positions i..i+3,
// clamping each channel to 0:255 on write.
func checkColor(ls *lua.LState, i int) kadi.Color {
	return kadi.Color{
		R: channel(ls.CheckNumber(i)),
		G: channel(ls.CheckNumber(i + 1)),
		B: channel(ls.CheckNumber(i + 2)),
		A: channel(ls.CheckNumber(i + 3)),
	}
}

// channel clamps one color channel.
func channel(n lua.LNumber) uint8 {
	switch {
	case n < 0:
		return 0
	case n > 255:
		return 255
	}
	return uint8(n)
}

// checkID extracts a record id. Script numbers are doubles, so ids
// survive only inside the safe integer range; anything else, negative,
// or fractional is rejected.
func checkID(ls *lua.LState, i int) (uint64, bool) {
	n := float64(ls.CheckNumber(i))
	if n < 0 || n != math.Trunc(n) || n > float64(kadi.MaxID) {
		return 0, false
	}
	return uint64(n), true
}

// inRange reports x inside the closed interval lo:hi. NaN fails.
func inRange(x, lo, hi float64) bool {
	return !math.IsNaN(x) && x >= lo && x <= hi
}
