// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package script

// input.go registers the input module: read-only queries against the
// per-frame input snapshot. Queries submit nothing.

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/gazed/kadi"
)

// inputModule builds the input method table.
//
//	input.isKeyPressed(code)
//	input.wasKeyJustPressed(code)
//	input.wasKeyJustReleased(code)
//	input.getMousePosition()          -> {ok={x,y}}
//	input.getMouseDelta()             -> {ok={x,y}}
//	input.isMouseButtonPressed(b)
//	input.wasMouseButtonJustPressed(b)
//	input.isControllerConnected(i)
//	input.getControllerAxis(i, axis)
//	input.isControllerButtonPressed(i, btn)
func (w *Worker) inputModule() *lua.LTable {
	mod := w.st.NewTable()
	reg := func(name string, fn lua.LGFunction) {
		w.st.SetField(mod, name, w.st.NewFunction(fn))
	}
	in := w.eng.Input()

	reg("isKeyPressed", func(ls *lua.LState) int {
		return ok(ls, lua.LBool(in.KeyPressed(int(ls.CheckNumber(1)))))
	})
	reg("wasKeyJustPressed", func(ls *lua.LState) int {
		return ok(ls, lua.LBool(in.KeyJustPressed(int(ls.CheckNumber(1)))))
	})
	reg("wasKeyJustReleased", func(ls *lua.LState) int {
		return ok(ls, lua.LBool(in.KeyJustReleased(int(ls.CheckNumber(1)))))
	})
	reg("getMousePosition", func(ls *lua.LState) int {
		x, y := in.MousePosition()
		return ok(ls, pair(ls, x, y))
	})
	reg("getMouseDelta", func(ls *lua.LState) int {
		dx, dy := in.MouseDelta()
		return ok(ls, pair(ls, dx, dy))
	})
	reg("isMouseButtonPressed", func(ls *lua.LState) int {
		b := int(ls.CheckNumber(1))
		if b < 0 || b >= kadi.MaxMouseButtons {
			return fail(ls, "mouse button outside bounds")
		}
		return ok(ls, lua.LBool(in.MousePressed(b)))
	})
	reg("wasMouseButtonJustPressed", func(ls *lua.LState) int {
		b := int(ls.CheckNumber(1))
		if b < 0 || b >= kadi.MaxMouseButtons {
			return fail(ls, "mouse button outside bounds")
		}
		return ok(ls, lua.LBool(in.MouseJustPressed(b)))
	})
	reg("isControllerConnected", func(ls *lua.LState) int {
		i := int(ls.CheckNumber(1))
		if i < 0 || i >= kadi.MaxControllers {
			return fail(ls, "controller index outside bounds")
		}
		return ok(ls, lua.LBool(in.ControllerConnected(i)))
	})
	reg("getControllerAxis", func(ls *lua.LState) int {
		i, axis := int(ls.CheckNumber(1)), int(ls.CheckNumber(2))
		if i < 0 || i >= kadi.MaxControllers || axis < 0 || axis >= kadi.MaxControllerAxes {
			return fail(ls, "controller axis outside bounds")
		}
		return ok(ls, lua.LNumber(in.ControllerAxis(i, axis)))
	})
	reg("isControllerButtonPressed", func(ls *lua.LState) int {
		i, btn := int(ls.CheckNumber(1)), int(ls.CheckNumber(2))
		if i < 0 || i >= kadi.MaxControllers || btn < 0 || btn >= kadi.MaxControllerKeys {
			return fail(ls, "controller button outside bounds")
		}
		return ok(ls, lua.LBool(in.ControllerPressed(i, btn)))
	})
	return mod
}

// pair builds an {x, y} table.
func pair(ls *lua.LState, x, y int) *lua.LTable {
	t := ls.NewTable()
	t.RawSetString("x", lua.LNumber(x))
	t.RawSetString("y", lua.LNumber(y))
	return t
}
