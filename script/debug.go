// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package script

// debug.go registers the debug module: additive visualization
// primitives plus the visibility and camera binding controls.
// Primitive methods share the (geometry..., duration, r,g,b,a
// [, mode]) argument shape.

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/gazed/kadi"
	"github.com/gazed/kadi/math/lin"
)

// debugModes maps the scripted mode names.
var debugModes = map[string]kadi.DebugMode{
	"always":    kadi.DebugAlways,
	"use-depth": kadi.DebugUseDepth,
	"x-ray":     kadi.DebugXRay,
}

// debugModule builds the debug method table.
//
//	debug.setVisible() / debug.setHidden() / debug.clear()
//	debug.renderWorld(camId) / debug.renderScreen(camId)
//	debug.addWorldPoint(x,y,z, radius, duration, r,g,b,a [, mode])
//	debug.addWorldLine(x1,y1,z1, x2,y2,z2, radius, duration, r,g,b,a [, mode])
//	debug.addWorldCylinder(...) / addWorldWireSphere(...) / addWorldArrow(...)
//	debug.addWorldText(text, x,y,z, height, duration, r,g,b,a [, mode])
//	debug.addWorldBillboardText(text, x,y,z, height, duration, r,g,b,a)
//	debug.addWorldBasis(x,y,z, radius, duration)
//	debug.addScreenText(text, x,y, height, duration, r,g,b,a)
//	debug.addMessage(text, duration, r,g,b,a)
func (w *Worker) debugModule() *lua.LTable {
	mod := w.st.NewTable()
	reg := func(name string, fn lua.LGFunction) {
		w.st.SetField(mod, name, w.st.NewFunction(fn))
	}

	reg("setVisible", func(ls *lua.LState) int {
		if err := w.eng.Debug().Show(true); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})
	reg("setHidden", func(ls *lua.LState) int {
		if err := w.eng.Debug().Show(false); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})
	reg("clear", func(ls *lua.LState) int {
		if err := w.eng.Debug().Clear(); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})
	reg("renderWorld", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad camera id")
		}
		if err := w.eng.Debug().RenderWorld(id); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})
	reg("renderScreen", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad camera id")
		}
		if err := w.eng.Debug().RenderScreen(id); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	// point shaped: one position plus a radius.
	point := func(kind kadi.DebugKind) lua.LGFunction {
		return func(ls *lua.LState) int {
			pos, vok := checkVec(ls, 1)
			if !vok {
				return fail(ls, "position out of world bounds")
			}
			radius := float64(ls.CheckNumber(4))
			duration := float64(ls.CheckNumber(5))
			col := checkColor(ls, 6)
			mode, mok := optMode(ls, 10)
			if !mok {
				return fail(ls, "unknown debug mode")
			}
			return w.addPrim(ls, kadi.DebugPrim{
				Kind: kind, A: pos, Radius: radius,
				Duration: duration, Start: col, End: col, Mode: mode,
			})
		}
	}
	reg("addWorldPoint", point(kadi.DebugPoint))
	reg("addWorldWireSphere", point(kadi.DebugSphere))
	reg("addWorldBasis", func(ls *lua.LState) int {
		pos, vok := checkVec(ls, 1)
		if !vok {
			return fail(ls, "position out of world bounds")
		}
		radius := float64(ls.CheckNumber(4))
		duration := float64(ls.CheckNumber(5))
		return w.addPrim(ls, kadi.DebugPrim{
			Kind: kadi.DebugBasis, A: pos, Radius: radius,
			Duration: duration, Start: kadi.White, End: kadi.White,
		})
	})

	// segment shaped: two positions plus a radius.
	segment := func(kind kadi.DebugKind) lua.LGFunction {
		return func(ls *lua.LState) int {
			a, aok := checkVec(ls, 1)
			b, bok := checkVec(ls, 4)
			if !aok || !bok {
				return fail(ls, "endpoint out of world bounds")
			}
			radius := float64(ls.CheckNumber(7))
			duration := float64(ls.CheckNumber(8))
			col := checkColor(ls, 9)
			mode, mok := optMode(ls, 13)
			if !mok {
				return fail(ls, "unknown debug mode")
			}
			return w.addPrim(ls, kadi.DebugPrim{
				Kind: kind, A: a, B: b, Radius: radius,
				Duration: duration, Start: col, End: col, Mode: mode,
			})
		}
	}
	reg("addWorldLine", segment(kadi.DebugLine))
	reg("addWorldCylinder", segment(kadi.DebugCylinder))
	reg("addWorldArrow", segment(kadi.DebugArrow))

	// text shaped: a string, a position, and a glyph height.
	text := func(kind kadi.DebugKind, world bool) lua.LGFunction {
		return func(ls *lua.LState) int {
			msg := ls.CheckString(1)
			var pos lin.V3
			next := 2
			if world {
				var vok bool
				if pos, vok = checkVec(ls, 2); !vok {
					return fail(ls, "position out of world bounds")
				}
				next = 5
			} else {
				pos.X = float64(ls.CheckNumber(2))
				pos.Y = float64(ls.CheckNumber(3))
				next = 4
			}
			height := float64(ls.CheckNumber(next))
			duration := float64(ls.CheckNumber(next + 1))
			col := checkColor(ls, next+2)
			mode, mok := optMode(ls, next+6)
			if !mok {
				return fail(ls, "unknown debug mode")
			}
			return w.addPrim(ls, kadi.DebugPrim{
				Kind: kind, A: pos, Radius: height, Text: msg,
				Duration: duration, Start: col, End: col, Mode: mode,
			})
		}
	}
	reg("addWorldText", text(kadi.DebugText, true))
	reg("addWorldBillboardText", text(kadi.DebugBillboard, true))
	reg("addScreenText", text(kadi.DebugScreenText, false))

	reg("addMessage", func(ls *lua.LState) int {
		msg := ls.CheckString(1)
		duration := float64(ls.CheckNumber(2))
		col := checkColor(ls, 3)
		return w.addPrim(ls, kadi.DebugPrim{
			Kind: kadi.DebugMessage, Text: msg,
			Duration: duration, Start: col, End: col,
		})
	})
	return mod
}

// addPrim submits one primitive, translating backpressure to an err
// result.
func (w *Worker) addPrim(ls *lua.LState, p kadi.DebugPrim) int {
	if err := w.eng.Debug().Add(p); err != nil {
		return failErr(ls, err)
	}
	return okTrue(ls)
}

// optMode reads the optional trailing render mode argument.
func optMode(ls *lua.LState, i int) (kadi.DebugMode, bool) {
	if ls.GetTop() < i {
		return kadi.DebugAlways, true
	}
	mode, known := debugModes[ls.CheckString(i)]
	return mode, known
}
