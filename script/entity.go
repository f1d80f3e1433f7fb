// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package script

// entity.go registers the entity module: scripted mesh creation and
// mutation.

import (
	lua "github.com/yuin/gopher-lua"
)

// meshTypes recognized by the renderer.
var meshTypes = map[string]bool{
	"cube":   true,
	"sphere": true,
	"grid":   true,
}

// entityModule builds the entity method table.
//
//	entity.createMesh(type, x,y,z, radius, r,g,b,a, callback)
//	entity.updatePosition(id, x,y,z)
//	entity.moveBy(id, dx,dy,dz)
//	entity.updateOrientation(id, yaw,pitch,roll)
//	entity.updateColor(id, r,g,b,a)
//	entity.destroy(id)
func (w *Worker) entityModule() *lua.LTable {
	mod := w.st.NewTable()
	reg := func(name string, fn lua.LGFunction) {
		w.st.SetField(mod, name, w.st.NewFunction(fn))
	}

	reg("createMesh", func(ls *lua.LState) int {
		meshType := ls.CheckString(1)
		if !meshTypes[meshType] {
			return fail(ls, "unknown mesh type: "+meshType)
		}
		pos, vok := checkVec(ls, 2)
		if !vok {
			return fail(ls, "position out of world bounds")
		}
		radius := float64(ls.CheckNumber(5))
		if !inRange(radius, 0, maxCoord) {
			return fail(ls, "radius out of range")
		}
		col := checkColor(ls, 6)
		cb := ls.OptFunction(10, nil)
		if err := w.eng.Entities().CreateMesh(meshType, pos, radius, col, w.callback(cb)); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("updatePosition", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad entity id")
		}
		pos, vok := checkVec(ls, 2)
		if !vok {
			return fail(ls, "position out of world bounds")
		}
		if err := w.eng.Entities().UpdatePosition(id, pos); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("moveBy", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad entity id")
		}
		delta, vok := checkVec(ls, 2)
		if !vok {
			return fail(ls, "delta out of world bounds")
		}
		if err := w.eng.Entities().MoveBy(id, delta); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("updateOrientation", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad entity id")
		}
		orient, vok := checkVec(ls, 2)
		if !vok {
			return fail(ls, "orientation not finite")
		}
		if err := w.eng.Entities().UpdateOrientation(id, orient); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("updateColor", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad entity id")
		}
		col := checkColor(ls, 2)
		if err := w.eng.Entities().UpdateColor(id, col); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("destroy", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad entity id")
		}
		if err := w.eng.Entities().Destroy(id); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})
	return mod
}
