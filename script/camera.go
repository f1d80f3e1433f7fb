// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package script

// camera.go registers the camera module. The joint update is the
// primary interface; the split position and orientation updates are
// legacy and can tear against each other within one frame.

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/gazed/kadi"
	"github.com/gazed/kadi/math/lin"
)

// cameraModule builds the camera method table.
//
//	camera.create({x,y,z, yaw,pitch,roll, type}, callback)
//	camera.update(id, x,y,z, yaw,pitch,roll)
//	camera.updatePosition(id, x,y,z)        -- legacy, racy
//	camera.updateOrientation(id, y,p,r)     -- legacy, racy
//	camera.moveBy(id, dx,dy,dz)
//	camera.lookAt(id, x,y,z)
//	camera.setActive(id, callback)
//	camera.setType(id, "world"|"screen", callback)
func (w *Worker) cameraModule() *lua.LTable {
	mod := w.st.NewTable()
	reg := func(name string, fn lua.LGFunction) {
		w.st.SetField(mod, name, w.st.NewFunction(fn))
	}

	reg("create", func(ls *lua.LState) int {
		pose := ls.CheckTable(1)
		cb := ls.OptFunction(2, nil)
		pos := lin.V3{
			X: tableNum(pose, "x"),
			Y: tableNum(pose, "y"),
			Z: tableNum(pose, "z"),
		}
		orient := lin.V3{
			X: tableNum(pose, "yaw"),
			Y: tableNum(pose, "pitch"),
			Z: tableNum(pose, "roll"),
		}
		if !vecOK(pos) || !orient.Finite() {
			return fail(ls, "camera pose out of world bounds")
		}
		kind := lua.LVAsString(pose.RawGetString("type"))
		if err := w.eng.Cameras().Create(pos, orient, kind, w.callback(cb)); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("update", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad camera id")
		}
		pos, vok := checkVec(ls, 2)
		if !vok {
			return fail(ls, "position out of world bounds")
		}
		orient, ook := checkVec(ls, 5)
		if !ook {
			return fail(ls, "orientation not finite")
		}
		if err := w.eng.Cameras().Update(id, pos, orient); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("updatePosition", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad camera id")
		}
		pos, vok := checkVec(ls, 2)
		if !vok {
			return fail(ls, "position out of world bounds")
		}
		if err := w.eng.Cameras().UpdatePosition(id, pos); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("updateOrientation", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad camera id")
		}
		orient, vok := checkVec(ls, 2)
		if !vok {
			return fail(ls, "orientation not finite")
		}
		if err := w.eng.Cameras().UpdateOrientation(id, orient); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("moveBy", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad camera id")
		}
		delta, vok := checkVec(ls, 2)
		if !vok {
			return fail(ls, "delta out of world bounds")
		}
		if err := w.eng.Cameras().MoveBy(id, delta); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("lookAt", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad camera id")
		}
		target, vok := checkVec(ls, 2)
		if !vok {
			return fail(ls, "target out of world bounds")
		}
		if err := w.eng.Cameras().LookAt(id, target); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("setActive", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad camera id")
		}
		cb := ls.OptFunction(2, nil)
		if err := w.eng.Cameras().SetActive(id, w.callback(cb)); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("setType", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad camera id")
		}
		kind := ls.CheckString(2)
		if kind != kadi.CamWorld && kind != kadi.CamScreen {
			return fail(ls, "unknown camera type: "+kind)
		}
		cb := ls.OptFunction(3, nil)
		if err := w.eng.Cameras().SetKind(id, kind, w.callback(cb)); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})
	return mod
}

// tableNum reads a numeric field, zero when absent.
func tableNum(t *lua.LTable, key string) float64 {
	if n, isNum := t.RawGetString(key).(lua.LNumber); isNum {
		return float64(n)
	}
	return 0
}
