// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package script

// audio.go registers the audio module. Sound paths are validated
// before anything is queued: non-empty, bounded length, rooted under
// the content prefix, and a recognized audio suffix.

import (
	"path"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/gazed/kadi"
	"github.com/gazed/kadi/math/lin"
)

// audioSuffixes are the recognized audio file types.
var audioSuffixes = map[string]bool{
	".wav":  true,
	".ogg":  true,
	".mp3":  true,
	".flac": true,
}

// checkSoundPath validates a scripted sound path against the engine
// content prefix. Returns the cleaned path or a rejection message.
func checkSoundPath(p, contentDir string) (string, string) {
	if p == "" {
		return "", "sound path is empty"
	}
	if len(p) > maxPathBytes {
		return "", "sound path too long"
	}
	if strings.Contains(p, "\\") {
		return "", "sound path must use forward slashes"
	}
	clean := path.Clean(p)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", "sound path escapes the content directory"
	}
	if !strings.HasPrefix(clean, contentDir+"/") {
		return "", "sound path must live under " + contentDir + "/"
	}
	if !audioSuffixes[strings.ToLower(path.Ext(clean))] {
		return "", "unrecognized audio file type"
	}
	return clean, ""
}

// audioModule builds the audio method table.
//
//	audio.loadSoundAsync(path, callback)
//	audio.createOrGetSound(path, "2D"|"3D")
//	audio.playSound(id, volume, looped [, {x,y,z}])
//	audio.startSound(id [, looped, volume, balance, speed, paused])
//	audio.startSoundAt(id, x,y,z [, looped, volume, balance, speed])
//	audio.stopSound(id)
//	audio.setVolume(id, v)
//	audio.setSoundBalance(id, b)
//	audio.setSoundSpeed(id, s)
//	audio.update3DPosition(id, {x,y,z})
//	audio.setNumListeners(n)
//	audio.updateListener(i, px,py,pz, fx,fy,fz, ux,uy,uz)
func (w *Worker) audioModule() *lua.LTable {
	mod := w.st.NewTable()
	reg := func(name string, fn lua.LGFunction) {
		w.st.SetField(mod, name, w.st.NewFunction(fn))
	}
	contentDir := w.eng.Config().ContentDir

	reg("loadSoundAsync", func(ls *lua.LState) int {
		clean, msg := checkSoundPath(ls.CheckString(1), contentDir)
		if msg != "" {
			return fail(ls, msg)
		}
		cb := ls.CheckFunction(2)
		if err := w.eng.Audio().LoadAsync(clean, true, w.callback(cb)); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("createOrGetSound", func(ls *lua.LState) int {
		clean, msg := checkSoundPath(ls.CheckString(1), contentDir)
		if msg != "" {
			return fail(ls, msg)
		}
		dim := ls.CheckString(2)
		if dim != "2D" && dim != "3D" {
			return fail(ls, `sound dimension must be "2D" or "3D"`)
		}
		id, err := w.eng.Audio().CreateOrGet(clean, dim == "3D")
		if err != nil {
			return failErr(ls, err)
		}
		return ok(ls, lua.LNumber(id))
	})

	reg("playSound", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad sound id")
		}
		volume := float64(ls.CheckNumber(2))
		if !inRange(volume, kadi.MinVolume, kadi.MaxVolume) {
			return fail(ls, "volume outside 0:1")
		}
		looped := ls.OptBool(3, false)
		has := kadi.HasVolume | kadi.HasLooped
		var pos lin.V3
		if at := ls.OptTable(4, nil); at != nil {
			pos = lin.V3{X: tableNum(at, "x"), Y: tableNum(at, "y"), Z: tableNum(at, "z")}
			if !vecOK(pos) {
				return fail(ls, "position out of world bounds")
			}
			has |= kadi.HasPosition
		}
		if err := w.eng.Audio().Play(id, has, volume, 0, 0, looped, false, pos); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("startSound", func(ls *lua.LState) int {
		return w.startSound(ls, false)
	})

	reg("startSoundAt", func(ls *lua.LState) int {
		return w.startSound(ls, true)
	})

	reg("stopSound", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad sound id")
		}
		if err := w.eng.Audio().Stop(id); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("setVolume", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad sound id")
		}
		v := float64(ls.CheckNumber(2))
		if !inRange(v, kadi.MinVolume, kadi.MaxVolume) {
			return fail(ls, "volume outside 0:1")
		}
		if err := w.eng.Audio().SetVolume(id, v); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("setSoundBalance", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad sound id")
		}
		b := float64(ls.CheckNumber(2))
		if !inRange(b, kadi.MinBalance, kadi.MaxBalance) {
			return fail(ls, "balance outside -1:1")
		}
		if err := w.eng.Audio().SetBalance(id, b); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("setSoundSpeed", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad sound id")
		}
		s := float64(ls.CheckNumber(2))
		if !inRange(s, kadi.MinSpeed, kadi.MaxSpeed) {
			return fail(ls, "speed outside 0.1:10")
		}
		if err := w.eng.Audio().SetSpeed(id, s); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("update3DPosition", func(ls *lua.LState) int {
		id, idok := checkID(ls, 1)
		if !idok {
			return fail(ls, "bad sound id")
		}
		at := ls.CheckTable(2)
		pos := lin.V3{X: tableNum(at, "x"), Y: tableNum(at, "y"), Z: tableNum(at, "z")}
		if !vecOK(pos) {
			return fail(ls, "position out of world bounds")
		}
		if err := w.eng.Audio().Move3D(id, pos); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("setNumListeners", func(ls *lua.LState) int {
		n := int(ls.CheckNumber(1))
		if n < 0 || n > kadi.MaxListeners {
			return fail(ls, "listener count outside bounds")
		}
		if err := w.eng.Audio().SetListeners(n); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})

	reg("updateListener", func(ls *lua.LState) int {
		i := int(ls.CheckNumber(1))
		if i < 0 || i >= kadi.MaxListeners {
			return fail(ls, "listener index outside bounds")
		}
		pos, pok := checkVec(ls, 2)
		fwd, fok := checkVec(ls, 5)
		up, uok := checkVec(ls, 8)
		if !pok || !fok || !uok {
			return fail(ls, "listener pose out of world bounds")
		}
		if err := w.eng.Audio().UpdateListener(i, pos, fwd, up); err != nil {
			return failErr(ls, err)
		}
		return okTrue(ls)
	})
	return mod
}

// startSound handles the optioned start variants. When at is true the
// stack carries a position triple after the id.
func (w *Worker) startSound(ls *lua.LState, at bool) int {
	id, idok := checkID(ls, 1)
	if !idok {
		return fail(ls, "bad sound id")
	}
	has := kadi.Fields(0)
	var pos lin.V3
	next := 2
	if at {
		var vok bool
		if pos, vok = checkVec(ls, 2); !vok {
			return fail(ls, "position out of world bounds")
		}
		has |= kadi.HasPosition
		next = 5
	}
	looped := false
	if ls.GetTop() >= next {
		looped = ls.OptBool(next, false)
		has |= kadi.HasLooped
	}
	volume := 1.0
	if ls.GetTop() >= next+1 {
		volume = float64(ls.OptNumber(next+1, 1))
		if !inRange(volume, kadi.MinVolume, kadi.MaxVolume) {
			return fail(ls, "volume outside 0:1")
		}
		has |= kadi.HasVolume
	}
	balance := 0.0
	if ls.GetTop() >= next+2 {
		balance = float64(ls.OptNumber(next+2, 0))
		if !inRange(balance, kadi.MinBalance, kadi.MaxBalance) {
			return fail(ls, "balance outside -1:1")
		}
		has |= kadi.HasBalance
	}
	speed := 1.0
	if ls.GetTop() >= next+3 {
		speed = float64(ls.OptNumber(next+3, 1))
		if !inRange(speed, kadi.MinSpeed, kadi.MaxSpeed) {
			return fail(ls, "speed outside 0.1:10")
		}
		has |= kadi.HasSpeed
	}
	paused := false
	if !at && ls.GetTop() >= next+4 {
		paused = ls.OptBool(next+4, false)
		has |= kadi.HasPaused
	}
	if err := w.eng.Audio().Play(id, has, volume, balance, speed, looped, paused, pos); err != nil {
		return failErr(ls, err)
	}
	return okTrue(ls)
}
