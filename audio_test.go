// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

import (
	"testing"

	"github.com/gazed/kadi/math/lin"
)

// Test that creating the same path twice yields one record under one
// id, with path and state refreshed rather than duplicated.
func TestSoundCreateOrGet(t *testing.T) {
	eng := newTestEngine(t)
	a, err := eng.Audio().CreateOrGet("Data/sfx/boom.wav", false)
	if err != nil {
		t.Fatalf("create refused: %s", err)
	}
	b, err := eng.Audio().CreateOrGet("Data/sfx/boom.wav", true)
	if err != nil {
		t.Fatalf("repeat create refused: %s", err)
	}
	if a != b {
		t.Fatalf("same path produced two ids: %d %d", a, b)
	}
	eng.Step(timeStepSecs)

	front := eng.snds.buf.Front()
	if len(front.Recs) != 1 {
		t.Fatalf("expected 1 sound record got %d", len(front.Recs))
	}
	rec := front.Recs[a]
	if !rec.Is3D || !rec.IsLoaded || !rec.IsActive {
		t.Errorf("repeat create did not refresh state: %+v", rec)
	}
	if front.ByPath["Data/sfx/boom.wav"] != a {
		t.Errorf("path index missing")
	}
}

// Test that an async load of an already created path lands on the
// same record.
func TestSoundAsyncSharesRecord(t *testing.T) {
	eng := newTestEngine(t)
	direct, _ := eng.Audio().CreateOrGet("Data/music/theme.ogg", false)
	var async uint64
	eng.Audio().LoadAsync("Data/music/theme.ogg", false, func(id uint64, _ error) { async = id })
	eng.Step(timeStepSecs)
	if async != direct {
		t.Errorf("async load duplicated the record: %d vs %d", async, direct)
	}
	if got := len(eng.snds.buf.Front().Recs); got != 1 {
		t.Errorf("expected 1 record got %d", got)
	}
}

// Test scalar clamps: values are clamped on write, never on read.
func TestSoundClamps(t *testing.T) {
	eng := newTestEngine(t)
	id, _ := eng.Audio().CreateOrGet("Data/sfx/hit.wav", false)
	eng.Audio().SetVolume(id, 4.0)
	eng.Audio().SetBalance(id, -7.0)
	eng.Audio().SetSpeed(id, 100.0)
	eng.Step(timeStepSecs)

	rec := eng.snds.buf.Front().Recs[id]
	if rec.Volume != MaxVolume {
		t.Errorf("volume not clamped: %f", rec.Volume)
	}
	if rec.Balance != MinBalance {
		t.Errorf("balance not clamped: %f", rec.Balance)
	}
	if rec.Speed != MaxSpeed {
		t.Errorf("speed not clamped: %f", rec.Speed)
	}
}

// Test the play and stop lifecycle.
func TestSoundPlayStop(t *testing.T) {
	eng := newTestEngine(t)
	id, _ := eng.Audio().CreateOrGet("Data/sfx/hit.wav", false)
	eng.Audio().Play(id, HasVolume|HasLooped|HasPosition, 0.5, 0, 0, true, false, lin.V3{X: 3})
	eng.Step(timeStepSecs)

	rec := eng.snds.buf.Front().Recs[id]
	if !rec.IsPlaying || !rec.IsLooped || rec.Volume != 0.5 || !rec.Is3D {
		t.Errorf("play state wrong: %+v", rec)
	}
	if rec.Position != (lin.V3{X: 3}) {
		t.Errorf("3D position not applied")
	}

	eng.Audio().Stop(id)
	eng.Step(timeStepSecs)
	if eng.snds.buf.Front().Recs[id].IsPlaying {
		t.Errorf("stop did not halt playback")
	}
}

// Test listener count bounds and pose writes.
func TestListeners(t *testing.T) {
	eng := newTestEngine(t)
	eng.Audio().SetListeners(2)
	eng.Audio().UpdateListener(1, lin.V3{X: 1}, lin.V3{X: 1}, lin.V3{Z: 1})
	eng.Audio().UpdateListener(5, lin.V3{}, lin.V3{}, lin.V3{}) // dropped.
	eng.Step(timeStepSecs)

	front := eng.snds.buf.Front()
	if len(front.Listeners) != 2 {
		t.Fatalf("expected 2 listeners got %d", len(front.Listeners))
	}
	if front.Listeners[1].Up != (lin.V3{Z: 1}) {
		t.Errorf("listener pose not applied")
	}

	// shrinking keeps the surviving poses.
	eng.Audio().SetListeners(1)
	eng.Step(timeStepSecs)
	if got := len(eng.snds.buf.Front().Listeners); got != 1 {
		t.Errorf("expected 1 listener got %d", got)
	}

	// counts above the bound are capped.
	eng.Audio().SetListeners(100)
	eng.Step(timeStepSecs)
	if got := len(eng.snds.buf.Front().Listeners); got != MaxListeners {
		t.Errorf("expected cap %d got %d", MaxListeners, got)
	}
}
