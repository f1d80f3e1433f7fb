// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// audio.go holds the audio source state map and listener state.
// The engine never mixes audio itself; it publishes the desired state
// each frame and the AudioMixer consumer realizes it.

import (
	"log/slog"
	"sync"

	"github.com/gazed/kadi/math/lin"
)

// MaxListeners bounds the listener array published to the mixer.
const MaxListeners = 8

// Closed intervals applied on write for audio scalar fields.
const (
	MinVolume, MaxVolume   = 0.0, 1.0
	MinBalance, MaxBalance = -1.0, 1.0
	MinSpeed, MaxSpeed     = 0.1, 10.0
)

// Sound is one audio source record. At most one record exists per
// sound id; re-creating an existing id updates path and state rather
// than duplicating.
type Sound struct {
	Path     string
	Position lin.V3 // used by 3D sounds.
	Volume   float64
	Balance  float64
	Speed    float64
	Is3D     bool
	IsPlaying bool
	IsLooped  bool
	IsLoaded  bool
	IsActive  bool
	IsPaused  bool
}

// Listener is one audio listener pose.
type Listener struct {
	Position lin.V3
	Forward  lin.V3
	Up       lin.V3
}

// AudioTable maps sound ids to records, indexes them by path so a
// path is never loaded twice, and tracks listener poses.
type AudioTable struct {
	Recs      map[uint64]Sound
	ByPath    map[string]uint64
	Listeners []Listener
}

// cloneAudioTable deep copies the table.
func cloneAudioTable(src AudioTable) AudioTable {
	dst := AudioTable{
		Recs:      make(map[uint64]Sound, len(src.Recs)),
		ByPath:    make(map[string]uint64, len(src.ByPath)),
		Listeners: make([]Listener, len(src.Listeners)),
	}
	for id, rec := range src.Recs {
		dst.Recs[id] = rec
	}
	for path, id := range src.ByPath {
		dst.ByPath[path] = id
	}
	copy(dst.Listeners, src.Listeners)
	return dst
}

// sounds
// =============================================================================

// sounds is the audio component manager.
type sounds struct {
	buf   *StateBuffer[AudioTable]
	ids   *idSource
	calls *callbacks

	// reserved pairs paths with ids ahead of command processing so a
	// direct createOrGetSound can return its id synchronously while
	// async loads of the same path still land on the same record.
	mu       sync.Mutex
	reserved map[string]uint64
}

// newSounds is called once by the engine on startup.
func newSounds() *sounds {
	return &sounds{
		buf:      NewStateBuffer(AudioTable{Recs: map[uint64]Sound{}, ByPath: map[string]uint64{}}, cloneAudioTable, nil),
		ids:      &idSource{},
		calls:    newCallbacks(),
		reserved: map[string]uint64{},
	}
}

// reserve returns the id bound to the path, allocating one on first
// sight. Safe to call from the script worker.
func (ss *sounds) reserve(path string) (uint64, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if id, ok := ss.reserved[path]; ok {
		return id, nil
	}
	id := ss.ids.create()
	if id == NoID {
		return NoID, errIDExhausted
	}
	ss.reserved[path] = id
	return id, nil
}

// create inserts or refreshes the sound for the command path.
// A preassigned command id (direct createOrGetSound) is honored;
// otherwise the path index decides, so async loads and direct creates
// of the same path share one record rather than duplicating.
func (ss *sounds) create(c *Command) uint64 {
	tab := ss.buf.Back()
	id := c.ID
	if id == UnsetID {
		var err error
		if id, err = ss.reserve(c.Tag); err != nil {
			return NoID
		}
	}
	rec := tab.Recs[id] // zero record when new.
	rec.Path = c.Tag
	rec.Is3D = c.Flag
	rec.IsLoaded = true
	rec.IsActive = true
	if !c.Has.Has(HasVolume) && rec.Volume == 0 {
		rec.Volume = MaxVolume
	} else if c.Has.Has(HasVolume) {
		rec.Volume = lin.Clamp(c.Volume, MinVolume, MaxVolume)
	}
	if rec.Speed == 0 {
		rec.Speed = 1
	}
	tab.Recs[id] = rec
	tab.ByPath[c.Tag] = id
	return id
}

// play starts playback with the command's volume, loop flag, and
// position. Unknown ids are logged and dropped.
func (ss *sounds) play(c *Command) {
	tab := ss.buf.Back()
	rec, ok := tab.Recs[c.ID]
	if !ok {
		slog.Warn("play for unknown sound", "id", c.ID)
		return
	}
	rec.IsPlaying = true
	if c.Has.Has(HasVolume) {
		rec.Volume = lin.Clamp(c.Volume, MinVolume, MaxVolume)
	}
	if c.Has.Has(HasBalance) {
		rec.Balance = lin.Clamp(c.Balance, MinBalance, MaxBalance)
	}
	if c.Has.Has(HasSpeed) {
		rec.Speed = lin.Clamp(c.Speed, MinSpeed, MaxSpeed)
	}
	if c.Has.Has(HasLooped) {
		rec.IsLooped = c.Flag
	}
	if c.Has.Has(HasPaused) {
		rec.IsPaused = c.Flag2
	}
	if c.Has.Has(HasPosition) {
		rec.Position = c.Pos
		rec.Is3D = true
	}
	tab.Recs[c.ID] = rec
}

// stop halts playback.
func (ss *sounds) stop(c *Command) {
	tab := ss.buf.Back()
	rec, ok := tab.Recs[c.ID]
	if !ok {
		slog.Warn("stop for unknown sound", "id", c.ID)
		return
	}
	rec.IsPlaying = false
	rec.IsPaused = false
	tab.Recs[c.ID] = rec
}

// setVolume clamps and writes the volume.
func (ss *sounds) setVolume(c *Command) {
	ss.setScalar(c, func(rec *Sound) { rec.Volume = lin.Clamp(c.Volume, MinVolume, MaxVolume) })
}

// setBalance clamps and writes the stereo balance.
func (ss *sounds) setBalance(c *Command) {
	ss.setScalar(c, func(rec *Sound) { rec.Balance = lin.Clamp(c.Balance, MinBalance, MaxBalance) })
}

// setSpeed clamps and writes the playback speed.
func (ss *sounds) setSpeed(c *Command) {
	ss.setScalar(c, func(rec *Sound) { rec.Speed = lin.Clamp(c.Speed, MinSpeed, MaxSpeed) })
}

// move updates the 3D position of the sound.
func (ss *sounds) move(c *Command) {
	ss.setScalar(c, func(rec *Sound) { rec.Position, rec.Is3D = c.Pos, true })
}

// setScalar applies one field mutation with the shared lookup check.
func (ss *sounds) setScalar(c *Command, set func(*Sound)) {
	tab := ss.buf.Back()
	rec, ok := tab.Recs[c.ID]
	if !ok {
		slog.Warn("update for unknown sound", "id", c.ID)
		return
	}
	set(&rec)
	tab.Recs[c.ID] = rec
}

// setListeners resizes the listener array, capped at MaxListeners.
// Existing poses inside the new bound are preserved.
func (ss *sounds) setListeners(c *Command) {
	n := c.Index
	if n < 0 {
		n = 0
	}
	if n > MaxListeners {
		n = MaxListeners
	}
	tab := ss.buf.Back()
	ls := make([]Listener, n)
	copy(ls, tab.Listeners)
	tab.Listeners = ls
}

// updateListener writes one listener pose. Out of range indices are
// logged and dropped.
func (ss *sounds) updateListener(c *Command) {
	tab := ss.buf.Back()
	if c.Index < 0 || c.Index >= len(tab.Listeners) {
		slog.Warn("update for unknown listener", "index", c.Index)
		return
	}
	tab.Listeners[c.Index] = Listener{Position: c.Pos, Forward: c.Aux, Up: c.Up}
}
