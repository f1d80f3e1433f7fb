// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// callback.go pairs async create commands with the script side
// continuation to invoke once the main thread has assigned an id.
// Each subsystem API owns one registry.

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// Callback is the script side continuation for an async create.
// It receives the assigned record id, or NoID and an error when the
// originating command failed. Callbacks provided by the script package
// acquire the script runtime lock internally.
type Callback func(result uint64, err error)

// pending tracks one registered callback until dispatch.
type pending struct {
	fn     Callback
	ready  bool
	result uint64
	err    error
}

// callbacks generates callback ids and holds callbacks until their
// command has been processed and the next swap has made its effect
// visible. Callback ids are monotonic and never reused; zero is
// reserved.
type callbacks struct {
	mu   sync.Mutex
	next uint64
	tab  map[uint64]*pending
}

// newCallbacks is called once per subsystem API.
func newCallbacks() *callbacks {
	return &callbacks{tab: map[uint64]*pending{}}
}

// register stores fn and returns its new callback id.
func (cb *callbacks) register(fn Callback) uint64 {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.next++
	cb.tab[cb.next] = &pending{fn: fn}
	return cb.next
}

// complete marks the callback ready with the assigned id.
// Called by the command processor when a create finishes.
func (cb *callbacks) complete(cid, result uint64) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if p, ok := cb.tab[cid]; ok {
		p.ready, p.result = true, result
	}
}

// fail marks the callback ready with the error sentinel so the script
// side can still finish.
func (cb *callbacks) fail(cid uint64, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if p, ok := cb.tab[cid]; ok {
		p.ready, p.result, p.err = true, NoID, err
	}
}

// dispatch invokes every ready callback and removes it from the
// pending table. A panic raised by a callback is contained and logged
// with the callback id; a misbehaving script must not kill the main
// thread. Returns the number of callbacks dispatched.
func (cb *callbacks) dispatch() int {
	cb.mu.Lock()
	var ready []uint64
	for cid, p := range cb.tab {
		if p.ready {
			ready = append(ready, cid)
		}
	}
	slices.Sort(ready) // registration order: callback ids are monotonic.
	fns := make([]*pending, len(ready))
	for i, cid := range ready {
		fns[i] = cb.tab[cid]
		delete(cb.tab, cid)
	}
	cb.mu.Unlock()

	// invoke outside the registry lock: callbacks take the script
	// runtime lock and can run arbitrary script code.
	for i, p := range fns {
		invoke(ready[i], p)
	}
	return len(fns)
}

// invoke runs one callback with panic containment.
func invoke(cid uint64, p *pending) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("script callback panic", "callback_id", cid, "panic", r)
		}
	}()
	p.fn(p.result, p.err)
}

// ids
// =============================================================================
// idSource allocates record identifiers.

// idSource hands out monotonic record ids for one subsystem.
// Ids start at 1, never repeat, never reach the NoID sentinel, and
// stay inside the 2^53 range scripts can represent exactly.
type idSource struct {
	last atomic.Uint64
}

// create returns the next id, or NoID when the subsystem has exhausted
// its id space. Exhaustion is a design error caught in development.
func (s *idSource) create() uint64 {
	id := s.last.Add(1)
	if id > MaxID {
		slog.Warn("record identifiers exhausted", "max_ids", MaxID)
		return NoID
	}
	return id
}
