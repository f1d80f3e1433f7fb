// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

import (
	"errors"
	"testing"
)

// Test exactly-once dispatch in registration order.
func TestCallbackDispatchOrder(t *testing.T) {
	cb := newCallbacks()
	var order []uint64
	a := cb.register(func(id uint64, _ error) { order = append(order, id) })
	b := cb.register(func(id uint64, _ error) { order = append(order, id) })
	if a == 0 || b <= a {
		t.Fatalf("callback ids must be monotonic and nonzero: %d %d", a, b)
	}

	cb.complete(b, 22)
	cb.complete(a, 11)
	if got := cb.dispatch(); got != 2 {
		t.Fatalf("expected 2 dispatched got %d", got)
	}
	if len(order) != 2 || order[0] != 11 || order[1] != 22 {
		t.Errorf("dispatch order wrong: %v", order)
	}
	if got := cb.dispatch(); got != 0 {
		t.Errorf("second dispatch re-invoked callbacks: %d", got)
	}
}

// Test that callbacks not yet ready stay pending.
func TestCallbackPendingUntilReady(t *testing.T) {
	cb := newCallbacks()
	calls := 0
	cid := cb.register(func(uint64, error) { calls++ })
	if got := cb.dispatch(); got != 0 || calls != 0 {
		t.Fatalf("unready callback dispatched")
	}
	cb.complete(cid, 5)
	cb.dispatch()
	if calls != 1 {
		t.Errorf("ready callback not dispatched")
	}
}

// Test the error sentinel path for orphaned requests.
func TestCallbackFailure(t *testing.T) {
	cb := newCallbacks()
	var gotID uint64
	var gotErr error
	cid := cb.register(func(id uint64, err error) { gotID, gotErr = id, err })
	cb.fail(cid, errors.New("rejected"))
	cb.dispatch()
	if gotID != NoID || gotErr == nil {
		t.Errorf("expected sentinel and error, got %d %v", gotID, gotErr)
	}
}

// Test that a panicking callback is contained and later callbacks
// still run.
func TestCallbackPanicContained(t *testing.T) {
	cb := newCallbacks()
	ran := false
	a := cb.register(func(uint64, error) { panic("misbehaving script") })
	b := cb.register(func(uint64, error) { ran = true })
	cb.complete(a, 1)
	cb.complete(b, 2)
	if got := cb.dispatch(); got != 2 {
		t.Errorf("expected both callbacks dispatched got %d", got)
	}
	if !ran {
		t.Errorf("callback after a panicking one did not run")
	}
}
