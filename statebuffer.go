// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

// statebuffer.go holds the generic double buffered state container.
// Each subsystem publishes its state map through one of these once
// per frame.

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// StateBuffer owns two instances of a state container T. The command
// processor mutates the back instance; consumers read the front
// instance. Swap publishes back as the new front.
//
// The design assumes exactly one writer (the command processor during
// drain) and one reader (the consumer between swaps), both on the main
// thread. Swap is the only operation that takes a lock and only the
// frame loop calls it, so the hot path stays lock free.
type StateBuffer[T any] struct {
	storage [2]T  // the two owned containers.
	fp, bp  *T    // front and back pointers into storage.
	clone   CloneFunc[T]
	onSwap  func(front *T) // derived data rebuild, may be nil.

	dirty   atomic.Bool // set by Back, cleared by a successful Swap.
	mu      sync.Mutex  // held for the duration of the deep copy.
	swaps   atomic.Uint64
	skipped atomic.Uint64
	errors  atomic.Uint64
}

// CloneFunc deep copies a state container. The returned value must not
// share mutable storage with src.
type CloneFunc[T any] func(src T) T

// NewStateBuffer creates a double buffered container. Both storages
// start as deep copies of the given initial value. The onSwap hook,
// when not nil, runs after each successful swap with the new front
// buffer; it is used to rebuild derived data such as the camera
// projection cache.
func NewStateBuffer[T any](initial T, clone CloneFunc[T], onSwap func(front *T)) *StateBuffer[T] {
	sb := &StateBuffer[T]{clone: clone, onSwap: onSwap}
	sb.storage[0] = clone(initial)
	sb.storage[1] = clone(initial)
	sb.fp = &sb.storage[0]
	sb.bp = &sb.storage[1]
	return sb
}

// Front returns the current read buffer. Safe to call from the main
// thread without synchronization. Must not be called concurrently
// with Swap. Callers must treat the result as immutable.
func (sb *StateBuffer[T]) Front() *T { return sb.fp }

// Back returns the current write buffer and marks the buffer dirty.
// Intended for the single writer command processor.
func (sb *StateBuffer[T]) Back() *T {
	sb.dirty.Store(true)
	return sb.bp
}

// Swap publishes the back buffer contents as the new front buffer.
// A clean buffer skips the copy entirely. A panic during the deep
// copy, allocation failure included, leaves the previous front buffer
// untouched and counts a swap error; the frame continues with stale
// but consistent data.
func (sb *StateBuffer[T]) Swap() {
	if !sb.dirty.Load() {
		sb.skipped.Add(1)
		return
	}
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.validate()

	copied, err := sb.safeClone()
	if err != nil {
		sb.errors.Add(1)
		slog.Error("state buffer swap failed", "error", err)
		return
	}

	// The cloned contents become the new back buffer while the
	// mutated original is published as the front.
	*sb.fp = copied
	sb.fp, sb.bp = sb.bp, sb.fp
	sb.swaps.Add(1)
	sb.dirty.Store(false)
	if sb.onSwap != nil {
		sb.onSwap(sb.fp)
	}
}

// safeClone contains any panic raised while deep copying the back
// buffer, returning it as an error instead.
func (sb *StateBuffer[T]) safeClone() (copied T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clone: %v", r)
		}
	}()
	copied = sb.clone(*sb.bp)
	return copied, nil
}

// validate checks the structural invariants that must hold before a
// swap. A violation means corrupt state that no recovery can fix.
func (sb *StateBuffer[T]) validate() {
	ok := sb.fp != nil && sb.bp != nil && sb.fp != sb.bp
	owned := func(p *T) bool { return p == &sb.storage[0] || p == &sb.storage[1] }
	if !ok || !owned(sb.fp) || !owned(sb.bp) {
		panic("state buffer pointers corrupt: aliased or foreign storage")
	}
}

// IsDirty reports whether the back buffer has been handed out since
// the last successful swap.
func (sb *StateBuffer[T]) IsDirty() bool { return sb.dirty.Load() }

// TotalSwaps counts successful swaps.
func (sb *StateBuffer[T]) TotalSwaps() uint64 { return sb.swaps.Load() }

// SkippedSwaps counts swaps skipped because the buffer was clean.
func (sb *StateBuffer[T]) SkippedSwaps() uint64 { return sb.skipped.Load() }

// SwapErrors counts swaps abandoned by a failed deep copy.
func (sb *StateBuffer[T]) SwapErrors() uint64 { return sb.errors.Load() }
