// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

import (
	"log/slog"
	"os"
	"testing"
)

// TestMain is called by "go test" instead of running the tests
// individually. It is used to setup state for all tests.
func TestMain(m *testing.M) {

	// configure the default logger to log everything during tests.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	m.Run()
}

// newTestBuffer builds an entity table buffer with the normal clone.
func newTestBuffer() *StateBuffer[EntityTable] {
	return NewStateBuffer(EntityTable{}, cloneEntityTable, nil)
}

// Test that after a swap the front buffer matches the back buffer
// contents from before the swap, element for element.
func TestSwapConsistency(t *testing.T) {
	sb := newTestBuffer()
	back := *sb.Back()
	back[1] = Entity{MeshType: "cube", Radius: 2}
	back[2] = Entity{MeshType: "sphere", Radius: 1}
	sb.Swap()

	front := *sb.Front()
	if len(front) != 2 {
		t.Fatalf("expected 2 front entries got %d", len(front))
	}
	if front[1].MeshType != "cube" || front[2].MeshType != "sphere" {
		t.Errorf("front buffer missing swapped records")
	}

	// front and back hold equal content immediately after a swap.
	backNow := *sb.Back()
	for id, rec := range front {
		if backNow[id] != rec {
			t.Errorf("entry %d differs between front and back after swap", id)
		}
	}
}

// Test that a clean buffer skips the swap and only moves the skipped
// counter.
func TestSwapSkipOnClean(t *testing.T) {
	sb := newTestBuffer()
	back := *sb.Back()
	back[7] = Entity{MeshType: "grid"}
	sb.Swap()
	frontBefore := sb.Front()

	sb.Swap() // no Back() call since last swap: clean.
	if sb.Front() != frontBefore {
		t.Errorf("clean swap must not move the front pointer")
	}
	if got := sb.TotalSwaps(); got != 1 {
		t.Errorf("expected 1 total swap got %d", got)
	}
	if got := sb.SkippedSwaps(); got != 1 {
		t.Errorf("expected 1 skipped swap got %d", got)
	}
}

// Test that front and back refer to distinct owned storages after
// every swap.
func TestSwapNoAliasing(t *testing.T) {
	sb := newTestBuffer()
	for i := 0; i < 5; i++ {
		back := *sb.Back()
		back[uint64(i+1)] = Entity{Radius: float64(i)}
		sb.Swap()
		if sb.Front() == sb.Back() {
			t.Fatalf("front and back alias after swap %d", i)
		}
	}
}

// Test that a failing deep copy preserves the previous front buffer,
// counts one error, and leaves the swap counter alone.
func TestSwapErrorRecovery(t *testing.T) {
	fail := false
	clone := func(src EntityTable) EntityTable {
		if fail {
			panic("allocation failure")
		}
		return cloneEntityTable(src)
	}
	sb := NewStateBuffer(EntityTable{}, clone, nil)

	back := *sb.Back()
	back[1] = Entity{MeshType: "cube"}
	sb.Swap()
	swapsBefore := sb.TotalSwaps()

	// two entities staged, then the copy blows up.
	back = *sb.Back()
	back[2] = Entity{MeshType: "sphere"}
	back[3] = Entity{MeshType: "grid"}
	fail = true
	sb.Swap()

	front := *sb.Front()
	if len(front) != 1 || front[1].MeshType != "cube" {
		t.Errorf("front buffer changed by a failed swap: %v", front)
	}
	if got := sb.SwapErrors(); got != 1 {
		t.Errorf("expected 1 swap error got %d", got)
	}
	if got := sb.TotalSwaps(); got != swapsBefore {
		t.Errorf("failed swap moved the swap counter: %d", got)
	}

	// the buffer recovers once the allocator behaves again.
	fail = false
	sb.Swap()
	if len(*sb.Front()) != 3 {
		t.Errorf("recovered swap lost staged records")
	}
}

// Test the dirty flag lifecycle around Back and Swap.
func TestDirtyFlag(t *testing.T) {
	sb := newTestBuffer()
	if sb.IsDirty() {
		t.Errorf("new buffer must start clean")
	}
	sb.Back()
	if !sb.IsDirty() {
		t.Errorf("Back must mark the buffer dirty")
	}
	sb.Swap()
	if sb.IsDirty() {
		t.Errorf("successful swap must clear the dirty flag")
	}
}

// Test that the onSwap hook sees the new front buffer.
func TestSwapHook(t *testing.T) {
	seen := 0
	sb := NewStateBuffer(EntityTable{}, cloneEntityTable, func(front *EntityTable) {
		seen = len(*front)
	})
	back := *sb.Back()
	back[1] = Entity{}
	back[2] = Entity{}
	sb.Swap()
	if seen != 2 {
		t.Errorf("hook saw %d records, expected 2", seen)
	}
}
