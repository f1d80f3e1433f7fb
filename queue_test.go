// Copyright © 2026 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kadi

import (
	"sync"
	"testing"
)

// Test that commands come out in submission order.
func TestQueueFIFO(t *testing.T) {
	q := NewCommandQueue(16)
	for i := 1; i <= 5; i++ {
		if !q.Submit(Command{Kind: CmdUpdateEntity, ID: uint64(i)}) {
			t.Fatalf("submit %d refused on a non-full queue", i)
		}
	}
	var got []uint64
	q.ConsumeAll(func(c *Command) { got = append(got, c.ID) })
	for i, id := range got {
		if id != uint64(i+1) {
			t.Fatalf("expected id %d at position %d got %d", i+1, i, id)
		}
	}
	if !q.IsEmpty() {
		t.Errorf("queue not empty after full drain")
	}
}

// Test that submission N+1 on a full queue returns false and leaves
// the queue unchanged.
func TestQueueBackpressure(t *testing.T) {
	const capacity = 8
	q := NewCommandQueue(capacity)
	for i := 0; i < capacity; i++ {
		if !q.Submit(Command{ID: uint64(i)}) {
			t.Fatalf("submit %d refused before capacity", i)
		}
	}
	if !q.IsFull() {
		t.Fatalf("queue should report full at capacity")
	}
	if q.Submit(Command{ID: 999}) {
		t.Fatalf("submit accepted on a full queue")
	}
	if got := q.ApproximateSize(); got != capacity {
		t.Errorf("refused submit changed queue size: %d", got)
	}

	// drain and verify the overflow command never made it in.
	var ids []uint64
	q.ConsumeAll(func(c *Command) { ids = append(ids, c.ID) })
	if len(ids) != capacity || ids[len(ids)-1] == 999 {
		t.Errorf("overflow command leaked into the queue: %v", ids)
	}
}

// Test wraparound: interleaved submits and drains past the ring
// boundary keep FIFO order.
func TestQueueWraparound(t *testing.T) {
	q := NewCommandQueue(4)
	next := uint64(0)
	want := uint64(0)
	for round := 0; round < 10; round++ {
		for i := 0; i < 3; i++ {
			q.Submit(Command{ID: next})
			next++
		}
		q.ConsumeAll(func(c *Command) {
			if c.ID != want {
				t.Fatalf("expected id %d got %d", want, c.ID)
			}
			want++
		})
	}
	if want != next {
		t.Errorf("drained %d of %d submitted", want, next)
	}
}

// Test one producer against one consumer across goroutines. Every
// submitted command must arrive exactly once, in order.
func TestQueueSPSC(t *testing.T) {
	const total = 10000
	q := NewCommandQueue(64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() { // producer: retries when the ring is full.
		defer wg.Done()
		for i := uint64(1); i <= total; {
			if q.Submit(Command{ID: i}) {
				i++
			}
		}
	}()

	want := uint64(1)
	for want <= total {
		q.ConsumeAll(func(c *Command) {
			if c.ID != want {
				t.Errorf("expected id %d got %d", want, c.ID)
			}
			want++
		})
	}
	wg.Wait()
}

// Test the observability accessors.
func TestQueueCounters(t *testing.T) {
	q := NewCommandQueue(10)
	if q.Capacity() != 10 || !q.IsEmpty() || q.IsFull() {
		t.Fatalf("fresh queue state wrong")
	}
	q.Submit(Command{})
	q.Submit(Command{})
	if got := q.ApproximateSize(); got != 2 {
		t.Errorf("expected size 2 got %d", got)
	}
}
