// ABOUTME: Tests for the single-producer single-consumer ring
// ABOUTME: Covers capacity rounding, wraparound and concurrent handoff
package mixer

import (
	"sync"
	"testing"
)

func TestRingCapacityRoundsUp(t *testing.T) {
	r := newRing[int](5)
	if len(r.buf) != 8 {
		t.Errorf("expected capacity 8, got %d", len(r.buf))
	}

	for i := 0; i < 8; i++ {
		if !r.push(i) {
			t.Fatalf("push %d failed", i)
		}
	}
	if r.push(8) {
		t.Error("push into full ring should fail")
	}
	if r.len() != 8 {
		t.Errorf("expected len 8, got %d", r.len())
	}
}

func TestRingWraparound(t *testing.T) {
	r := newRing[int](4)
	for round := 0; round < 10; round++ {
		for i := 0; i < 3; i++ {
			r.push(round*10 + i)
		}
		for i := 0; i < 3; i++ {
			v, ok := r.pop()
			if !ok || v != round*10+i {
				t.Fatalf("round %d: expected %d, got %d (ok=%v)", round, round*10+i, v, ok)
			}
		}
	}
	if _, ok := r.pop(); ok {
		t.Error("pop from empty ring should fail")
	}
}

func TestRingConcurrentHandoff(t *testing.T) {
	const n = 10000
	r := newRing[int](16)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; {
			if r.push(i) {
				i++
			}
		}
	}()

	for want := 0; want < n; {
		v, ok := r.pop()
		if !ok {
			continue
		}
		if v != want {
			t.Fatalf("expected %d, got %d", want, v)
		}
		want++
	}
	wg.Wait()
}
