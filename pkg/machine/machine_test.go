// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package machine

import (
	"sync"
	"testing"
	"time"
)

// recorder stores every event it handles, in order.
type recorder[E any] struct {
	mu     sync.Mutex
	events []E
	notify chan struct{}
}

func newRecorder[E any]() *recorder[E] {
	return &recorder[E]{notify: make(chan struct{}, 1024)}
}

func (r *recorder[E]) HandleEvent(ev E) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	r.notify <- struct{}{}
}

func (r *recorder[E]) snapshot() []E {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]E(nil), r.events...)
}

// waitFor blocks until the recorder has handled n events.
func (r *recorder[E]) waitFor(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.notify:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d of %d", i+1, n)
		}
	}
}

func TestSpawn_DeliversEventsInOrder(t *testing.T) {
	rec := newRecorder[int]()
	h := Spawn[int](rec)
	defer h.Close()

	const n = 100
	for i := 0; i < n; i++ {
		h.Send(i)
	}
	rec.waitFor(t, n)

	got := rec.snapshot()
	if len(got) != n {
		t.Fatalf("received %d events, want %d", len(got), n)
	}
	for i, ev := range got {
		if ev != i {
			t.Fatalf("event %d = %d, out of order", i, ev)
		}
	}
}

func TestSpawn_SequentialProcessing(t *testing.T) {
	// HandleEvent must never run reentrantly: track concurrent entries.
	var mu sync.Mutex
	active, maxActive, handled := 0, 0, 0
	done := make(chan struct{})

	m := machineFunc[int](func(int) {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		time.Sleep(time.Millisecond)

		mu.Lock()
		active--
		handled++
		if handled == 10 {
			close(done)
		}
		mu.Unlock()
	})

	h := Spawn[int](m)
	defer h.Close()
	for i := 0; i < 10; i++ {
		h.Send(i)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events never finished")
	}
	if maxActive != 1 {
		t.Errorf("max concurrent HandleEvent calls = %d, want 1", maxActive)
	}
}

func TestClose_IsIdempotentAndStopsDelivery(t *testing.T) {
	rec := newRecorder[string]()
	h := Spawn[string](rec)
	h.Close()
	h.Close()

	// Sends after close are dropped, not deadlocked.
	doneSend := make(chan struct{})
	go func() {
		h.Send("late")
		close(doneSend)
	}()
	select {
	case <-doneSend:
	case <-time.After(time.Second):
		t.Fatal("Send blocked after Close")
	}
}

// machineFunc adapts a function to the Machine interface.
type machineFunc[E any] func(E)

func (f machineFunc[E]) HandleEvent(ev E) { f(ev) }
