// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package machine

import (
	"testing"
)

type payload struct {
	Seq  int
	Body string
}

func TestHarness_ForwardsAllEventsInOrder(t *testing.T) {
	rec := newRecorder[payload]()
	h := NewHarness[payload](rec)
	defer h.Close()

	const n = 50
	for i := 0; i < n; i++ {
		h.HandleEvent(payload{Seq: i, Body: "event"})
	}
	rec.waitFor(t, n)

	got := rec.snapshot()
	if len(got) != n {
		t.Fatalf("child received %d events, want %d", len(got), n)
	}
	for i, ev := range got {
		if ev.Seq != i {
			t.Fatalf("child event %d has seq %d, order not preserved", i, ev.Seq)
		}
		if ev.Body != "event" {
			t.Fatalf("child event %d payload modified: %+v", i, ev)
		}
	}
}

func TestHarness_IsItselfAMachine(t *testing.T) {
	rec := newRecorder[int]()
	harness := NewHarness[int](rec)
	defer harness.Close()

	// The wrapper can be spawned like any machine; events still reach the
	// child through both hops in order.
	h := Spawn[int](harness)
	defer h.Close()

	for i := 0; i < 10; i++ {
		h.Send(i)
	}
	rec.waitFor(t, 10)

	got := rec.snapshot()
	for i, ev := range got {
		if ev != i {
			t.Fatalf("event %d = %d, out of order through spawned harness", i, ev)
		}
	}
}

func TestHarness_PassesPointersUnmodified(t *testing.T) {
	rec := newRecorder[*payload]()
	h := NewHarness[*payload](rec)
	defer h.Close()

	ev := &payload{Seq: 1, Body: "shared"}
	h.HandleEvent(ev)
	rec.waitFor(t, 1)

	got := rec.snapshot()
	if len(got) != 1 || got[0] != ev {
		t.Fatal("harness must forward the identical event value")
	}
}
