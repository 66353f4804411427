// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package machine

// Harness is a single-state wrapper that spawns exactly one subordinate
// machine and forwards every event it receives to it, unmodified and in
// order. It exists to exercise machines whose protocol assumes a live
// parent, without requiring a full parent implementation.
type Harness[E any] struct {
	child *Handle[E]
}

// NewHarness spawns the child and returns the wrapper. The harness itself
// is a Machine and can in turn be spawned or driven directly.
func NewHarness[E any](child Machine[E]) *Harness[E] {
	return &Harness[E]{child: Spawn(child)}
}

// HandleEvent forwards the event to the child unchanged.
func (h *Harness[E]) HandleEvent(ev E) {
	h.child.Send(ev)
}

// Close stops the child machine.
func (h *Harness[E]) Close() {
	h.child.Close()
}
