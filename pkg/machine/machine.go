// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

// Package machine provides minimal cooperative event-driven machines: each
// machine processes one event at a time to completion before accepting the
// next, suspending only while waiting for external events.
package machine

import "sync"

// Machine is a sequential, non-reentrant event handler. HandleEvent is
// only ever invoked from a single goroutine, one event at a time, in
// arrival order.
type Machine[E any] interface {
	HandleEvent(ev E)
}

// Handle is the mailbox of a spawned machine.
type Handle[E any] struct {
	events chan E
	stop   chan struct{}
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// Spawn starts a machine on its own goroutine and returns its handle.
func Spawn[E any](m Machine[E]) *Handle[E] {
	h := &Handle[E]{
		events: make(chan E, 64),
		stop:   make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run(m)
	return h
}

func (h *Handle[E]) run(m Machine[E]) {
	defer h.wg.Done()
	for {
		select {
		case <-h.stop:
			return
		case ev := <-h.events:
			m.HandleEvent(ev)
		}
	}
}

// Send delivers an event to the machine. Events are processed in the
// order sent. Send drops the event if the machine has been closed.
func (h *Handle[E]) Send(ev E) {
	select {
	case <-h.stop:
	case h.events <- ev:
	}
}

// Close stops the machine and waits for the current event to finish.
func (h *Handle[E]) Close() {
	h.closeOnce.Do(func() {
		close(h.stop)
	})
	h.wg.Wait()
}
