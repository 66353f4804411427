// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package driver

import "github.com/CedricGatay/zwave-go/pkg/serialapi"

// EventType enumerates the events a transmission state machine exchanges
// with its parent and with the link.
type EventType int

// Event types
const (
	EventMessage EventType = iota
	EventACK
	EventNAK
	EventCAN
	EventSendDone
	EventTimeout
	EventAbort
	EventUnsolicited
)

// Event is one unit of communication between the link, a protocol machine
// and its parent.
type Event struct {
	Type    EventType
	Message *serialapi.Message
	Err     error
}

// Relay forwards inbound message events that no pending wait claimed up
// to the parent as unsolicited events. It is a reactive rule, not a state
// transition: offering an event never changes the owning machine's state.
type Relay struct {
	emit func(Event)
}

// NewRelay creates a relay that emits to the given parent sink.
func NewRelay(emit func(Event)) *Relay {
	return &Relay{emit: emit}
}

// Offer inspects an inbound event. A message event that the awaited
// predicate does not claim is relayed upward as exactly one unsolicited
// event and Offer reports true; everything else is left untouched and
// reports false. A nil predicate claims nothing.
func (r *Relay) Offer(ev Event, awaited func(*serialapi.Message) bool) bool {
	if ev.Type != EventMessage {
		return false
	}
	if awaited != nil && awaited(ev.Message) {
		return false
	}
	r.emit(Event{Type: EventUnsolicited, Message: ev.Message})
	return true
}
