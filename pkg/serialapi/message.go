// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package serialapi

import (
	"fmt"
	"time"
)

// Message represents the contents of a decoded or to-be-sent data frame.
type Message struct {
	Type     MessageType
	Function FunctionID
	Payload  []byte

	// MaxSendAttempts is the attempt budget carried by send-data commands.
	// Zero means the controller default applies.
	MaxSendAttempts int
}

// NewRequest creates a host->controller request message.
func NewRequest(function FunctionID, payload []byte) *Message {
	return &Message{Type: MessageTypeRequest, Function: function, Payload: payload}
}

// NewResponse creates a controller->host response message.
func NewResponse(function FunctionID, payload []byte) *Message {
	return &Message{Type: MessageTypeResponse, Function: function, Payload: payload}
}

// IsUnicastCommand returns true for a send-data request addressed to a
// single node.
func (m *Message) IsUnicastCommand() bool {
	return m != nil && m.Type == MessageTypeRequest && m.Function == FuncSendData
}

// IsMulticastCommand returns true for a send-data request addressed to a
// group of nodes.
func (m *Message) IsMulticastCommand() bool {
	return m != nil && m.Type == MessageTypeRequest && m.Function == FuncSendDataMulticast
}

// Attempts returns the effective send attempt budget for this message.
func (m *Message) Attempts() int {
	if m == nil || m.MaxSendAttempts <= 0 {
		return DefaultMaxSendAttempts
	}
	return m.MaxSendAttempts
}

// TransmitStatus extracts the delivery status from a send-data callback.
// Callback frames carry [callback ID, status, ...detail]. Returns false
// for messages that carry no transmit status.
func (m *Message) TransmitStatus() (TransmitStatus, bool) {
	if m == nil || m.Type != MessageTypeRequest {
		return 0, false
	}
	if m.Function != FuncSendData && m.Function != FuncSendDataMulticast {
		return 0, false
	}
	if len(m.Payload) < 2 {
		return 0, false
	}
	return TransmitStatus(m.Payload[1]), true
}

// String returns the canonical status name as reported in driver errors.
func (s TransmitStatus) String() string {
	switch s {
	case TransmitOK:
		return "OK"
	case TransmitNoAck:
		return "NoAck"
	case TransmitFail:
		return "Fail"
	case TransmitNotIdle:
		return "NotIdle"
	case TransmitNoRoute:
		return "NoRoute"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", byte(s))
	}
}

// FrameKind discriminates control frames from data frames.
type FrameKind int

// Frame kinds
const (
	FrameData FrameKind = iota
	FrameACK
	FrameNAK
	FrameCAN
)

// Frame is one unit received from or sent to the controller: either a
// single control byte or a complete checksummed data frame.
type Frame struct {
	Kind      FrameKind
	Message   *Message // nil for control frames
	Checksum  byte     // as received, data frames only
	Timestamp time.Time
}

// IsControl returns true for ACK/NAK/CAN frames.
func (f *Frame) IsControl() bool {
	return f.Kind != FrameData
}
