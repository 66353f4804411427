// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package serialapi

import (
	"fmt"
	"strings"
)

// FormatFrame formats a frame into a human-readable string.
func FormatFrame(f *Frame) string {
	timestamp := f.Timestamp.Format("15:04:05.000")

	switch f.Kind {
	case FrameACK:
		return fmt.Sprintf("[%s] ACK\n", timestamp)
	case FrameNAK:
		return fmt.Sprintf("[%s] NAK\n", timestamp)
	case FrameCAN:
		return fmt.Sprintf("[%s] CAN\n", timestamp)
	}

	m := f.Message
	result := fmt.Sprintf("[%s] %s %s (0x%02X) len=%d\n",
		timestamp, formatMessageType(m.Type), FormatFunction(m.Function), byte(m.Function), len(m.Payload))

	if len(m.Payload) > 0 {
		result += formatPayload(m)
	}
	return result
}

// FormatFunction returns the human-readable name for a function ID.
func FormatFunction(function FunctionID) string {
	switch function {
	case FuncGetInitData:
		return "GET_INIT_DATA"
	case FuncApplicationCmd:
		return "APPLICATION_COMMAND"
	case FuncGetCapabilities:
		return "GET_CAPABILITIES"
	case FuncSendData:
		return "SEND_DATA"
	case FuncSendDataMulticast:
		return "SEND_DATA_MULTICAST"
	case FuncGetVersion:
		return "GET_VERSION"
	case FuncSendDataAbort:
		return "SEND_DATA_ABORT"
	case FuncGetProtocolInfo:
		return "GET_PROTOCOL_INFO"
	case FuncApplicationUpdate:
		return "APPLICATION_UPDATE"
	default:
		return "UNKNOWN"
	}
}

func formatMessageType(t MessageType) string {
	if t == MessageTypeResponse {
		return "RES"
	}
	return "REQ"
}

func formatPayload(m *Message) string {
	if status, ok := m.TransmitStatus(); ok {
		return fmt.Sprintf("  Callback: %d, Status: %s\n", m.Payload[0], status)
	}

	if m.Function == FuncGetVersion && m.Type == MessageTypeResponse {
		if idx := strings.IndexByte(string(m.Payload), 0); idx > 0 {
			return fmt.Sprintf("  Version: %s\n", string(m.Payload[:idx]))
		}
	}

	// Default: hex dump
	var b strings.Builder
	b.WriteString("  Payload: ")
	for i, p := range m.Payload {
		if i > 0 && i%16 == 0 {
			b.WriteString("\n           ")
		}
		fmt.Fprintf(&b, "%02X ", p)
	}
	b.WriteString("\n")
	return b.String()
}
