// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package serialapi

// Message builder functions create Message structs ready for encoding.
// These are convenience wrappers that ensure correct payload layout for
// the commands the driver issues.

// Transmit option bits for send-data commands
const (
	TransmitOptionACK       = 0x01
	TransmitOptionAutoRoute = 0x04
	TransmitOptionExplore   = 0x20
)

// NewSendData creates a SEND_DATA request (0x13) addressed to a single
// node. The callback ID correlates the controller's delivery callback
// with this command.
func NewSendData(nodeID byte, data []byte, callbackID byte, maxAttempts int) *Message {
	payload := make([]byte, 0, len(data)+4)
	payload = append(payload, nodeID, byte(len(data)))
	payload = append(payload, data...)
	payload = append(payload, TransmitOptionACK|TransmitOptionAutoRoute, callbackID)

	m := NewRequest(FuncSendData, payload)
	m.MaxSendAttempts = maxAttempts
	return m
}

// NewSendDataMulticast creates a SEND_DATA_MULTICAST request (0x14)
// addressed to a group of nodes.
func NewSendDataMulticast(nodeIDs []byte, data []byte, callbackID byte, maxAttempts int) *Message {
	payload := make([]byte, 0, len(nodeIDs)+len(data)+4)
	payload = append(payload, byte(len(nodeIDs)))
	payload = append(payload, nodeIDs...)
	payload = append(payload, byte(len(data)))
	payload = append(payload, data...)
	payload = append(payload, TransmitOptionACK, callbackID)

	m := NewRequest(FuncSendDataMulticast, payload)
	m.MaxSendAttempts = maxAttempts
	return m
}

// NewSendDataAbort creates a SEND_DATA_ABORT request (0x16), the sole
// cancellation primitive for an in-flight transmission.
func NewSendDataAbort() *Message {
	return NewRequest(FuncSendDataAbort, nil)
}

// NewGetVersion creates a GET_VERSION request (0x15). The controller
// responds with its firmware version string and library type.
func NewGetVersion() *Message {
	return NewRequest(FuncGetVersion, nil)
}

// NewGetInitData creates a GET_INIT_DATA request (0x02). The response
// carries the serial API capabilities and the node bitmask.
func NewGetInitData() *Message {
	return NewRequest(FuncGetInitData, nil)
}

// ParseNodeBitmask extracts node IDs from a GET_INIT_DATA response
// bitmask. Bit 0 of the first byte is node 1.
func ParseNodeBitmask(mask []byte) []int {
	var nodes []int
	for i, b := range mask {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<bit) != 0 {
				nodes = append(nodes, i*8+bit+1)
			}
		}
	}
	return nodes
}
