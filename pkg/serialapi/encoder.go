// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package serialapi

import "fmt"

// EncodeMessage encodes a message to wire format:
// SOF LEN TYPE FUNC PAYLOAD... CHECKSUM.
func EncodeMessage(m *Message) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("cannot encode nil message")
	}
	if len(m.Payload) > MaxPayloadSize {
		return nil, fmt.Errorf("payload too large: %d bytes (max %d)", len(m.Payload), MaxPayloadSize)
	}

	length := byte(len(m.Payload) + 3)
	frame := make([]byte, 0, int(length)+2)
	frame = append(frame, SOF, length, byte(m.Type), byte(m.Function))
	frame = append(frame, m.Payload...)
	frame = append(frame, Checksum(frame[1:]))
	return frame, nil
}

// Checksum computes the frame checksum: 0xFF XORed with every byte from
// the length byte through the end of the payload.
func Checksum(data []byte) byte {
	sum := byte(0xFF)
	for _, b := range data {
		sum ^= b
	}
	return sum
}
