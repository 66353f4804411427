// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package serialapi

import (
	"fmt"
	"time"
)

// Decoder implements the Serial API frame decoder state machine.
// Bytes are fed one at a time; control bytes complete immediately while
// data frames accumulate until their checksum byte arrives.
type Decoder struct {
	state     int
	length    int
	message   *Message
	checksum  byte // running XOR over LEN..payload
	rawBuffer []byte
}

// NewDecoder creates a new frame decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		state:     stateIdle,
		rawBuffer: make([]byte, 0, MaxFrameSize+1),
	}
}

// Reset resets the decoder state to idle.
func (d *Decoder) Reset() {
	d.state = stateIdle
	d.length = 0
	d.message = nil
	d.checksum = 0
	d.rawBuffer = d.rawBuffer[:0]
}

// GetRawBytes returns the accumulated raw bytes since the last frame.
func (d *Decoder) GetRawBytes() []byte {
	return d.rawBuffer
}

// DecodeByte processes a single byte through the decoder state machine.
// Returns a completed frame, or nil if the frame is incomplete.
// Returns an error if decoding fails; the decoder resets itself on error.
func (d *Decoder) DecodeByte(b byte) (*Frame, error) {
	d.rawBuffer = append(d.rawBuffer, b)

	switch d.state {
	case stateIdle:
		switch b {
		case ACK:
			d.Reset()
			return &Frame{Kind: FrameACK, Timestamp: time.Now()}, nil
		case NAK:
			d.Reset()
			return &Frame{Kind: FrameNAK, Timestamp: time.Now()}, nil
		case CAN:
			d.Reset()
			return &Frame{Kind: FrameCAN, Timestamp: time.Now()}, nil
		case SOF:
			d.state = stateLength
			return nil, nil
		default:
			// Garbage between frames is dropped, not an error
			d.rawBuffer = d.rawBuffer[:0]
			return nil, nil
		}

	case stateLength:
		// LEN covers TYPE, FUNC, payload and checksum
		if b < 3 {
			d.Reset()
			return nil, fmt.Errorf("invalid frame length: %d", b)
		}
		d.length = int(b)
		d.checksum = 0xFF ^ b
		d.message = &Message{Payload: make([]byte, 0, d.length-3)}
		d.state = stateType
		return nil, nil

	case stateType:
		if b != byte(MessageTypeRequest) && b != byte(MessageTypeResponse) {
			d.Reset()
			return nil, fmt.Errorf("invalid message type: 0x%02X", b)
		}
		d.message.Type = MessageType(b)
		d.checksum ^= b
		d.state = stateFunction
		return nil, nil

	case stateFunction:
		d.message.Function = FunctionID(b)
		d.checksum ^= b
		if d.length == 3 {
			d.state = stateChecksum
		} else {
			d.state = statePayload
		}
		return nil, nil

	case statePayload:
		d.message.Payload = append(d.message.Payload, b)
		d.checksum ^= b
		if len(d.message.Payload) >= d.length-3 {
			d.state = stateChecksum
		}
		return nil, nil

	case stateChecksum:
		if b != d.checksum {
			err := fmt.Errorf("checksum mismatch: expected 0x%02X, got 0x%02X", d.checksum, b)
			d.Reset()
			return nil, err
		}
		frame := &Frame{
			Kind:      FrameData,
			Message:   d.message,
			Checksum:  b,
			Timestamp: time.Now(),
		}
		d.Reset()
		return frame, nil

	default:
		d.Reset()
		return nil, fmt.Errorf("invalid state: %d", d.state)
	}
}
