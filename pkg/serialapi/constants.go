// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

// Package serialapi implements the host side of the Z-Wave Serial API
// framing protocol: single-byte link control frames (ACK/NAK/CAN) and
// checksummed SOF data frames carrying controller commands and callbacks.
//
// The package provides frame encoding/decoding, message builders for the
// commands the driver issues, and human-readable formatting for tooling.
package serialapi

// Frame control bytes
const (
	SOF byte = 0x01 // Start of data frame
	ACK byte = 0x06 // Link-layer acknowledgement
	NAK byte = 0x15 // Link-layer negative acknowledgement
	CAN byte = 0x18 // Link-layer collision / cancel
)

// Frame size limits. The length byte covers TYPE, FUNC, payload and
// checksum, so the payload tops out at 252 bytes.
const (
	MaxFrameSize   = 255
	MaxPayloadSize = MaxFrameSize - 3
)

// MessageType distinguishes host->controller requests from controller
// responses. Callbacks arrive as requests initiated by the controller.
type MessageType byte

// Message type values (second frame byte)
const (
	MessageTypeRequest  MessageType = 0x00
	MessageTypeResponse MessageType = 0x01
)

// FunctionID identifies the Serial API command a data frame carries.
type FunctionID byte

// Function IDs used by the driver
const (
	FuncGetInitData       FunctionID = 0x02
	FuncApplicationCmd    FunctionID = 0x04
	FuncGetCapabilities   FunctionID = 0x07
	FuncSendData          FunctionID = 0x13
	FuncSendDataMulticast FunctionID = 0x14
	FuncGetVersion        FunctionID = 0x15
	FuncSendDataAbort     FunctionID = 0x16
	FuncGetProtocolInfo   FunctionID = 0x41
	FuncApplicationUpdate FunctionID = 0x49
)

// DefaultMaxSendAttempts is the controller firmware default for send-data
// commands that do not carry an explicit attempt budget.
const DefaultMaxSendAttempts = 3

// TransmitStatus is the delivery outcome the controller reports in a
// send-data callback.
type TransmitStatus byte

// Transmit status values
const (
	TransmitOK      TransmitStatus = 0x00
	TransmitNoAck   TransmitStatus = 0x01
	TransmitFail    TransmitStatus = 0x02
	TransmitNotIdle TransmitStatus = 0x03
	TransmitNoRoute TransmitStatus = 0x04
)

// Decoder states (internal)
const (
	stateIdle = iota
	stateLength
	stateType
	stateFunction
	statePayload
	stateChecksum
)
