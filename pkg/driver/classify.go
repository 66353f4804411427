// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

// Package driver defines the effect boundary of the Serial API command
// driver: the failure classification that turns low-level transmission
// outcomes into typed errors, the injected service operations a
// transmission state machine uses to perform work and report results, and
// the event plumbing that makes those machines observable in isolation.
package driver

import (
	"errors"
	"fmt"

	"github.com/CedricGatay/zwave-go/pkg/serialapi"
)

// FailureCause enumerates the distinguishable outcomes a transmission
// attempt can end with. Exactly one cause is associated with a terminal
// attempt; the transmission state machine guarantees mutual exclusion.
type FailureCause int

// Failure causes
const (
	CauseSendFailure FailureCause = iota
	CauseLinkCollision
	CauseLinkNAK
	CauseACKTimeout
	CauseResponseTimeout
	CauseCallbackTimeout
	CauseResponseNOK
	CauseCallbackNOK
	CauseNodeTimeout

	numFailureCauses // must remain last
)

// String returns the cause name for logging.
func (c FailureCause) String() string {
	switch c {
	case CauseSendFailure:
		return "send failure"
	case CauseLinkCollision:
		return "CAN"
	case CauseLinkNAK:
		return "NAK"
	case CauseACKTimeout:
		return "ACK timeout"
	case CauseResponseTimeout:
		return "response timeout"
	case CauseCallbackTimeout:
		return "callback timeout"
	case CauseResponseNOK:
		return "response NOK"
	case CauseCallbackNOK:
		return "callback NOK"
	case CauseNodeTimeout:
		return "node timeout"
	default:
		return fmt.Sprintf("FailureCause(%d)", int(c))
	}
}

// Code is the closed taxonomy of classified transmission errors. Upstream
// code branches on the code; the message is the surfaced diagnostic.
type Code int

// Error codes
const (
	CodeTimeout Code = iota
	CodeResponseNOK
	CodeCallbackNOK
	CodeMessageDropped
	CodeNodeTimeout
)

// String returns the code name for logging.
func (c Code) String() string {
	switch c {
	case CodeTimeout:
		return "Timeout"
	case CodeResponseNOK:
		return "ResponseNOK"
	case CodeCallbackNOK:
		return "CallbackNOK"
	case CodeMessageDropped:
		return "MessageDropped"
	case CodeNodeTimeout:
		return "NodeTimeout"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// TransmissionError is the typed, user-facing result of classifying a
// failed transmission attempt. Received, when non-nil, carries the
// controller message that triggered the failure for diagnostics.
type TransmissionError struct {
	Code     Code
	Received *serialapi.Message

	reason string
}

func (e *TransmissionError) Error() string {
	return e.reason
}

// IsTransmissionError reports whether err originated from Classify, as
// opposed to an unrelated failure. Returns false for nil.
func IsTransmissionError(err error) bool {
	var te *TransmissionError
	return errors.As(err, &te)
}

// Classify maps a terminal failure cause, the originally sent message and
// the optionally received message into a typed error. It is total over
// FailureCause and never fails; a value outside the enumeration is a
// programming defect and panics.
//
// The "3 attempts" literal on the link-layer rows is intentional: the
// controller firmware retries frame delivery a fixed three times
// regardless of the command's configured attempt budget.
func Classify(cause FailureCause, sent, received *serialapi.Message) *TransmissionError {
	switch cause {
	case CauseSendFailure, CauseLinkCollision, CauseLinkNAK:
		return &TransmissionError{
			Code:   CodeMessageDropped,
			reason: "Failed to send the message after 3 attempts",
		}

	case CauseACKTimeout:
		return &TransmissionError{
			Code:   CodeTimeout,
			reason: "Timeout while waiting for an ACK from the controller",
		}

	case CauseResponseTimeout:
		return &TransmissionError{
			Code:   CodeTimeout,
			reason: "Timeout while waiting for a response from the controller",
		}

	case CauseCallbackTimeout:
		return &TransmissionError{
			Code:   CodeTimeout,
			reason: "Timeout while waiting for a callback from the controller",
		}

	case CauseResponseNOK:
		if sent.IsUnicastCommand() || sent.IsMulticastCommand() {
			return &TransmissionError{
				Code:     CodeMessageDropped,
				Received: received,
				reason: fmt.Sprintf(
					"Failed to send the command after %d attempts. Transmission queue full.",
					sent.Attempts()),
			}
		}
		return &TransmissionError{
			Code:     CodeResponseNOK,
			Received: received,
			reason:   "The controller response indicated failure",
		}

	case CauseCallbackNOK:
		status := callbackStatus(received)
		code := CodeMessageDropped
		if status == serialapi.TransmitNoAck {
			code = CodeNodeTimeout
		}
		switch {
		case sent.IsUnicastCommand():
			return &TransmissionError{
				Code:     code,
				Received: received,
				reason: fmt.Sprintf(
					"Failed to send the command after %d attempts (Status %s)",
					sent.Attempts(), status),
			}
		case sent.IsMulticastCommand():
			return &TransmissionError{
				Code:     code,
				Received: received,
				reason: fmt.Sprintf(
					"One or more nodes did not respond to the multicast request (Status %s)",
					status),
			}
		default:
			return &TransmissionError{
				Code:     CodeCallbackNOK,
				Received: received,
				reason:   "The controller callback indicated failure",
			}
		}

	case CauseNodeTimeout:
		return &TransmissionError{
			Code:     CodeNodeTimeout,
			Received: received,
			reason:   "Timed out while waiting for a response from the node",
		}

	default:
		panic(fmt.Sprintf("driver: unhandled failure cause %d", int(cause)))
	}
}

// callbackStatus reads the transmit status from a callback message. A
// missing or statusless callback classifies as Fail so it can never be
// mistaken for a node timeout.
func callbackStatus(received *serialapi.Message) serialapi.TransmitStatus {
	if status, ok := received.TransmitStatus(); ok {
		return status
	}
	return serialapi.TransmitFail
}
