// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package driver

import (
	"context"
	"io"
	"time"

	"github.com/CedricGatay/zwave-go/pkg/serialapi"
)

// Services is the complete side-effect surface a transmission state
// machine may use. The machines never perform I/O, read clocks or resolve
// transactions directly; every effect goes through this record so that
// transition logic stays pure and unit-testable.
//
// A Services value is constructed once per driver session and shared by
// reference with every active machine instance. It is never mutated after
// construction; the operations themselves are safe to invoke concurrently
// because each one affects a distinct transaction or is append-only
// observation.
type Services struct {
	// Timestamp is the time source for timeout computation. It must be
	// consulted at the moment of measurement, never cached.
	Timestamp func() time.Time

	// SendData transmits raw bytes on the link. It completes or fails but
	// does not interpret link-layer responses; ACK/NAK/CAN arrive as
	// separate frames. Call it through StartSend so the outcome is
	// delivered as an event rather than awaited inside a transition.
	SendData func(ctx context.Context, data []byte) error

	// CreateSendDataAbort constructs the message that cancels an in-flight
	// transmission. After sending it the machine still waits for, and
	// classifies, the resulting outcome.
	CreateSendDataAbort func() *serialapi.Message

	// NotifyRetry is invoked before each retry attempt. It must not block
	// or alter control flow. Nil is legal and means no observer.
	NotifyRetry func(command string, msg *serialapi.Message, attempt, maxAttempts int, delay time.Duration)

	// NotifyUnsolicited is invoked for every inbound message that was not
	// the awaited response or callback of any pending transaction.
	NotifyUnsolicited func(msg *serialapi.Message)

	// RejectTransaction terminally resolves a transaction with an error,
	// normally a *TransmissionError. At most once per transaction.
	RejectTransaction func(t *Transaction, err error)

	// ResolveTransaction terminally resolves a transaction positively,
	// optionally carrying the triggering message. At most once per
	// transaction.
	ResolveTransaction func(t *Transaction, msg *serialapi.Message)
}

// NewServices returns the default production wiring over a link writer.
// Time comes from the wall clock and transactions resolve their promises.
func NewServices(w io.Writer) *Services {
	return &Services{
		Timestamp: time.Now,
		SendData: func(ctx context.Context, data []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := w.Write(data)
			return err
		},
		CreateSendDataAbort: serialapi.NewSendDataAbort,
		NotifyUnsolicited:   func(*serialapi.Message) {},
		RejectTransaction: func(t *Transaction, err error) {
			t.reject(err)
		},
		ResolveTransaction: func(t *Transaction, msg *serialapi.Message) {
			t.resolve(msg)
		},
	}
}

// Retry reports a retry to the observer hook, tolerating its absence.
func (s *Services) Retry(command string, msg *serialapi.Message, attempt, maxAttempts int, delay time.Duration) {
	if s.NotifyRetry != nil {
		s.NotifyRetry(command, msg, attempt, maxAttempts, delay)
	}
}

// StartSend runs SendData off the transition path and posts its outcome
// as a send-done event, so cancellation and timeouts can race the write.
func StartSend(ctx context.Context, s *Services, data []byte, emit func(Event)) {
	go func() {
		err := s.SendData(ctx, data)
		emit(Event{Type: EventSendDone, Err: err})
	}()
}
