// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package driver

import (
	"context"
	"sync"

	"github.com/CedricGatay/zwave-go/pkg/serialapi"
)

// Result is the terminal outcome of a transaction: a message on success,
// an error on rejection.
type Result struct {
	Message *serialapi.Message
	Err     error
}

// Transaction represents one in-flight command awaiting resolution. It is
// exclusively owned by a single transmission state machine instance; the
// machine resolves it exactly once, through the Services operations.
type Transaction struct {
	// Message is the command this transaction was created for.
	Message *serialapi.Message

	once sync.Once
	done chan Result
}

// NewTransaction creates a pending transaction for the given command.
func NewTransaction(msg *serialapi.Message) *Transaction {
	return &Transaction{
		Message: msg,
		done:    make(chan Result, 1),
	}
}

func (t *Transaction) resolve(msg *serialapi.Message) {
	t.once.Do(func() {
		t.done <- Result{Message: msg}
	})
}

func (t *Transaction) reject(err error) {
	t.once.Do(func() {
		t.done <- Result{Err: err}
	})
}

// Await blocks until the transaction resolves or the context is done.
func (t *Transaction) Await(ctx context.Context) (*serialapi.Message, error) {
	select {
	case res := <-t.done:
		return res.Message, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done exposes the resolution channel for select loops.
func (t *Transaction) Done() <-chan Result {
	return t.done
}
