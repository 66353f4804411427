// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package driver

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/CedricGatay/zwave-go/pkg/serialapi"
)

// instrumentedServices wraps the default wiring with resolution counters,
// the way driver tests observe transaction lifecycles.
type instrumentedServices struct {
	*Services

	mu       sync.Mutex
	resolved map[*Transaction]int
	rejected map[*Transaction]int
}

func newInstrumentedServices(w *bytes.Buffer) *instrumentedServices {
	is := &instrumentedServices{
		Services: NewServices(w),
		resolved: make(map[*Transaction]int),
		rejected: make(map[*Transaction]int),
	}
	base := *is.Services
	is.Services.ResolveTransaction = func(t *Transaction, msg *serialapi.Message) {
		is.mu.Lock()
		is.resolved[t]++
		is.mu.Unlock()
		base.ResolveTransaction(t, msg)
	}
	is.Services.RejectTransaction = func(t *Transaction, err error) {
		is.mu.Lock()
		is.rejected[t]++
		is.mu.Unlock()
		base.RejectTransaction(t, err)
	}
	return is
}

func TestNewServices_SendDataWrites(t *testing.T) {
	var buf bytes.Buffer
	s := NewServices(&buf)

	data, err := serialapi.EncodeMessage(serialapi.NewGetVersion())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := s.SendData(context.Background(), data); err != nil {
		t.Fatalf("SendData: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Errorf("link bytes = % X, want % X", buf.Bytes(), data)
	}
}

func TestNewServices_SendDataHonorsCancellation(t *testing.T) {
	var buf bytes.Buffer
	s := NewServices(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.SendData(ctx, []byte{serialapi.ACK}); !errors.Is(err, context.Canceled) {
		t.Errorf("SendData on cancelled context = %v, want context.Canceled", err)
	}
	if buf.Len() != 0 {
		t.Error("cancelled send must not write to the link")
	}
}

func TestNewServices_CreateSendDataAbort(t *testing.T) {
	s := NewServices(&bytes.Buffer{})
	abort := s.CreateSendDataAbort()
	if abort.Function != serialapi.FuncSendDataAbort {
		t.Errorf("abort function = 0x%02X, want SEND_DATA_ABORT", byte(abort.Function))
	}
	if abort.Type != serialapi.MessageTypeRequest {
		t.Error("abort must be a request")
	}
}

func TestServices_RetryToleratesMissingObserver(t *testing.T) {
	s := NewServices(&bytes.Buffer{})
	// NotifyRetry is nil by default; Retry must be a no-op.
	s.Retry("SendData", serialapi.NewGetVersion(), 1, 3, 100*time.Millisecond)

	var got []int
	s.NotifyRetry = func(command string, msg *serialapi.Message, attempt, maxAttempts int, delay time.Duration) {
		got = append(got, attempt)
	}
	s.Retry("SendData", serialapi.NewGetVersion(), 2, 3, 100*time.Millisecond)
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("retry observer saw %v, want [2]", got)
	}
}

func TestStartSend_DeliversOutcomeAsEvent(t *testing.T) {
	var buf bytes.Buffer
	s := NewServices(&buf)

	events := make(chan Event, 1)
	StartSend(context.Background(), s, []byte{serialapi.ACK}, func(ev Event) { events <- ev })

	select {
	case ev := <-events:
		if ev.Type != EventSendDone {
			t.Errorf("event type = %v, want EventSendDone", ev.Type)
		}
		if ev.Err != nil {
			t.Errorf("send error = %v", ev.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("send outcome never delivered")
	}
}

func TestStartSend_FailureDeliveredAsEvent(t *testing.T) {
	s := NewServices(&bytes.Buffer{})
	s.SendData = func(context.Context, []byte) error {
		return errors.New("port gone")
	}

	events := make(chan Event, 1)
	StartSend(context.Background(), s, nil, func(ev Event) { events <- ev })

	select {
	case ev := <-events:
		if ev.Err == nil {
			t.Error("expected send failure in event")
		}
	case <-time.After(time.Second):
		t.Fatal("send outcome never delivered")
	}
}

// ============================================================
// Transaction Resolution Exclusivity
// ============================================================

func TestTransaction_ExactlyOnceResolution(t *testing.T) {
	is := newInstrumentedServices(&bytes.Buffer{})

	tx := NewTransaction(serialapi.NewGetVersion())
	response := serialapi.NewResponse(serialapi.FuncGetVersion, []byte("Z-Wave 4.05"))

	// Duplicate and conflicting resolutions: only the first wins.
	is.ResolveTransaction(tx, response)
	is.ResolveTransaction(tx, nil)
	is.RejectTransaction(tx, Classify(CauseACKTimeout, tx.Message, nil))

	msg, err := tx.Await(context.Background())
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if msg != response {
		t.Error("first resolution should win")
	}

	// The instrumented doubles saw every call; the transaction accepted one.
	if is.resolved[tx] != 2 || is.rejected[tx] != 1 {
		t.Fatalf("instrumentation lost calls: resolved=%d rejected=%d", is.resolved[tx], is.rejected[tx])
	}
	select {
	case res := <-tx.Done():
		t.Fatalf("transaction resolved twice: %+v", res)
	default:
	}
}

func TestTransaction_RejectDeliversClassifiedError(t *testing.T) {
	is := newInstrumentedServices(&bytes.Buffer{})

	tx := NewTransaction(unicastCommand(0))
	is.RejectTransaction(tx, Classify(CauseNodeTimeout, tx.Message, nil))

	_, err := tx.Await(context.Background())
	if !IsTransmissionError(err) {
		t.Fatalf("Await error = %v, want a classified error", err)
	}
	var te *TransmissionError
	if !errors.As(err, &te) || te.Code != CodeNodeTimeout {
		t.Errorf("error code = %v, want CodeNodeTimeout", te.Code)
	}
}

func TestTransaction_AwaitHonorsContext(t *testing.T) {
	tx := NewTransaction(serialapi.NewGetVersion())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := tx.Await(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Await = %v, want context.DeadlineExceeded", err)
	}
}

func TestTransaction_ConcurrentResolutionIsSafe(t *testing.T) {
	s := NewServices(&bytes.Buffer{})
	tx := NewTransaction(serialapi.NewGetVersion())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.ResolveTransaction(tx, nil)
			} else {
				s.RejectTransaction(tx, errors.New("raced"))
			}
		}(i)
	}
	wg.Wait()

	// Exactly one outcome, no panic, no deadlock.
	<-tx.Done()
	select {
	case res := <-tx.Done():
		t.Fatalf("transaction resolved twice: %+v", res)
	default:
	}
}
