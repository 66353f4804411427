// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Cedric Gatay

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/CedricGatay/zwave-go/pkg/driver"
	"github.com/CedricGatay/zwave-go/pkg/serialapi"
)

// Link-layer timing. The controller must ACK a frame within ackTimeout
// and answer a request within responseTimeout.
const (
	ackTimeout      = 1600 * time.Millisecond
	responseTimeout = 5 * time.Second
)

// sendRequest performs one deliberately linear command cycle over the
// driver's effect boundary: send the frame, await the link-layer ACK,
// then await the matching response. Failures surface as classified
// transmission errors. Unsolicited traffic seen while waiting is reported
// through the Services hook, not dropped.
func sendRequest(ctx context.Context, conn Connection, msg *serialapi.Message) (*serialapi.Message, error) {
	services := driver.NewServices(conn)
	services.NotifyUnsolicited = func(m *serialapi.Message) {
		log.Printf("Unsolicited: %s", serialapi.FormatFunction(m.Function))
	}

	tx := driver.NewTransaction(msg)
	events := make(chan driver.Event, 16)
	relay := driver.NewRelay(func(ev driver.Event) {
		services.NotifyUnsolicited(ev.Message)
	})

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	go readFrames(readCtx, conn, func(ev driver.Event) {
		select {
		case events <- ev:
		case <-readCtx.Done():
		}
	})

	data, err := serialapi.EncodeMessage(msg)
	if err != nil {
		services.RejectTransaction(tx, err)
		return tx.Await(ctx)
	}
	driver.StartSend(ctx, services, data, func(ev driver.Event) {
		select {
		case events <- ev:
		case <-readCtx.Done():
		}
	})

	awaitedResponse := func(m *serialapi.Message) bool {
		return m != nil && m.Type == serialapi.MessageTypeResponse && m.Function == msg.Function
	}

	// Phase 1: the write completes and the controller ACKs the frame.
	deadline := time.NewTimer(ackTimeout)
	defer deadline.Stop()

	acked := false
	for !acked {
		select {
		case ev := <-events:
			switch ev.Type {
			case driver.EventSendDone:
				if ev.Err != nil {
					services.RejectTransaction(tx, driver.Classify(driver.CauseSendFailure, msg, nil))
					return tx.Await(ctx)
				}
			case driver.EventACK:
				acked = true
			case driver.EventNAK:
				services.RejectTransaction(tx, driver.Classify(driver.CauseLinkNAK, msg, nil))
				return tx.Await(ctx)
			case driver.EventCAN:
				services.RejectTransaction(tx, driver.Classify(driver.CauseLinkCollision, msg, nil))
				return tx.Await(ctx)
			case driver.EventMessage:
				relay.Offer(ev, awaitedResponse)
			}
		case <-deadline.C:
			services.RejectTransaction(tx, driver.Classify(driver.CauseACKTimeout, msg, nil))
			return tx.Await(ctx)
		case <-ctx.Done():
			services.RejectTransaction(tx, ctx.Err())
			return tx.Await(ctx)
		}
	}

	// Phase 2: the matching response arrives.
	deadline.Reset(responseTimeout)
	for {
		select {
		case ev := <-events:
			if ev.Type != driver.EventMessage {
				continue
			}
			if !awaitedResponse(ev.Message) {
				relay.Offer(ev, awaitedResponse)
				continue
			}
			// Link-layer courtesy: acknowledge the data frame.
			if _, err := conn.Write([]byte{serialapi.ACK}); err != nil {
				log.Printf("ACK write error: %v", err)
			}
			services.ResolveTransaction(tx, ev.Message)
			return tx.Await(ctx)
		case <-deadline.C:
			services.RejectTransaction(tx, driver.Classify(driver.CauseResponseTimeout, msg, nil))
			return tx.Await(ctx)
		case <-ctx.Done():
			services.RejectTransaction(tx, ctx.Err())
			return tx.Await(ctx)
		}
	}
}

// readFrames pumps decoded frames from the connection into events until
// the context is cancelled.
func readFrames(ctx context.Context, conn Connection, emit func(driver.Event)) {
	decoder := serialapi.NewDecoder()
	buf := make([]byte, 256)

	for ctx.Err() == nil {
		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil || err == ErrConnectionClosed {
				return
			}
			log.Printf("Read error: %v", err)
			continue
		}
		for i := 0; i < n; i++ {
			frame, err := decoder.DecodeByte(buf[i])
			if err != nil {
				log.Printf("Decode error: %v", err)
				continue
			}
			if frame == nil {
				continue
			}
			switch frame.Kind {
			case serialapi.FrameACK:
				emit(driver.Event{Type: driver.EventACK})
			case serialapi.FrameNAK:
				emit(driver.Event{Type: driver.EventNAK})
			case serialapi.FrameCAN:
				emit(driver.Event{Type: driver.EventCAN})
			case serialapi.FrameData:
				emit(driver.Event{Type: driver.EventMessage, Message: frame.Message})
			}
		}
	}
}

// describeFailure renders a classified error with its code for the CLI.
func describeFailure(err error) string {
	var te *driver.TransmissionError
	if errors.As(err, &te) {
		return fmt.Sprintf("%s [%s]", te.Error(), te.Code)
	}
	return err.Error()
}
