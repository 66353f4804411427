// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package capture

import (
	"bytes"
	"io"
	"testing"

	"github.com/CedricGatay/zwave-go/pkg/serialapi"
)

func TestCapture_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	tx, err := serialapi.EncodeMessage(serialapi.NewGetVersion())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := w.Write(DirectionTx, tx); err != nil {
		t.Fatalf("write tx: %v", err)
	}
	if err := w.Write(DirectionRx, []byte{serialapi.ACK}); err != nil {
		t.Fatalf("write rx: %v", err)
	}

	r := NewReader(&buf)

	first, err := r.Next()
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	if first.Direction != DirectionTx {
		t.Errorf("first direction = %q, want tx", first.Direction)
	}
	if !bytes.Equal(first.Raw, tx) {
		t.Errorf("first raw = % X, want % X", first.Raw, tx)
	}
	if first.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}

	second, err := r.Next()
	if err != nil {
		t.Fatalf("read second: %v", err)
	}
	if second.Direction != DirectionRx || len(second.Raw) != 1 || second.Raw[0] != serialapi.ACK {
		t.Errorf("unexpected second record: %+v", second)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestCapture_WriterCopiesBuffer(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	raw := []byte{serialapi.SOF, 0x03, 0x00, 0x15, 0xE9}
	if err := w.Write(DirectionRx, raw); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Mutating the caller's buffer must not affect the captured record.
	raw[0] = 0x00

	rec, err := NewReader(&buf).Next()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec.Raw[0] != serialapi.SOF {
		t.Error("writer must copy the raw bytes")
	}
}

func TestCapture_EmptyStream(t *testing.T) {
	if _, err := NewReader(bytes.NewReader(nil)).Next(); err != io.EOF {
		t.Errorf("empty stream should yield io.EOF, got %v", err)
	}
}
