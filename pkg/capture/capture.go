// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

// Package capture records raw Serial API traffic to a CBOR stream so
// sessions can be replayed and inspected offline.
package capture

import (
	"errors"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Direction of a captured chunk relative to the host.
const (
	DirectionRx = "rx"
	DirectionTx = "tx"
)

// Record is one captured chunk of raw link bytes.
type Record struct {
	Timestamp time.Time `cbor:"1,keyasint"`
	Direction string    `cbor:"2,keyasint"`
	Raw       []byte    `cbor:"3,keyasint"`
}

// Writer appends records to a CBOR stream.
type Writer struct {
	enc *cbor.Encoder
}

// NewWriter creates a capture writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: cbor.NewEncoder(w)}
}

// Write appends one record with the current time.
func (w *Writer) Write(direction string, raw []byte) error {
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return w.enc.Encode(Record{
		Timestamp: time.Now(),
		Direction: direction,
		Raw:       buf,
	})
}

// Reader iterates over a CBOR capture stream.
type Reader struct {
	dec *cbor.Decoder
}

// NewReader creates a capture reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at end of stream.
func (r *Reader) Next() (*Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return &rec, nil
}
