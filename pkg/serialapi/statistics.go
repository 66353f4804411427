// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay

package serialapi

import (
	"fmt"
	"strings"
	"time"
)

// Statistics tracks link-level frame counts and error rates.
type Statistics struct {
	StartTime time.Time

	TotalFrames    uint64
	DataFrames     uint64
	ACKFrames      uint64
	NAKFrames      uint64
	CANFrames      uint64
	ChecksumErrors uint64
	DecodeErrors   uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{StartTime: time.Now()}
}

// Update records one decoder outcome: a frame, a decode error, or both nil
// for an incomplete frame (ignored).
func (s *Statistics) Update(frame *Frame, decodeErr error) {
	if decodeErr != nil {
		s.TotalFrames++
		if strings.HasPrefix(decodeErr.Error(), "checksum mismatch") {
			s.ChecksumErrors++
		} else {
			s.DecodeErrors++
		}
		return
	}
	if frame == nil {
		return
	}

	s.TotalFrames++
	switch frame.Kind {
	case FrameData:
		s.DataFrames++
	case FrameACK:
		s.ACKFrames++
	case FrameNAK:
		s.NAKFrames++
	case FrameCAN:
		s.CANFrames++
	}
}

// CalculateRates updates the derived per-second rates.
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed <= 0 {
		return
	}
	s.FrameRate = float64(s.TotalFrames) / elapsed
	s.ErrorRate = float64(s.ChecksumErrors+s.DecodeErrors) / elapsed
}

// Reset clears all counters and restarts the measurement window.
func (s *Statistics) Reset() {
	*s = Statistics{StartTime: time.Now()}
}

// String renders a summary suitable for the monitor and TUI.
func (s *Statistics) String() string {
	var b strings.Builder
	b.WriteString("Link Statistics\n")
	fmt.Fprintf(&b, "  Total Frames:    %d\n", s.TotalFrames)
	fmt.Fprintf(&b, "  Data:            %d\n", s.DataFrames)
	fmt.Fprintf(&b, "  ACK/NAK/CAN:     %d/%d/%d\n", s.ACKFrames, s.NAKFrames, s.CANFrames)
	fmt.Fprintf(&b, "  Checksum Errors: %d\n", s.ChecksumErrors)
	fmt.Fprintf(&b, "  Decode Errors:   %d\n", s.DecodeErrors)
	return b.String()
}
