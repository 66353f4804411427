// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Cedric Gatay

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/CedricGatay/zwave-go/pkg/capture"
	"github.com/CedricGatay/zwave-go/pkg/serialapi"
	"github.com/spf13/cobra"
)

var (
	monitorAutoACK     bool
	monitorCaptureFile string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Display live Serial API traffic in human-readable format",
	Long: `Continuously decode and display Serial API frames as they arrive.

Each frame is shown with timestamp, direction at the link layer (ACK/NAK/CAN
or data), function name and decoded payload where known.

With --ack, data frames are acknowledged at the link layer so a controller
waiting for host ACKs keeps talking. With --capture, raw traffic is also
recorded to a replayable capture file.

Supports both serial and WebSocket connections.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().BoolVar(&monitorAutoACK, "ack", false, "Acknowledge received data frames at the link layer")
	monitorCmd.Flags().StringVar(&monitorCaptureFile, "capture", "", "Record raw traffic to a capture file")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	var cap *capture.Writer
	if monitorCaptureFile != "" {
		f, err := os.Create(monitorCaptureFile)
		if err != nil {
			return fmt.Errorf("failed to create capture file: %v", err)
		}
		defer f.Close()
		cap = capture.NewWriter(f)
	}

	fmt.Printf("zwavectl - Live Frame Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder := serialapi.NewDecoder()
	stats := serialapi.NewStatistics()
	buf := make([]byte, 256)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			// A WebSocket read error means the bridge is gone for good
			if err == ErrConnectionClosed {
				log.Printf("Connection closed")
				fmt.Print(stats.String())
				return nil
			}
			log.Printf("Read error: %v", err)
			continue
		}

		if cap != nil && n > 0 {
			if err := cap.Write(capture.DirectionRx, buf[:n]); err != nil {
				log.Printf("Capture write error: %v", err)
			}
		}

		for i := 0; i < n; i++ {
			frame, err := decoder.DecodeByte(buf[i])
			stats.Update(frame, err)
			if err != nil {
				fmt.Printf("[ERROR] %v\n", err)
				continue
			}
			if frame == nil {
				continue
			}

			fmt.Print(serialapi.FormatFrame(frame))

			if monitorAutoACK && frame.Kind == serialapi.FrameData {
				if _, err := conn.Write([]byte{serialapi.ACK}); err != nil {
					log.Printf("ACK write error: %v", err)
				} else if cap != nil {
					if err := cap.Write(capture.DirectionTx, []byte{serialapi.ACK}); err != nil {
						log.Printf("Capture write error: %v", err)
					}
				}
			}
		}
	}
}
