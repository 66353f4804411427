// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Cedric Gatay

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/CedricGatay/zwave-go/pkg/capture"
	"github.com/CedricGatay/zwave-go/pkg/serialapi"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <capture-file>",
	Short: "Decode and display a recorded capture file",
	Long: `Read a capture file produced by 'monitor --capture' and display its
frames the same way the live monitor would.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open capture file: %v", err)
	}
	defer f.Close()

	reader := capture.NewReader(f)
	decoder := serialapi.NewDecoder()
	stats := serialapi.NewStatistics()

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("capture read error: %v", err)
		}

		// Only received traffic runs through the decoder; transmitted
		// chunks are shown as-is.
		if rec.Direction == capture.DirectionTx {
			fmt.Printf("[%s] TX % X\n", rec.Timestamp.Format("15:04:05.000"), rec.Raw)
			continue
		}

		for _, b := range rec.Raw {
			frame, err := decoder.DecodeByte(b)
			stats.Update(frame, err)
			if err != nil {
				fmt.Printf("[ERROR] %v\n", err)
				continue
			}
			if frame != nil {
				fmt.Print(serialapi.FormatFrame(frame))
			}
		}
	}

	fmt.Println()
	fmt.Print(stats.String())
	return nil
}
