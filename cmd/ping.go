// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Cedric Gatay

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/CedricGatay/zwave-go/pkg/serialapi"
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Query the controller firmware version",
	Long: `Send a GET_VERSION request and print the controller's answer.

This performs one full Serial API command cycle (frame, link-layer ACK,
response), so it doubles as a connectivity check: failures are reported
with their classified cause, e.g. a missing ACK versus a missing response.`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Connection: %s\n", connInfo)

	response, err := sendRequest(context.Background(), conn, serialapi.NewGetVersion())
	if err != nil {
		return fmt.Errorf("ping failed: %s", describeFailure(err))
	}

	version := string(response.Payload)
	if idx := strings.IndexByte(version, 0); idx >= 0 {
		version = version[:idx]
	}
	fmt.Printf("Controller version: %s\n", strings.TrimSpace(version))
	return nil
}
