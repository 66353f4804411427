// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Cedric Gatay

package cmd

import (
	"context"
	"fmt"

	"github.com/CedricGatay/zwave-go/pkg/serialapi"
	"github.com/spf13/cobra"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List the nodes known to the controller",
	Long: `Send a GET_INIT_DATA request and print the node IDs from the
controller's node bitmask.`,
	RunE: runNodes,
}

func init() {
	rootCmd.AddCommand(nodesCmd)
}

func runNodes(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Connection: %s\n", connInfo)

	response, err := sendRequest(context.Background(), conn, serialapi.NewGetInitData())
	if err != nil {
		return fmt.Errorf("node query failed: %s", describeFailure(err))
	}

	// GET_INIT_DATA response: version, capabilities, bitmask length,
	// bitmask bytes, chip type, chip version.
	if len(response.Payload) < 3 {
		return fmt.Errorf("truncated GET_INIT_DATA response (%d bytes)", len(response.Payload))
	}
	maskLen := int(response.Payload[2])
	if len(response.Payload) < 3+maskLen {
		return fmt.Errorf("truncated node bitmask (%d of %d bytes)", len(response.Payload)-3, maskLen)
	}

	nodes := serialapi.ParseNodeBitmask(response.Payload[3 : 3+maskLen])
	if len(nodes) == 0 {
		fmt.Println("No nodes in the controller's network")
		return nil
	}
	fmt.Printf("Nodes (%d):", len(nodes))
	for _, id := range nodes {
		fmt.Printf(" %d", id)
	}
	fmt.Println()
	return nil
}
