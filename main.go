// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Cedric Gatay
//
// zwavectl - Z-Wave Serial API driver and analyzer
//
// A CLI tool for driving a Z-Wave controller over its Serial API and
// monitoring the traffic in human-readable format.

package main

import (
	"os"

	"github.com/CedricGatay/zwave-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
