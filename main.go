// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn
//
// OmniKit - Omnipod Parameter Model and Delivery Status Toolkit
//
// A CLI tool for inspecting Omnipod dosing parameters and decoding pod
// delivery status, offline or live from a radio bridge.

package main

import (
	"os"

	"github.com/loopandlearn/omnikit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
