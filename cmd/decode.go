// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 LoopAndLearn

package cmd

import (
	"fmt"
	"strconv"

	"github.com/loopandlearn/omnikit/pkg/pod"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <status byte>...",
	Short: "Decode pod delivery status bytes",
	Long: `Decode one or more raw delivery status bytes into their delivery facts.

Bytes may be given in decimal (6) or hex (0x06). Each legal code prints its
label and the four delivery facts; unrecognized codes are reported as errors,
never coerced to a default status.

Examples:
  omnikit decode 0x06
  omnikit decode 0 1 2 4 5 6 8 9 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	var firstErr error

	for _, arg := range args {
		value, err := strconv.ParseUint(arg, 0, 8)
		if err != nil {
			fmt.Printf("%s: not a byte value\n", arg)
			if firstErr == nil {
				firstErr = fmt.Errorf("invalid status byte %q", arg)
			}
			continue
		}

		status, err := pod.DecodeDeliveryStatus(byte(value))
		if err != nil {
			fmt.Printf("0x%02X: %v\n", value, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		fmt.Print(pod.FormatDeliveryStatus(status))
	}

	return firstErr
}
