// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 LoopAndLearn

package cmd

import (
	"fmt"

	"github.com/loopandlearn/omnikit/pkg/pod"
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Pod family selection
	familyName string

	// Optional defaults file
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "omnikit",
	Short: "Omnipod parameter model and delivery status toolkit",
	Long: `OmniKit - A CLI tool for inspecting Omnipod dosing parameters and decoding
pod delivery status, offline or live from a radio bridge.

Offline commands (decode, rates, info) need no connection. Streaming commands
(watch, ping) talk to a bridge over serial or WebSocket.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the OMNIKIT_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.

Defaults for --port, --baud, --url, --username, and --family may be placed in
a YAML file (default ~/.config/omnikit/config.yaml); explicit flags win.`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentPreRunE = applyConfigDefaults

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Pod family
	rootCmd.PersistentFlags().StringVarP(&familyName, "family", "f", "eros", "Pod family (eros or dash)")

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Defaults file (YAML)")
}

// parseFamily maps a family flag value to its tag
func parseFamily(name string) (pod.Family, error) {
	switch name {
	case "eros":
		return pod.FamilyEros, nil
	case "dash":
		return pod.FamilyDash, nil
	default:
		return 0, fmt.Errorf("unknown pod family %q (use eros or dash)", name)
	}
}

// selectedModel builds the parameter model for the --family flag
func selectedModel() (*pod.Model, error) {
	family, err := parseFamily(familyName)
	if err != nil {
		return nil, err
	}
	return pod.NewModel(family), nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
