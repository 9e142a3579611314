// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 LoopAndLearn

package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/loopandlearn/omnikit/pkg/pod"
	"github.com/loopandlearn/omnikit/pkg/podwire"
	"github.com/spf13/cobra"
)

var (
	frameTestTimeout int
	frameTestEmit    bool
)

var frameTestCmd = &cobra.Command{
	Use:   "frame_test",
	Short: "Test connection by waiting for a valid bridge frame",
	Long: `Wait for a valid bridge frame on the connection until timeout.

This command connects to a serial port or WebSocket and waits for any valid
frame. It ignores invalid bytes and waits for a complete frame passing the
CRC check.

With --emit, no connection is made: a set of sample frames (one status report
per legal delivery status, a pod announce, a ping response, and a fault
report) is printed hex-encoded for bench and loopback testing.

Exit codes:
  0 - Frame received before timeout
  1 - Timeout reached without receiving a valid frame
  2 - Connection error

Useful for testing connectivity to a radio bridge.`,
	RunE: runFrameTest,
}

func init() {
	rootCmd.AddCommand(frameTestCmd)
	frameTestCmd.Flags().IntVar(&frameTestTimeout, "timeout", 10, "Timeout in seconds to wait for a frame")
	frameTestCmd.Flags().BoolVar(&frameTestEmit, "emit", false, "Emit hex-encoded sample frames instead of connecting")
}

func runFrameTest(cmd *cobra.Command, args []string) error {
	if frameTestEmit {
		return emitSampleFrames()
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("OmniKit - Frame Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", frameTestTimeout)
	fmt.Printf("Waiting for valid bridge frame...\n\n")

	decoder := podwire.NewDecoder()
	buf := make([]byte, 128)

	frameChan := make(chan *podwire.Frame, 1)
	errChan := make(chan error, 1)

	// Reader goroutine
	go func() {
		invalidBytes := 0
		for {
			n, err := conn.Read(buf)
			if err != nil {
				errChan <- err
				return
			}

			for i := 0; i < n; i++ {
				frame, decodeErr := decoder.DecodeByte(buf[i])
				if decodeErr != nil {
					// Ignore decode errors, just count invalid bytes
					invalidBytes++
					continue
				}
				if frame != nil {
					if invalidBytes > 0 {
						fmt.Printf("(skipped %d invalid bytes before sync)\n", invalidBytes)
					}
					frameChan <- frame
					return
				}
			}
		}
	}()

	select {
	case frame := <-frameChan:
		fmt.Printf("SUCCESS: Received valid frame\n")
		fmt.Printf("  Type: %s (0x%02X)\n", podwire.FormatMessageType(frame.Type()), frame.Type())
		fmt.Printf("  Sequence: %d\n", frame.Sequence())
		fmt.Printf("  Length: %d bytes\n", frame.Length())
		fmt.Printf("  CRC: 0x%04X\n", frame.CRC())
		os.Exit(0)

	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
		os.Exit(2)

	case <-time.After(time.Duration(frameTestTimeout) * time.Second):
		fmt.Fprintf(os.Stderr, "TIMEOUT: No valid frame received within %d seconds\n", frameTestTimeout)
		os.Exit(1)
	}

	return nil
}

// emitSampleFrames prints one encoded frame of each kind the bridge emits
func emitSampleFrames() error {
	var seq uint16

	frames := []*podwire.Frame{
		podwire.NewPodAnnounceFrame(seq, 44172, 1234567, 0),
	}
	for _, status := range pod.AllDeliveryStatuses() {
		seq++
		frames = append(frames, podwire.NewStatusReportFrame(seq, byte(status), 0x2E, 1440))
	}
	seq++
	frames = append(frames, podwire.NewPingResponseFrame(seq, 3600000))
	seq++
	frames = append(frames, podwire.NewFaultReportFrame(seq, 0x14))

	for _, frame := range frames {
		wire, err := podwire.EncodeFrame(frame)
		if err != nil {
			return err
		}
		fmt.Printf("%-13s %s\n", podwire.FormatMessageType(frame.Type()), hex.EncodeToString(wire))
	}

	return nil
}
