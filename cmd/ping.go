// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 LoopAndLearn

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/loopandlearn/omnikit/pkg/podwire"
	"github.com/spf13/cobra"
)

var (
	pingTimeout int
	pingCount   int
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test the bridge link by sending PING_REQUEST frames",
	Long: `Send PING_REQUEST frames to the radio bridge and wait for PING_RESPONSE.

The bridge answers pings itself (they are not relayed to the pod) with a
PING_RESPONSE carrying its uptime.

This is useful for verifying:
  - The serial or WebSocket connection is established
  - HTTP Basic authentication works (WebSocket)
  - The bridge is processing frames
  - Bidirectional frame flow works

Exit codes:
  0 - All pings successful
  1 - One or more pings failed/timed out
  2 - Connection error`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVar(&pingTimeout, "timeout", 5, "Timeout in seconds for each ping")
	pingCmd.Flags().IntVar(&pingCount, "count", 3, "Number of pings to send")
}

func runPing(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("OmniKit - Bridge Ping Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds per ping\n", pingTimeout)
	fmt.Printf("Count: %d pings\n\n", pingCount)

	decoder := podwire.NewDecoder()
	successCount := 0
	failCount := 0

	for i := 1; i <= pingCount; i++ {
		fmt.Printf("Ping %d/%d: ", i, pingCount)

		pingFrame := podwire.NewPingRequestFrame(uint16(i))
		wireBytes, err := podwire.EncodeFrame(pingFrame)
		if err != nil {
			fmt.Printf("ENCODE FAILED: %v\n", err)
			failCount++
			continue
		}

		startTime := time.Now()
		_, err = conn.Write(wireBytes)
		if err != nil {
			fmt.Printf("SEND FAILED: %v\n", err)
			failCount++
			continue
		}

		// Wait for PING_RESPONSE
		responseChan := make(chan *podwire.Frame, 1)
		errChan := make(chan error, 1)

		go func() {
			buf := make([]byte, 128)
			for {
				n, err := conn.Read(buf)
				if err != nil {
					errChan <- err
					return
				}

				for j := 0; j < n; j++ {
					frame, decodeErr := decoder.DecodeByte(buf[j])
					if decodeErr != nil {
						// Ignore decode errors
						continue
					}
					if frame != nil {
						if frame.Type() == podwire.MsgPingResponse {
							responseChan <- frame
							return
						}
						// Ignore non-ping frames (status reports, etc.)
					}
				}
			}
		}()

		select {
		case frame := <-responseChan:
			rtt := time.Since(startTime)
			uptime, err := podwire.ParsePingResponse(frame)
			if err != nil {
				fmt.Printf("MALFORMED RESPONSE: %v\n", err)
				failCount++
				break
			}
			fmt.Printf("PONG from bridge, uptime=%v, rtt=%v\n",
				uptime.Truncate(time.Second), rtt.Round(time.Millisecond))
			successCount++

		case err := <-errChan:
			fmt.Printf("READ FAILED: %v\n", err)
			failCount++

		case <-time.After(time.Duration(pingTimeout) * time.Second):
			fmt.Printf("TIMEOUT (no response in %ds)\n", pingTimeout)
			failCount++
		}

		// Small delay between pings
		if i < pingCount {
			time.Sleep(100 * time.Millisecond)
		}
	}

	fmt.Printf("\n--- Ping statistics ---\n")
	fmt.Printf("%d pings sent, %d responses received, %.0f%% frame loss\n",
		pingCount, successCount, float64(failCount)/float64(pingCount)*100)

	if failCount > 0 {
		os.Exit(1)
	}
	return nil
}
