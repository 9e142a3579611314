// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 LoopAndLearn

package cmd

import (
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/loopandlearn/omnikit/pkg/podwire"
	"github.com/spf13/cobra"
)

var (
	showAll       bool
	statsInterval int
	useTUI        bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the pod bridge stream and flag anomalies",
	Long: `Decode the bridge frame stream in real time, validating every frame.

Each frame is checked for:
  - CRC errors and decode failures
  - Malformed payloads (missing keys, bad types)
  - Unrecognized delivery status codes
  - Suspicious statuses a healthy pod should not report mid-session
  - Out-of-range reservoir and clock values

By default only anomalies are displayed. Use --show-all to display valid
frames too. Periodic statistics summaries are printed at a configurable
interval; with --tui the same data is shown in a live terminal UI.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&showAll, "show-all", false, "Show all frames (not just anomalies)")
	watchCmd.Flags().IntVar(&statsInterval, "stats-interval", 10, "Statistics update interval (seconds)")
	watchCmd.Flags().BoolVar(&useTUI, "tui", true, "Use terminal UI (false for text mode)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	m, err := selectedModel()
	if err != nil {
		return err
	}

	conn, connDesc, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	if useTUI {
		return runWatchTUI(conn, connDesc, m.Family().String())
	}
	return runWatchText(conn, connDesc)
}

// printDecodeError prints a decode error in highlighted format
func printDecodeError(err error) {
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Printf("[%s] \033[1;31mDECODE ERROR:\033[0m %v\n", timestamp, err)
	fmt.Printf("  >>> DECODE FAILED <<<\n\n")
}

// printValidationErrors prints validation errors for a frame
func printValidationErrors(frame *podwire.Frame, errors []podwire.ValidationError) {
	timestamp := frame.Timestamp().Format("15:04:05.000")
	msgType := podwire.FormatMessageType(frame.Type())

	fmt.Printf("[%s] \033[1;33mVALIDATION ERROR:\033[0m %s (0x%02X) seq=%d\n", timestamp, msgType, frame.Type(), frame.Sequence())
	fmt.Printf("  CRC: \033[1;32mOK\033[0m\n")

	for i, err := range errors {
		switch err.Type {
		case podwire.AnomalyUnknownStatus:
			fmt.Printf("  Issue %d: \033[1;31m%s\033[0m\n", i+1, err.Message)
			if code, ok := err.Details["code"].(byte); ok {
				fmt.Printf("    status_code=0x%02X (not a legal delivery status)\n", code)
			}

		case podwire.AnomalySuspiciousStatus:
			fmt.Printf("  Issue %d: \033[1;33m%s\033[0m\n", i+1, err.Message)
			if status, ok := err.Details["status"].(string); ok {
				fmt.Printf("    status=%q\n", status)
			}

		case podwire.AnomalyReservoirRange:
			fmt.Printf("  Issue %d: \033[1;31m%s\033[0m\n", i+1, err.Message)
			if raw, ok := err.Details["raw"].(uint16); ok {
				fmt.Printf("    reservoir_raw=0x%03X (max 0x3FF)\n", raw)
			}

		case podwire.AnomalyClockRange:
			fmt.Printf("  Issue %d: \033[1;33m%s\033[0m\n", i+1, err.Message)
			if minutes, ok := err.Details["minutes"].(uint32); ok {
				fmt.Printf("    minutes_active=%d (max %d)\n", minutes, 80*60)
			}

		case podwire.AnomalyMalformedPayload:
			fmt.Printf("  Issue %d: \033[1;31m%s\033[0m\n", i+1, err.Message)

		default:
			fmt.Printf("  Issue %d: %s\n", i+1, err.Message)
		}
	}

	fmt.Printf("  >>> FRAME REJECTED <<<\n\n")
}

// runWatchTUI runs the watch loop feeding a bubbletea program
func runWatchTUI(conn Connection, connDesc, familyLabel string) error {
	decoder := podwire.NewDecoder()
	synchronized := false
	invalidBytesBeforeSync := 0

	m := initialMonitorModel(connDesc, familyLabel, statsInterval, showAll)
	p := tea.NewProgram(m)

	// Bridge reader goroutine
	go func() {
		buf := make([]byte, 128)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				if err == ErrConnectionClosed {
					p.Send(connLostMsg{})
					return
				}
				log.Printf("Read error: %v", err)
				continue
			}

			for i := 0; i < n; i++ {
				frame, decodeErr := decoder.DecodeByte(buf[i])

				if decodeErr != nil {
					if synchronized {
						p.Send(bridgeDataMsg{
							frame:            nil,
							decodeErr:        decodeErr,
							validationErrors: nil,
						})
					} else {
						invalidBytesBeforeSync++
					}
				} else if frame != nil {
					if !synchronized {
						synchronized = true
						p.Send(syncMsg{invalidBytes: invalidBytesBeforeSync})
					}

					validationErrors := podwire.ValidateFrame(frame)
					p.Send(bridgeDataMsg{
						frame:            frame,
						decodeErr:        nil,
						validationErrors: validationErrors,
					})
				}
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}

	return nil
}

// runWatchText runs the watch loop in plain text mode
func runWatchText(conn Connection, connDesc string) error {
	fmt.Printf("OmniKit - Watch Mode\n")
	fmt.Printf("Connection: %s\n", connDesc)
	fmt.Printf("Statistics interval: %d seconds\n", statsInterval)
	if showAll {
		fmt.Printf("Mode: All frames\n")
	} else {
		fmt.Printf("Mode: Anomalies only\n")
	}
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder := podwire.NewDecoder()
	stats := podwire.NewStatistics()
	buf := make([]byte, 128)

	// Sync tracking - ignore decode errors until the first valid frame
	synchronized := false
	invalidBytesBeforeSync := 0

	statsTicker := time.NewTicker(time.Duration(statsInterval) * time.Second)
	defer statsTicker.Stop()

	// Channel for non-blocking bridge reads
	bridgeBuf := make(chan []byte, 10)
	readErr := make(chan error, 1)
	go func() {
		for {
			n, err := conn.Read(buf)
			if err != nil {
				if err == ErrConnectionClosed {
					readErr <- err
					return
				}
				log.Printf("Read error: %v", err)
				continue
			}
			data := make([]byte, n)
			copy(data, buf[:n])
			bridgeBuf <- data
		}
	}()

	for {
		select {
		case data := <-bridgeBuf:
			for _, b := range data {
				frame, decodeErr := decoder.DecodeByte(b)

				if decodeErr != nil {
					if synchronized {
						stats.Update(nil, decodeErr, nil)
						printDecodeError(decodeErr)
					} else {
						invalidBytesBeforeSync++
					}
				} else if frame != nil {
					if !synchronized {
						synchronized = true
						if invalidBytesBeforeSync > 0 {
							fmt.Printf("[SYNC] Synchronized after skipping %d invalid bytes\n\n", invalidBytesBeforeSync)
						} else {
							fmt.Printf("[SYNC] Synchronized\n\n")
						}
					}

					validationErrors := podwire.ValidateFrame(frame)
					stats.Update(frame, nil, validationErrors)

					if len(validationErrors) > 0 {
						printValidationErrors(frame, validationErrors)
					} else if showAll {
						fmt.Print(podwire.FormatFrame(frame))
						fmt.Println()
					}
				}
			}

		case err := <-readErr:
			fmt.Println()
			fmt.Print(stats.String())
			return err

		case <-statsTicker.C:
			fmt.Println()
			fmt.Print(stats.String())
			fmt.Println()
		}
	}
}
