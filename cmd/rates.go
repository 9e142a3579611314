// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 LoopAndLearn

package cmd

import (
	"fmt"

	"github.com/loopandlearn/omnikit/pkg/pod"
	"github.com/spf13/cobra"
)

var ratesVerbose bool

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "List supported basal rates, temp basal rates, and durations",
	Long: `List every programmable basal rate, temp basal rate, and temp basal
duration for the selected pod family, plus the reminder threshold ranges.

By default only the range of each sequence is shown; --all prints every value.`,
	RunE: runRates,
}

func init() {
	rootCmd.AddCommand(ratesCmd)
	ratesCmd.Flags().BoolVar(&ratesVerbose, "all", false, "Print every value, not just the ranges")
}

func runRates(cmd *cobra.Command, args []string) error {
	m, err := selectedModel()
	if err != nil {
		return err
	}

	basal := m.SupportedBasalRates()
	temp := m.SupportedTempBasalRates()
	durations := m.SupportedTempBasalDurations()

	fmt.Printf("Pod family: %s\n\n", m.Family())

	fmt.Printf("Basal rates: %d steps of %s, %s to %s\n",
		len(basal), pod.FormatBasalRate(m.PulseSize()),
		pod.FormatBasalRate(basal[0]), pod.FormatBasalRate(basal[len(basal)-1]))
	if ratesVerbose {
		printRates(basal)
	}

	fmt.Printf("Temp basal rates: %d steps, %s to %s (includes zero)\n",
		len(temp), pod.FormatBasalRate(temp[0]), pod.FormatBasalRate(temp[len(temp)-1]))
	if ratesVerbose {
		printRates(temp)
	}

	fmt.Printf("Temp basal durations: %d steps, %s to %s in %s increments\n",
		len(durations), pod.FormatDuration(durations[0]),
		pod.FormatDuration(durations[len(durations)-1]), pod.FormatDuration(pod.TempBasalDurationStep))
	if ratesVerbose {
		for i, d := range durations {
			if i > 0 && i%8 == 0 {
				fmt.Println()
			}
			fmt.Printf("%8s", pod.FormatDuration(d))
		}
		fmt.Println()
	}

	fmt.Printf("Zero basal representation: %s\n", pod.FormatBasalRate(m.ZeroBasalRate()))
	fmt.Printf("Basal schedule floor: %s\n", pod.FormatBasalRate(m.MinimumBasalScheduleRate()))

	reminders := m.AllowedLowReservoirReminderValues()
	fmt.Printf("Low reservoir reminder: %d to %d U\n", reminders[0], reminders[len(reminders)-1])

	minOffset, maxOffset := m.ExpirationReminderOffsetBounds()
	fmt.Printf("Expiration reminder offset: %s to %s before expiry\n",
		pod.FormatDuration(minOffset), pod.FormatDuration(maxOffset))

	return nil
}

func printRates(rates []float64) {
	for i, r := range rates {
		if i > 0 && i%8 == 0 {
			fmt.Println()
		}
		fmt.Printf("%12s", pod.FormatBasalRate(r))
	}
	fmt.Println()
}
