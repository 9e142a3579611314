// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 LoopAndLearn

package cmd

import (
	"fmt"

	"github.com/loopandlearn/omnikit/pkg/pod"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the pod parameter model",
	Long: `Print the full parameter model for the selected pod family: pulse
arithmetic, delivery rates, lifetime windows, the reservoir model, and
schedule limits.`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := selectedModel()
	if err != nil {
		return err
	}

	fmt.Printf("Pod family: %s\n\n", m.Family())

	fmt.Println("Pulse mechanics:")
	fmt.Printf("  Pulse size:          %s\n", pod.FormatUnits(m.PulseSize()))
	fmt.Printf("  Pulses per unit:     %.0f\n", m.PulsesPerUnit())
	fmt.Printf("  Bolus delivery rate: %.3f U/s (one pulse per %s)\n", m.BolusDeliveryRate(), pod.BolusPulsePeriod)
	fmt.Printf("  Prime delivery rate: %.3f U/s (one pulse per %s)\n", m.PrimeDeliveryRate(), pod.PrimePulsePeriod)

	fmt.Println("\nLifetime (from pod start):")
	fmt.Printf("  Nominal life:        %s\n", pod.FormatDuration(m.NominalPodLife()))
	fmt.Printf("  Expiration advisory: %s window after nominal life\n", pod.FormatDuration(m.ExpirationAdvisoryWindow()))
	fmt.Printf("  End of service:      %s window before hard fault\n", pod.FormatDuration(m.EndOfServiceImminentWindow()))
	fmt.Printf("  Service duration:    %s (hard fault)\n", pod.FormatDuration(m.ServiceDuration()))

	fmt.Println("\nReservoir:")
	fmt.Printf("  Capacity:            %s\n", pod.FormatUnits(pod.ReservoirCapacity))
	fmt.Printf("  Maximum reading:     %s (higher levels report the above-threshold sentinel)\n", pod.FormatUnits(pod.MaximumReservoirReading))

	fmt.Println("\nPriming:")
	fmt.Printf("  Prime bolus:         %s\n", pod.FormatUnits(m.PrimeUnits()))
	fmt.Printf("  Cannula insertion:   %s\n", pod.FormatUnits(m.CannulaInsertionUnits()))

	fmt.Println("\nBasal schedule limits:")
	fmt.Printf("  Entries:             %d to %d\n", pod.MinimumBasalScheduleEntryCount, pod.MaximumBasalScheduleEntryCount)
	fmt.Printf("  Minimum entry:       %s\n", pod.FormatDuration(pod.MinimumBasalScheduleEntryDuration))
	fmt.Printf("  Rate floor:          %s\n", pod.FormatBasalRate(m.MinimumBasalScheduleRate()))

	return nil
}
