// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

package pod

import (
	"fmt"
	"strings"
	"time"
)

// FormatBasalRate formats a basal rate in units per hour.
func FormatBasalRate(unitsPerHour float64) string {
	return fmt.Sprintf("%.2f U/hr", unitsPerHour)
}

// FormatUnits formats an insulin volume.
func FormatUnits(units float64) string {
	return fmt.Sprintf("%.2f U", units)
}

// FormatDuration renders a duration in whole hours and minutes, e.g. "30m",
// "12h", "1h30m".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d - h*time.Hour) / time.Minute
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// FormatDeliveryStatus formats a decoded status with its four delivery facts
// in a multi-line human-readable block.
func FormatDeliveryStatus(s DeliveryStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (0x%02X)\n", s.Label(), uint8(s))
	fmt.Fprintf(&b, "  Suspended:      %s\n", yesNo(s.Suspended()))
	fmt.Fprintf(&b, "  Bolusing:       %s\n", yesNo(s.Bolusing()))
	fmt.Fprintf(&b, "  Temp basal:     %s\n", yesNo(s.TempBasalRunning()))
	fmt.Fprintf(&b, "  Extended bolus: %s\n", yesNo(s.ExtendedBolusRunning()))
	if s.Anomalous() {
		b.WriteString("  Note: anomalous status, flag as suspicious telemetry\n")
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
