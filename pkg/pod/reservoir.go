// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

package pod

import "fmt"

// ReservoirReading is a decoded reservoir level report. The pod reports the
// level as a 10-bit pulse count; the all-ones value is a sentinel meaning
// "more than 50 units remain", not a measurement. The sentinel is kept as a
// distinct case so it can never leak into dose arithmetic.
type ReservoirReading struct {
	raw uint16
}

// DecodeReservoirReading decodes the raw 10-bit reservoir field. Values that
// do not fit in 10 bits cannot come from the device and are rejected.
func DecodeReservoirReading(raw uint16) (ReservoirReading, error) {
	if raw > ReservoirAboveThresholdRaw {
		return ReservoirReading{}, fmt.Errorf("reservoir value out of range: 0x%03X (max 0x%03X)", raw, ReservoirAboveThresholdRaw)
	}
	return ReservoirReading{raw: raw}, nil
}

// Raw returns the raw 10-bit field.
func (r ReservoirReading) Raw() uint16 {
	return r.raw
}

// AboveThreshold reports whether the reading is the above-threshold sentinel.
func (r ReservoirReading) AboveThreshold() bool {
	return r.raw == ReservoirAboveThresholdRaw
}

// Units returns the measured level in units. ok is false for the
// above-threshold sentinel, which carries no measurable level.
func (r ReservoirReading) Units() (level float64, ok bool) {
	if r.AboveThreshold() {
		return 0, false
	}
	return float64(r.raw) / PulsesPerUnit, true
}

// String renders the reading for logs and display.
func (r ReservoirReading) String() string {
	if level, ok := r.Units(); ok {
		return fmt.Sprintf("%.2f U", level)
	}
	return fmt.Sprintf(">%.0f U", MaximumReservoirReading)
}
