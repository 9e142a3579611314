// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

// Package pod models the fixed physical and timing parameters of an Omnipod
// insulin pump ("pod") and decodes its wire-level delivery status byte.
//
// The package has two halves: a device parameter model (pulse-to-unit
// arithmetic, legal basal/temp-basal ranges, lifecycle windows, reservoir
// interpretation) and a delivery status decoder that maps the pod's compact
// status code onto four independent delivery facts. Everything here is a pure
// function or an immutable value computed once at construction; nothing does
// I/O and every value may be shared across goroutines without locking.
package pod

import "time"

// Pulse mechanics. One motor pulse dispenses a fixed insulin volume; all
// dosing arithmetic derives from it.
const (
	// PulseSize is the insulin volume of a single motor pulse, in units.
	PulseSize = 0.05

	// PulsesPerUnit is the number of motor pulses in one unit of insulin.
	PulsesPerUnit = 1 / PulseSize

	// BolusPulsePeriod is the time between pulses during normal bolus delivery.
	BolusPulsePeriod = 2 * time.Second

	// PrimePulsePeriod is the time between pulses during priming.
	PrimePulsePeriod = 1 * time.Second
)

// Basal and temp basal programming limits
const (
	// maxBasalPulsesPerHour bounds the programmable basal rate range; the
	// highest schedulable rate is 600 pulses/hr (30 U/hr).
	maxBasalPulsesPerHour = 600

	TempBasalDurationStep  = 30 * time.Minute
	MaximumTempBasalDuration = 12 * time.Hour
)

// Pod lifecycle windows, measured from pod start. The pod's own timers are
// authoritative; these drive advisory UI only.
const (
	// ServiceDuration is the maximum total runtime before the pod forces a
	// hard fault and stops delivery.
	ServiceDuration = 80 * time.Hour

	// EndOfServiceImminentWindow is the final window before the service
	// duration fault.
	EndOfServiceImminentWindow = 1 * time.Hour

	// ExpirationAdvisoryWindow is the window before end-of-service-imminent
	// during which the pod advises replacement.
	ExpirationAdvisoryWindow = 7 * time.Hour

	// NominalPodLife is the advertised pod lifetime: the service duration
	// less both advisory windows.
	NominalPodLife = ServiceDuration - EndOfServiceImminentWindow - ExpirationAdvisoryWindow
)

// Reservoir model. The pod reports its fill level as a 10-bit pulse count.
// Levels above MaximumReservoirReading are indistinguishable and reported
// with the all-ones sentinel, which is NOT a real reading.
const (
	// MaximumReservoirReading is the highest distinguishable level, in units.
	MaximumReservoirReading = 50.0

	// ReservoirAboveThresholdRaw is the raw sentinel for "more than
	// MaximumReservoirReading units remain".
	ReservoirAboveThresholdRaw = 0x3FF

	// ReservoirAboveThresholdUnits is the sentinel converted through the
	// pulse arithmetic (51.15 U). Kept distinct from MaximumReservoirReading;
	// it must never be treated as a measured level.
	ReservoirAboveThresholdUnits = ReservoirAboveThresholdRaw / PulsesPerUnit

	// ReservoirCapacity is the physical capacity of the reservoir, in units.
	ReservoirCapacity = 200.0
)

// Basal schedule configuration bounds
const (
	MinimumBasalScheduleEntryCount = 1
	MaximumBasalScheduleEntryCount = 24

	MinimumBasalScheduleEntryDuration = 30 * time.Minute
)

// Reminder configuration bounds
const (
	// LowReservoirReminderMin/Max bound the user-configurable low reservoir
	// reminder threshold, in whole units.
	LowReservoirReminderMin = 1
	LowReservoirReminderMax = 50

	// ExpirationReminderOffsetMin/Max bound how far before nominal expiry the
	// expiration reminder may fire. Offsets beyond the advisory window would
	// fire before the window opens.
	ExpirationReminderOffsetMin = 1 * time.Hour
	ExpirationReminderOffsetMax = 24 * time.Hour
)

// Priming and cannula insertion
const (
	// PrimeUnits is the fixed volume dispensed by the priming self-test.
	PrimeUnits = 2.6

	// CannulaInsertionUnits is the fixed bolus delivered when the cannula is
	// inserted.
	CannulaInsertionUnits = 0.5

	// DefaultCannulaInsertionUnitsExtra is the default additional volume on
	// top of CannulaInsertionUnits. Tunable through Config; zero on stock
	// pods.
	DefaultCannulaInsertionUnitsExtra = 0.0
)

// nearZeroBasalRate is the smallest programmable non-zero rate, one pulse per
// hour. Eros pods cannot program a true zero rate and use this instead.
const nearZeroBasalRate = PulseSize
