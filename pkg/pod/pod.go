// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

package pod

import "time"

// Family identifies a pod hardware generation. A few dosing parameters differ
// between generations; everything else is shared.
type Family int

const (
	// FamilyEros is the 433 MHz pod generation.
	FamilyEros Family = iota
	// FamilyDash is the BLE pod generation.
	FamilyDash
)

// String returns the canonical lowercase family name.
func (f Family) String() string {
	switch f {
	case FamilyEros:
		return "eros"
	case FamilyDash:
		return "dash"
	default:
		return "unknown"
	}
}

// Config holds the per-deployment tunables of the parameter model.
type Config struct {
	// CannulaInsertionUnitsExtra is added to CannulaInsertionUnits when
	// computing the total cannula insertion bolus. Defaults to zero; raise it
	// only for infusion sites that need a larger fill.
	CannulaInsertionUnitsExtra float64
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		CannulaInsertionUnitsExtra: DefaultCannulaInsertionUnitsExtra,
	}
}

// Model is the immutable set of derived dosing and timing parameters for one
// pod family. All sequences are computed once by NewModel; accessors return
// copies, so a Model may be shared freely across goroutines.
type Model struct {
	family Family
	config Config

	zeroBasalRate            float64
	minimumBasalScheduleRate float64

	basalRates         []float64
	tempBasalRates     []float64
	tempBasalDurations []time.Duration
	lowReservoirValues []int
}

// NewModel builds the parameter model for the given family with the stock
// configuration.
func NewModel(family Family) *Model {
	return NewModelWithConfig(family, DefaultConfig())
}

// NewModelWithConfig builds the parameter model for the given family.
func NewModelWithConfig(family Family, config Config) *Model {
	m := &Model{
		family: family,
		config: config,
	}

	switch family {
	case FamilyDash:
		// Dash firmware accepts a literal zero rate.
		m.zeroBasalRate = 0
		m.minimumBasalScheduleRate = 0
	default:
		// Eros rejects a programmed zero; the near-zero rate stands in.
		m.zeroBasalRate = nearZeroBasalRate
		m.minimumBasalScheduleRate = nearZeroBasalRate
	}

	m.basalRates = make([]float64, 0, maxBasalPulsesPerHour)
	for i := 1; i <= maxBasalPulsesPerHour; i++ {
		m.basalRates = append(m.basalRates, float64(i)/PulsesPerUnit)
	}

	m.tempBasalRates = make([]float64, 0, maxBasalPulsesPerHour+1)
	for i := 0; i <= maxBasalPulsesPerHour; i++ {
		m.tempBasalRates = append(m.tempBasalRates, float64(i)/PulsesPerUnit)
	}

	steps := int(MaximumTempBasalDuration / TempBasalDurationStep)
	m.tempBasalDurations = make([]time.Duration, 0, steps)
	for i := 1; i <= steps; i++ {
		m.tempBasalDurations = append(m.tempBasalDurations, time.Duration(i)*TempBasalDurationStep)
	}

	m.lowReservoirValues = make([]int, 0, LowReservoirReminderMax-LowReservoirReminderMin+1)
	for v := LowReservoirReminderMin; v <= LowReservoirReminderMax; v++ {
		m.lowReservoirValues = append(m.lowReservoirValues, v)
	}

	return m
}

// Family returns the pod family this model describes.
func (m *Model) Family() Family {
	return m.family
}

// Config returns the configuration the model was built with.
func (m *Model) Config() Config {
	return m.config
}

// PulseSize returns the volume of one motor pulse, in units.
func (m *Model) PulseSize() float64 {
	return PulseSize
}

// PulsesPerUnit returns the number of pulses in one unit of insulin.
func (m *Model) PulsesPerUnit() float64 {
	return PulsesPerUnit
}

// BolusDeliveryRate returns the immediate bolus delivery rate, in units per
// second.
func (m *Model) BolusDeliveryRate() float64 {
	return PulseSize / BolusPulsePeriod.Seconds()
}

// PrimeDeliveryRate returns the priming delivery rate, in units per second.
func (m *Model) PrimeDeliveryRate() float64 {
	return PulseSize / PrimePulsePeriod.Seconds()
}

// SupportedBasalRates returns every schedulable basal rate in units per hour,
// ascending: one entry per whole pulse count from 1 to 600 pulses/hr.
func (m *Model) SupportedBasalRates() []float64 {
	out := make([]float64, len(m.basalRates))
	copy(out, m.basalRates)
	return out
}

// SupportedTempBasalRates returns every programmable temp basal rate in units
// per hour, ascending. Unlike the schedule rates the sequence starts at a
// true zero.
func (m *Model) SupportedTempBasalRates() []float64 {
	out := make([]float64, len(m.tempBasalRates))
	copy(out, m.tempBasalRates)
	return out
}

// SupportedTempBasalDurations returns every programmable temp basal duration,
// ascending in 30 minute steps up to 12 hours.
func (m *Model) SupportedTempBasalDurations() []time.Duration {
	out := make([]time.Duration, len(m.tempBasalDurations))
	copy(out, m.tempBasalDurations)
	return out
}

// ZeroBasalRate returns this family's representation of "no insulin
// delivered", in units per hour. Exact zero on Dash, the near-zero
// one-pulse-per-hour rate on Eros.
func (m *Model) ZeroBasalRate() float64 {
	return m.zeroBasalRate
}

// MinimumBasalScheduleRate returns the lowest rate a basal schedule entry may
// carry for this family, in units per hour.
func (m *Model) MinimumBasalScheduleRate() float64 {
	return m.minimumBasalScheduleRate
}

// NominalPodLife returns the advertised pod lifetime: service duration less
// the end-of-service and expiration advisory windows. Consumers schedule
// expiration UI from it; the pod's own timers remain authoritative.
func (m *Model) NominalPodLife() time.Duration {
	return NominalPodLife
}

// ServiceDuration returns the maximum total pod runtime.
func (m *Model) ServiceDuration() time.Duration {
	return ServiceDuration
}

// ExpirationAdvisoryWindow returns the replacement advisory window.
func (m *Model) ExpirationAdvisoryWindow() time.Duration {
	return ExpirationAdvisoryWindow
}

// EndOfServiceImminentWindow returns the final window before the forced
// service fault.
func (m *Model) EndOfServiceImminentWindow() time.Duration {
	return EndOfServiceImminentWindow
}

// AllowedLowReservoirReminderValues returns the valid low reservoir reminder
// thresholds in whole units, ascending.
func (m *Model) AllowedLowReservoirReminderValues() []int {
	out := make([]int, len(m.lowReservoirValues))
	copy(out, m.lowReservoirValues)
	return out
}

// ClampLowReservoirReminder clamps a user-configured reminder threshold into
// the allowed range.
func (m *Model) ClampLowReservoirReminder(units int) int {
	if units < LowReservoirReminderMin {
		return LowReservoirReminderMin
	}
	if units > LowReservoirReminderMax {
		return LowReservoirReminderMax
	}
	return units
}

// ExpirationReminderOffsetBounds returns the inclusive bounds on how far
// before nominal expiry the expiration reminder may fire.
func (m *Model) ExpirationReminderOffsetBounds() (min, max time.Duration) {
	return ExpirationReminderOffsetMin, ExpirationReminderOffsetMax
}

// PrimeUnits returns the volume dispensed by the priming self-test.
func (m *Model) PrimeUnits() float64 {
	return PrimeUnits
}

// CannulaInsertionUnits returns the total cannula insertion bolus, including
// any configured extra volume.
func (m *Model) CannulaInsertionUnits() float64 {
	return CannulaInsertionUnits + m.config.CannulaInsertionUnitsExtra
}

// NearestSupportedBasalRate rounds a requested rate to the closest
// schedulable basal rate for this family. Rates at or below the schedule
// floor return the floor.
func (m *Model) NearestSupportedBasalRate(unitsPerHour float64) float64 {
	if unitsPerHour <= m.minimumBasalScheduleRate {
		return m.minimumBasalScheduleRate
	}
	pulses := int(unitsPerHour*PulsesPerUnit + 0.5)
	if pulses < 1 {
		pulses = 1
	}
	if pulses > maxBasalPulsesPerHour {
		pulses = maxBasalPulsesPerHour
	}
	return float64(pulses) / PulsesPerUnit
}
