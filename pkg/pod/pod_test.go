// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

package pod

import (
	"math"
	"testing"
	"time"
)

const floatTolerance = 1e-12

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}

// ============================================================
// Pulse arithmetic identities
// ============================================================

func TestPulseArithmetic_Identity(t *testing.T) {
	m := NewModel(FamilyEros)

	if !almostEqual(m.PulseSize()*m.PulsesPerUnit(), 1.0) {
		t.Errorf("PulseSize * PulsesPerUnit = %v, want 1", m.PulseSize()*m.PulsesPerUnit())
	}
	if !almostEqual(m.PulsesPerUnit(), 1.0/m.PulseSize()) {
		t.Errorf("PulsesPerUnit = %v, want 1/PulseSize = %v", m.PulsesPerUnit(), 1.0/m.PulseSize())
	}
}

func TestDeliveryRates_RateTimesTimeIsVolume(t *testing.T) {
	m := NewModel(FamilyEros)

	if !almostEqual(m.BolusDeliveryRate()*BolusPulsePeriod.Seconds(), PulseSize) {
		t.Errorf("bolus rate * pulse period = %v, want %v", m.BolusDeliveryRate()*BolusPulsePeriod.Seconds(), PulseSize)
	}
	if !almostEqual(m.PrimeDeliveryRate()*PrimePulsePeriod.Seconds(), PulseSize) {
		t.Errorf("prime rate * pulse period = %v, want %v", m.PrimeDeliveryRate()*PrimePulsePeriod.Seconds(), PulseSize)
	}
	if !almostEqual(m.BolusDeliveryRate(), 0.025) {
		t.Errorf("BolusDeliveryRate = %v, want 0.025 U/s", m.BolusDeliveryRate())
	}
	if !almostEqual(m.PrimeDeliveryRate(), 0.05) {
		t.Errorf("PrimeDeliveryRate = %v, want 0.05 U/s", m.PrimeDeliveryRate())
	}
}

// ============================================================
// Derived sequences
// ============================================================

func TestSupportedBasalRates_GeneratorRule(t *testing.T) {
	m := NewModel(FamilyEros)
	rates := m.SupportedBasalRates()

	if len(rates) != 600 {
		t.Fatalf("len(SupportedBasalRates) = %d, want 600", len(rates))
	}
	for i, rate := range rates {
		want := float64(i+1) / m.PulsesPerUnit()
		if !almostEqual(rate, want) {
			t.Fatalf("rate[%d] = %v, want %v", i, rate, want)
		}
		if i > 0 && rate <= rates[i-1] {
			t.Fatalf("rates not strictly ascending at index %d: %v <= %v", i, rate, rates[i-1])
		}
	}
	if !almostEqual(rates[0], 0.05) {
		t.Errorf("first rate = %v, want 0.05", rates[0])
	}
	if !almostEqual(rates[len(rates)-1], 30.0) {
		t.Errorf("last rate = %v, want 30.0", rates[len(rates)-1])
	}
}

func TestSupportedTempBasalRates_GeneratorRule(t *testing.T) {
	m := NewModel(FamilyEros)
	rates := m.SupportedTempBasalRates()

	if len(rates) != 601 {
		t.Fatalf("len(SupportedTempBasalRates) = %d, want 601", len(rates))
	}
	if rates[0] != 0 {
		t.Errorf("first temp basal rate = %v, want exact 0", rates[0])
	}
	for i, rate := range rates {
		want := float64(i) / m.PulsesPerUnit()
		if !almostEqual(rate, want) {
			t.Fatalf("rate[%d] = %v, want %v", i, rate, want)
		}
		if i > 0 && rate <= rates[i-1] {
			t.Fatalf("rates not strictly ascending at index %d", i)
		}
	}
}

func TestSupportedTempBasalDurations(t *testing.T) {
	m := NewModel(FamilyEros)
	durations := m.SupportedTempBasalDurations()

	if len(durations) != 24 {
		t.Fatalf("len(SupportedTempBasalDurations) = %d, want 24", len(durations))
	}
	if durations[0] != 30*time.Minute {
		t.Errorf("first duration = %v, want 30m", durations[0])
	}
	if durations[len(durations)-1] != 12*time.Hour {
		t.Errorf("last duration = %v, want 12h", durations[len(durations)-1])
	}
	for i := 1; i < len(durations); i++ {
		if durations[i]-durations[i-1] != 30*time.Minute {
			t.Fatalf("duration step at index %d = %v, want 30m", i, durations[i]-durations[i-1])
		}
	}
}

func TestAllowedLowReservoirReminderValues(t *testing.T) {
	m := NewModel(FamilyDash)
	values := m.AllowedLowReservoirReminderValues()

	if len(values) != 50 {
		t.Fatalf("len = %d, want 50", len(values))
	}
	for i, v := range values {
		if v != i+1 {
			t.Fatalf("values[%d] = %d, want %d", i, v, i+1)
		}
	}
}

func TestAccessors_ReturnCopies(t *testing.T) {
	m := NewModel(FamilyEros)

	rates := m.SupportedBasalRates()
	rates[0] = 999
	if m.SupportedBasalRates()[0] == 999 {
		t.Error("SupportedBasalRates returned a shared slice")
	}

	values := m.AllowedLowReservoirReminderValues()
	values[0] = 999
	if m.AllowedLowReservoirReminderValues()[0] == 999 {
		t.Error("AllowedLowReservoirReminderValues returned a shared slice")
	}
}

// ============================================================
// Lifecycle windows
// ============================================================

func TestNominalPodLife_Identity(t *testing.T) {
	m := NewModel(FamilyEros)

	want := m.ServiceDuration() - m.EndOfServiceImminentWindow() - m.ExpirationAdvisoryWindow()
	if m.NominalPodLife() != want {
		t.Errorf("NominalPodLife = %v, want %v", m.NominalPodLife(), want)
	}
	if m.NominalPodLife() <= 0 {
		t.Errorf("NominalPodLife = %v, want > 0", m.NominalPodLife())
	}
	if m.NominalPodLife() != 72*time.Hour {
		t.Errorf("NominalPodLife = %v, want 72h", m.NominalPodLife())
	}
}

func TestLifecycleWindows_Ordering(t *testing.T) {
	// From pod start: nominal life, then advisory window, then
	// end-of-service window, then the hard fault.
	advisoryStart := NominalPodLife
	imminentStart := advisoryStart + ExpirationAdvisoryWindow

	if !(advisoryStart < imminentStart && imminentStart < ServiceDuration) {
		t.Errorf("windows not strictly ordered: %v, %v, %v", advisoryStart, imminentStart, ServiceDuration)
	}
	if imminentStart+EndOfServiceImminentWindow != ServiceDuration {
		t.Errorf("windows do not tile the service duration")
	}
}

// ============================================================
// Per-family configuration
// ============================================================

func TestFamilyDifferences(t *testing.T) {
	tests := []struct {
		family        Family
		zeroBasalRate float64
		scheduleFloor float64
	}{
		{FamilyEros, 0.05, 0.05},
		{FamilyDash, 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.family.String(), func(t *testing.T) {
			m := NewModel(tt.family)
			if !almostEqual(m.ZeroBasalRate(), tt.zeroBasalRate) {
				t.Errorf("ZeroBasalRate = %v, want %v", m.ZeroBasalRate(), tt.zeroBasalRate)
			}
			if !almostEqual(m.MinimumBasalScheduleRate(), tt.scheduleFloor) {
				t.Errorf("MinimumBasalScheduleRate = %v, want %v", m.MinimumBasalScheduleRate(), tt.scheduleFloor)
			}
		})
	}
}

func TestCannulaInsertionUnits_ConfigExtra(t *testing.T) {
	m := NewModel(FamilyEros)
	if !almostEqual(m.CannulaInsertionUnits(), 0.5) {
		t.Errorf("default CannulaInsertionUnits = %v, want 0.5", m.CannulaInsertionUnits())
	}

	cfg := DefaultConfig()
	cfg.CannulaInsertionUnitsExtra = 0.35
	m = NewModelWithConfig(FamilyEros, cfg)
	if !almostEqual(m.CannulaInsertionUnits(), 0.85) {
		t.Errorf("CannulaInsertionUnits with extra = %v, want 0.85", m.CannulaInsertionUnits())
	}
}

func TestClampLowReservoirReminder(t *testing.T) {
	m := NewModel(FamilyEros)

	tests := []struct {
		in, want int
	}{
		{0, 1},
		{-5, 1},
		{1, 1},
		{25, 25},
		{50, 50},
		{51, 50},
	}
	for _, tt := range tests {
		if got := m.ClampLowReservoirReminder(tt.in); got != tt.want {
			t.Errorf("ClampLowReservoirReminder(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestExpirationReminderOffsetBounds(t *testing.T) {
	m := NewModel(FamilyDash)
	min, max := m.ExpirationReminderOffsetBounds()
	if min != time.Hour || max != 24*time.Hour {
		t.Errorf("bounds = %v, %v, want 1h, 24h", min, max)
	}
}

func TestNearestSupportedBasalRate(t *testing.T) {
	eros := NewModel(FamilyEros)
	dash := NewModel(FamilyDash)

	tests := []struct {
		name string
		m    *Model
		in   float64
		want float64
	}{
		{"exact rate", eros, 1.25, 1.25},
		{"rounds down", eros, 1.26, 1.25},
		{"rounds up", eros, 1.29, 1.30},
		{"above maximum", eros, 99, 30.0},
		{"below floor eros", eros, 0.01, 0.05},
		{"zero eros", eros, 0, 0.05},
		{"zero dash", dash, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.NearestSupportedBasalRate(tt.in); !almostEqual(got, tt.want) {
				t.Errorf("NearestSupportedBasalRate(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// ============================================================
// Reservoir constants
// ============================================================

func TestReservoirConstants_SentinelDistinctFromMaximum(t *testing.T) {
	if ReservoirAboveThresholdUnits == MaximumReservoirReading {
		t.Error("above-threshold sentinel must differ from maximum reading")
	}
	if !almostEqual(ReservoirAboveThresholdUnits, 51.15) {
		t.Errorf("ReservoirAboveThresholdUnits = %v, want 51.15", ReservoirAboveThresholdUnits)
	}
	if ReservoirCapacity <= MaximumReservoirReading {
		t.Error("capacity must exceed the maximum distinguishable reading")
	}
}
