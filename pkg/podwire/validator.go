// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

package podwire

import (
	"fmt"

	"github.com/loopandlearn/omnikit/pkg/pod"
)

// AnomalyType represents different types of frame anomalies
type AnomalyType int

const (
	AnomalyUnknownStatus AnomalyType = iota
	AnomalySuspiciousStatus
	AnomalyReservoirRange
	AnomalyClockRange
	AnomalyMalformedPayload
	AnomalyCRCError
	AnomalyDecodeError
)

// ValidationError represents a frame validation failure
type ValidationError struct {
	Type    AnomalyType
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidateFrame validates frame contents against the pod parameter model and
// detects anomalies. Returns a slice of validation errors (empty if the frame
// is clean).
func ValidateFrame(f *Frame) []ValidationError {
	errors := []ValidationError{}

	switch f.Type() {
	case MsgStatusReport:
		errors = append(errors, validateStatusReport(f)...)
	case MsgPodAnnounce:
		errors = append(errors, validatePodAnnounce(f)...)
	case MsgFaultReport:
		errors = append(errors, validateFaultReport(f)...)
	}

	return errors
}

// validateStatusReport validates a STATUS_REPORT frame
func validateStatusReport(f *Frame) []ValidationError {
	report, err := ParseStatusReport(f)
	if err != nil {
		return []ValidationError{{
			Type:    AnomalyMalformedPayload,
			Message: fmt.Sprintf("Malformed STATUS_REPORT: %v", err),
			Details: map[string]interface{}{"error": err.Error()},
		}}
	}

	errors := []ValidationError{}

	status, err := report.DeliveryStatus()
	if err != nil {
		// The nine legal codes are closed; anything else is a protocol
		// version mismatch, never silently coerced.
		errors = append(errors, ValidationError{
			Type:    AnomalyUnknownStatus,
			Message: fmt.Sprintf("Unrecognized delivery status code 0x%02X", report.StatusCode),
			Details: map[string]interface{}{"code": report.StatusCode},
		})
	} else if status.Anomalous() {
		errors = append(errors, ValidationError{
			Type:    AnomalySuspiciousStatus,
			Message: fmt.Sprintf("Suspicious delivery status %q (0x%02X)", status, report.StatusCode),
			Details: map[string]interface{}{"code": report.StatusCode, "status": status.String()},
		})
	}

	if _, err := report.Reservoir(); err != nil {
		errors = append(errors, ValidationError{
			Type:    AnomalyReservoirRange,
			Message: fmt.Sprintf("Reservoir value out of range: 0x%03X (max 0x%03X)", report.ReservoirRaw, pod.ReservoirAboveThresholdRaw),
			Details: map[string]interface{}{"raw": report.ReservoirRaw, "max": uint16(pod.ReservoirAboveThresholdRaw)},
		})
	}

	if report.ActiveTime() > pod.ServiceDuration {
		errors = append(errors, ValidationError{
			Type:    AnomalyClockRange,
			Message: fmt.Sprintf("Active time %v exceeds service duration %v", report.ActiveTime(), pod.ServiceDuration),
			Details: map[string]interface{}{"minutes": report.MinutesActive},
		})
	}

	return errors
}

// validatePodAnnounce validates a POD_ANNOUNCE frame
func validatePodAnnounce(f *Frame) []ValidationError {
	if _, err := ParsePodAnnounce(f); err != nil {
		return []ValidationError{{
			Type:    AnomalyMalformedPayload,
			Message: fmt.Sprintf("Malformed POD_ANNOUNCE: %v", err),
			Details: map[string]interface{}{"error": err.Error()},
		}}
	}
	return nil
}

// validateFaultReport validates a FAULT_REPORT frame
func validateFaultReport(f *Frame) []ValidationError {
	if _, err := ParseFaultReport(f); err != nil {
		return []ValidationError{{
			Type:    AnomalyMalformedPayload,
			Message: fmt.Sprintf("Malformed FAULT_REPORT: %v", err),
			Details: map[string]interface{}{"error": err.Error()},
		}}
	}
	return nil
}
