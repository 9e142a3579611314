// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

package pod

import "fmt"

// DeliveryStatus is the pod's delivery state, decoded from the status byte it
// reports in every status response.
//
// The byte packs two mutually exclusive bit pairs: bits 0/1 carry the basal
// state (scheduled basal vs temp basal), bits 2/3 the bolus state (immediate
// vs extended). Only nine combinations are legal; 3, 7, and anything above 10
// cannot be produced by the firmware. Rather than expose the bit layout, each
// legal combination is a named value and every query is answered from a
// static fact table.
type DeliveryStatus uint8

// Legal delivery status codes
const (
	DeliveryStatusSuspended                   DeliveryStatus = 0x00
	DeliveryStatusScheduledBasal              DeliveryStatus = 0x01
	DeliveryStatusTempBasalRunning            DeliveryStatus = 0x02
	DeliveryStatusPriming                     DeliveryStatus = 0x04
	DeliveryStatusBolusInProgress             DeliveryStatus = 0x05
	DeliveryStatusBolusAndTempBasal           DeliveryStatus = 0x06
	DeliveryStatusExtendedBolusWhileSuspended DeliveryStatus = 0x08
	DeliveryStatusExtendedBolusRunning        DeliveryStatus = 0x09
	DeliveryStatusExtendedBolusAndTempBasal   DeliveryStatus = 0x0A
)

// UnrecognizedStatusCodeError reports a status byte outside the nine legal
// codes. It usually indicates a protocol version mismatch and must not be
// mapped to a default status.
type UnrecognizedStatusCodeError struct {
	Code byte
}

// Error implements the error interface.
func (e *UnrecognizedStatusCodeError) Error() string {
	return fmt.Sprintf("unrecognized delivery status code: 0x%02X", e.Code)
}

// deliveryFacts answers every query about one delivery status.
type deliveryFacts struct {
	suspended     bool
	bolusing      bool
	tempBasal     bool
	extendedBolus bool
	anomalous     bool
	name          string
	label         string
}

// factsTable maps each code to its facts; nil entries are the illegal codes.
var factsTable = [11]*deliveryFacts{
	DeliveryStatusSuspended: {
		suspended: true,
		name:      "suspended",
		label:     "Suspended",
	},
	DeliveryStatusScheduledBasal: {
		name:  "scheduledBasal",
		label: "Scheduled basal",
	},
	DeliveryStatusTempBasalRunning: {
		tempBasal: true,
		name:      "tempBasalRunning",
		label:     "Temp basal running",
	},
	DeliveryStatusPriming: {
		// A bolus with no basal bits set means delivery while suspended;
		// legitimate only during the priming sequence.
		suspended: true,
		bolusing:  true,
		anomalous: true,
		name:      "priming",
		label:     "Priming",
	},
	DeliveryStatusBolusInProgress: {
		bolusing: true,
		name:     "bolusInProgress",
		label:    "Bolus in progress",
	},
	DeliveryStatusBolusAndTempBasal: {
		bolusing:  true,
		tempBasal: true,
		name:      "bolusAndTempBasal",
		label:     "Bolus with temp basal",
	},
	DeliveryStatusExtendedBolusWhileSuspended: {
		// Decodable but should never legitimately occur.
		suspended:     true,
		bolusing:      true,
		extendedBolus: true,
		anomalous:     true,
		name:          "extendedBolusWhileSuspended",
		label:         "Extended bolus while suspended",
	},
	DeliveryStatusExtendedBolusRunning: {
		bolusing:      true,
		extendedBolus: true,
		name:          "extendedBolusRunning",
		label:         "Extended bolus running",
	},
	DeliveryStatusExtendedBolusAndTempBasal: {
		bolusing:      true,
		tempBasal:     true,
		extendedBolus: true,
		name:          "extendedBolusAndTempBasal",
		label:         "Extended bolus with temp basal",
	},
}

// DecodeDeliveryStatus decodes a raw status byte. Valid codes are exactly
// {0,1,2,4,5,6,8,9,10}; any other value returns *UnrecognizedStatusCodeError.
func DecodeDeliveryStatus(code byte) (DeliveryStatus, error) {
	if int(code) < len(factsTable) && factsTable[code] != nil {
		return DeliveryStatus(code), nil
	}
	return 0, &UnrecognizedStatusCodeError{Code: code}
}

// AllDeliveryStatuses returns every legal delivery status in ascending code
// order.
func AllDeliveryStatuses() []DeliveryStatus {
	out := make([]DeliveryStatus, 0, 9)
	for code, facts := range factsTable {
		if facts != nil {
			out = append(out, DeliveryStatus(code))
		}
	}
	return out
}

var invalidFacts = deliveryFacts{name: "invalid", label: "Invalid"}

func (s DeliveryStatus) facts() *deliveryFacts {
	if int(s) < len(factsTable) && factsTable[s] != nil {
		return factsTable[s]
	}
	return &invalidFacts
}

// Suspended reports whether no basal insulin is being delivered: neither the
// scheduled basal nor the temp basal bit is set.
func (s DeliveryStatus) Suspended() bool {
	return s.facts().suspended
}

// Bolusing reports whether an immediate or extended bolus is in progress.
func (s DeliveryStatus) Bolusing() bool {
	return s.facts().bolusing
}

// TempBasalRunning reports whether a temp basal is running.
func (s DeliveryStatus) TempBasalRunning() bool {
	return s.facts().tempBasal
}

// ExtendedBolusRunning reports whether an extended bolus is in progress.
func (s DeliveryStatus) ExtendedBolusRunning() bool {
	return s.facts().extendedBolus
}

// Anomalous reports whether this status, while decodable, should be flagged
// as suspicious telemetry: Priming outside the priming sequence and
// ExtendedBolusWhileSuspended at any time.
func (s DeliveryStatus) Anomalous() bool {
	return s.facts().anomalous
}

// Label returns the human-readable display label for the status.
func (s DeliveryStatus) Label() string {
	return s.facts().label
}

// Key returns the stable identifier used to resolve a localized label for
// the status.
func (s DeliveryStatus) Key() string {
	return "deliveryStatus." + s.facts().name
}

// String returns the short status name for logs.
func (s DeliveryStatus) String() string {
	return s.facts().name
}
