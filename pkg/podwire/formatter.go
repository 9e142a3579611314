// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

package podwire

import (
	"fmt"

	"github.com/loopandlearn/omnikit/pkg/pod"
)

// FormatFrame formats a frame into a human-readable string
func FormatFrame(f *Frame) string {
	timestamp := f.Timestamp().Format("15:04:05.000")
	msgType := FormatMessageType(f.Type())

	result := fmt.Sprintf("[%s] %s (0x%02X) seq=%d len=%d\n", timestamp, msgType, f.Type(), f.Sequence(), f.Length())
	result += FormatPayload(f)

	return result
}

// FormatMessageType returns the human-readable name for a message type
func FormatMessageType(msgType uint8) string {
	switch msgType {
	case MsgPingRequest:
		return "PING_REQUEST"
	case MsgStatusReport:
		return "STATUS_REPORT"
	case MsgPodAnnounce:
		return "POD_ANNOUNCE"
	case MsgPingResponse:
		return "PING_RESPONSE"
	case MsgFaultReport:
		return "FAULT_REPORT"
	default:
		return "UNKNOWN"
	}
}

// FormatPayload formats the frame payload based on message type
func FormatPayload(f *Frame) string {
	switch f.Type() {
	case MsgPingRequest:
		return "  (no payload)\n"

	case MsgPingResponse:
		uptime, err := ParsePingResponse(f)
		if err != nil {
			return fmt.Sprintf("  (malformed: %v)\n", err)
		}
		return fmt.Sprintf("  Bridge uptime: %s\n", uptime)

	case MsgStatusReport:
		report, err := ParseStatusReport(f)
		if err != nil {
			return fmt.Sprintf("  (malformed: %v)\n", err)
		}
		return formatStatusReport(report)

	case MsgPodAnnounce:
		announce, err := ParsePodAnnounce(f)
		if err != nil {
			return fmt.Sprintf("  (malformed: %v)\n", err)
		}
		return fmt.Sprintf("  Pod lot=%d tid=%d family=%s\n", announce.Lot, announce.TID, announce.Family)

	case MsgFaultReport:
		code, err := ParseFaultReport(f)
		if err != nil {
			return fmt.Sprintf("  (malformed: %v)\n", err)
		}
		return fmt.Sprintf("  Pod fault code: 0x%02X\n", code)
	}

	// Default: hex dump
	result := "  Payload: "
	for i, b := range f.Payload() {
		if i > 0 && i%16 == 0 {
			result += "\n           "
		}
		result += fmt.Sprintf("%02X ", b)
	}
	return result + "\n"
}

func formatStatusReport(report *StatusReport) string {
	var result string

	status, err := report.DeliveryStatus()
	if err != nil {
		result = fmt.Sprintf("  Status: UNRECOGNIZED (0x%02X)\n", report.StatusCode)
	} else {
		result = fmt.Sprintf("  Status: %s (0x%02X) suspended=%v bolusing=%v tempBasal=%v extendedBolus=%v\n",
			status.Label(), report.StatusCode,
			status.Suspended(), status.Bolusing(), status.TempBasalRunning(), status.ExtendedBolusRunning())
		if status.Anomalous() {
			result += "  Note: anomalous status\n"
		}
	}

	if reservoir, err := report.Reservoir(); err != nil {
		result += fmt.Sprintf("  Reservoir: out of range (0x%03X)\n", report.ReservoirRaw)
	} else {
		result += fmt.Sprintf("  Reservoir: %s\n", reservoir)
	}

	result += fmt.Sprintf("  Active: %s of %s\n", pod.FormatDuration(report.ActiveTime()), pod.FormatDuration(pod.ServiceDuration))

	return result
}
