// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

package podwire

import (
	"strings"
	"testing"
)

func TestFormatMessageType(t *testing.T) {
	tests := []struct {
		msgType uint8
		want    string
	}{
		{MsgPingRequest, "PING_REQUEST"},
		{MsgStatusReport, "STATUS_REPORT"},
		{MsgPodAnnounce, "POD_ANNOUNCE"},
		{MsgPingResponse, "PING_RESPONSE"},
		{MsgFaultReport, "FAULT_REPORT"},
		{0x99, "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := FormatMessageType(tt.msgType); got != tt.want {
			t.Errorf("FormatMessageType(0x%02X) = %q, want %q", tt.msgType, got, tt.want)
		}
	}
}

func TestFormatFrame_StatusReport(t *testing.T) {
	frame := roundTrip(t, NewStatusReportFrame(5, 0x06, 0x2E, 1440))
	out := FormatFrame(frame)

	for _, want := range []string{
		"STATUS_REPORT (0x30) seq=5",
		"Bolus with temp basal (0x06)",
		"tempBasal=true",
		"Reservoir: 2.30 U",
		"Active: 24h of 80h",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatFrame_UnrecognizedStatus(t *testing.T) {
	frame := roundTrip(t, NewStatusReportFrame(6, 0x0B, 0x3FF, 10))
	out := FormatFrame(frame)

	if !strings.Contains(out, "UNRECOGNIZED (0x0B)") {
		t.Errorf("output missing unrecognized marker:\n%s", out)
	}
	if !strings.Contains(out, ">50 U") {
		t.Errorf("output missing above-threshold reservoir:\n%s", out)
	}
}

func TestFormatFrame_AnomalousStatus(t *testing.T) {
	frame := roundTrip(t, NewStatusReportFrame(7, 0x08, 0x100, 10))
	if out := FormatFrame(frame); !strings.Contains(out, "anomalous status") {
		t.Errorf("output missing anomaly note:\n%s", out)
	}
}
