// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

package podwire

import (
	"fmt"
	"time"

	"github.com/loopandlearn/omnikit/pkg/pod"
)

// StatusReport is the parsed payload of a STATUS_REPORT frame. The status
// code is kept raw so a report with an unrecognized code can still be
// inspected; DeliveryStatus performs the actual decode.
type StatusReport struct {
	StatusCode    byte
	ReservoirRaw  uint16
	MinutesActive uint32
}

// DeliveryStatus decodes the report's raw status code.
func (r *StatusReport) DeliveryStatus() (pod.DeliveryStatus, error) {
	return pod.DecodeDeliveryStatus(r.StatusCode)
}

// Reservoir decodes the report's raw reservoir field.
func (r *StatusReport) Reservoir() (pod.ReservoirReading, error) {
	return pod.DecodeReservoirReading(r.ReservoirRaw)
}

// ActiveTime returns how long the pod has been running.
func (r *StatusReport) ActiveTime() time.Duration {
	return time.Duration(r.MinutesActive) * time.Minute
}

// ParseStatusReport extracts the typed payload of a STATUS_REPORT frame
func ParseStatusReport(f *Frame) (*StatusReport, error) {
	if f.Type() != MsgStatusReport {
		return nil, fmt.Errorf("not a STATUS_REPORT frame: type 0x%02X", f.Type())
	}
	m := f.PayloadMap()

	code, ok := GetMapUint(m, keyStatusCode)
	if !ok || code > 255 {
		return nil, fmt.Errorf("STATUS_REPORT missing status code")
	}
	reservoir, ok := GetMapUint(m, keyReservoirRaw)
	if !ok || reservoir > 0xFFFF {
		return nil, fmt.Errorf("STATUS_REPORT missing reservoir value")
	}
	minutes, ok := GetMapUint(m, keyMinutesActive)
	if !ok || minutes > 0xFFFFFFFF {
		return nil, fmt.Errorf("STATUS_REPORT missing minutes active")
	}

	return &StatusReport{
		StatusCode:    byte(code),
		ReservoirRaw:  uint16(reservoir),
		MinutesActive: uint32(minutes),
	}, nil
}

// PodAnnounce is the parsed payload of a POD_ANNOUNCE frame
type PodAnnounce struct {
	Lot    uint32
	TID    uint32
	Family pod.Family
}

// ParsePodAnnounce extracts the typed payload of a POD_ANNOUNCE frame
func ParsePodAnnounce(f *Frame) (*PodAnnounce, error) {
	if f.Type() != MsgPodAnnounce {
		return nil, fmt.Errorf("not a POD_ANNOUNCE frame: type 0x%02X", f.Type())
	}
	m := f.PayloadMap()

	lot, ok := GetMapUint(m, keyLot)
	if !ok {
		return nil, fmt.Errorf("POD_ANNOUNCE missing lot")
	}
	tid, ok := GetMapUint(m, keyTID)
	if !ok {
		return nil, fmt.Errorf("POD_ANNOUNCE missing TID")
	}
	family, ok := GetMapUint(m, keyFamily)
	if !ok || family > uint64(pod.FamilyDash) {
		return nil, fmt.Errorf("POD_ANNOUNCE has invalid family tag")
	}

	return &PodAnnounce{
		Lot:    uint32(lot),
		TID:    uint32(tid),
		Family: pod.Family(family),
	}, nil
}

// ParsePingResponse extracts the bridge uptime from a PING_RESPONSE frame
func ParsePingResponse(f *Frame) (uptime time.Duration, err error) {
	if f.Type() != MsgPingResponse {
		return 0, fmt.Errorf("not a PING_RESPONSE frame: type 0x%02X", f.Type())
	}
	ms, ok := GetMapUint(f.PayloadMap(), keyUptimeMs)
	if !ok {
		return 0, fmt.Errorf("PING_RESPONSE missing uptime")
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// ParseFaultReport extracts the pod fault code from a FAULT_REPORT frame
func ParseFaultReport(f *Frame) (faultCode uint8, err error) {
	if f.Type() != MsgFaultReport {
		return 0, fmt.Errorf("not a FAULT_REPORT frame: type 0x%02X", f.Type())
	}
	code, ok := GetMapUint(f.PayloadMap(), keyFaultCode)
	if !ok || code > 255 {
		return 0, fmt.Errorf("FAULT_REPORT missing fault code")
	}
	return uint8(code), nil
}
