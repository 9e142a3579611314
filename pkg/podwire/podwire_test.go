// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

package podwire

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"
)

// ============================================================
// CBOR Test Helpers
// ============================================================

// buildCBORPayload creates a CBOR-encoded message: [msgType, payloadMap]
func buildCBORPayload(msgType uint8, payload map[int]interface{}) []byte {
	var msg interface{}
	if payload == nil {
		msg = []interface{}{uint64(msgType), nil}
	} else {
		msg = []interface{}{uint64(msgType), payload}
	}
	data, err := cbor.Marshal(msg)
	if err != nil {
		panic(err)
	}
	return data
}

// decodeAll feeds a byte slice through a fresh decoder and returns the first
// completed frame.
func decodeAll(t *testing.T, wire []byte) *Frame {
	t.Helper()
	decoder := NewDecoder()
	for _, b := range wire {
		frame, err := decoder.DecodeByte(b)
		if err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if frame != nil {
			return frame
		}
	}
	t.Fatal("no frame decoded")
	return nil
}

// ============================================================
// CRC Tests
// ============================================================

func TestCalculateCRC_Empty(t *testing.T) {
	crc := CalculateCRC([]byte{})
	if crc != crcInitial {
		t.Errorf("CRC of empty data should be initial value, got 0x%04X", crc)
	}
}

func TestCalculateCRC_KnownValue(t *testing.T) {
	// Standard CRC-16-CCITT check value
	crc := CalculateCRC([]byte("123456789"))
	if crc != 0x29B1 {
		t.Errorf("CRC mismatch: expected 0x29B1, got 0x%04X", crc)
	}
}

// ============================================================
// CBOR Parsing Tests
// ============================================================

func TestParseCBORMessage_Empty(t *testing.T) {
	_, _, err := ParseCBORMessage([]byte{})
	if err == nil {
		t.Error("Expected error for empty CBOR payload")
	}
}

func TestParseCBORMessage_PingRequest(t *testing.T) {
	data := buildCBORPayload(MsgPingRequest, nil)
	msgType, payload, err := ParseCBORMessage(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if msgType != MsgPingRequest {
		t.Errorf("Expected MsgPingRequest (0x2F), got 0x%02X", msgType)
	}
	if payload != nil {
		t.Errorf("Expected nil payload, got %v", payload)
	}
}

func TestParseCBORMessage_StatusReport(t *testing.T) {
	payload := map[int]interface{}{
		0: uint64(0x06),  // bolus + temp basal
		1: uint64(0x2E),  // 2.3 U
		2: uint64(1440),  // 24 hours
	}
	data := buildCBORPayload(MsgStatusReport, payload)
	msgType, parsed, err := ParseCBORMessage(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if msgType != MsgStatusReport {
		t.Errorf("Expected MsgStatusReport (0x30), got 0x%02X", msgType)
	}

	code, ok := GetMapUint(parsed, 0)
	if !ok || code != 0x06 {
		t.Errorf("Expected status code 0x06, got %d (ok=%v)", code, ok)
	}
}

func TestGetMapHelpers(t *testing.T) {
	m := map[int]interface{}{
		0: uint64(42),
		1: int64(-10),
		2: true,
	}

	u, ok := GetMapUint(m, 0)
	if !ok || u != 42 {
		t.Errorf("GetMapUint(0) = %d, %v; want 42, true", u, ok)
	}

	i, ok := GetMapInt(m, 1)
	if !ok || i != -10 {
		t.Errorf("GetMapInt(1) = %d, %v; want -10, true", i, ok)
	}

	b, ok := GetMapBool(m, 2)
	if !ok || !b {
		t.Errorf("GetMapBool(2) = %v, %v; want true, true", b, ok)
	}

	if _, ok := GetMapUint(m, 1); ok {
		t.Error("GetMapUint of negative value should fail")
	}
	if _, ok := GetMapUint(nil, 0); ok {
		t.Error("GetMapUint of nil map should fail")
	}
}

// ============================================================
// Byte Stuffing Tests
// ============================================================

func TestStuffBytes_RoundTrip(t *testing.T) {
	data := []byte{0x01, StartByte, 0x02, EndByte, 0x03, EscByte, 0x04}
	stuffed := stuffBytes(data)

	for i, b := range stuffed {
		if (b == StartByte || b == EndByte) && (i == 0 || stuffed[i-1] != EscByte) {
			t.Fatalf("unescaped framing byte 0x%02X at index %d", b, i)
		}
	}

	unstuffed, err := UnstuffBytes(stuffed)
	if err != nil {
		t.Fatalf("UnstuffBytes error: %v", err)
	}
	if !bytes.Equal(unstuffed, data) {
		t.Errorf("round trip mismatch: got % X, want % X", unstuffed, data)
	}
}

func TestUnstuffBytes_IncompleteEscape(t *testing.T) {
	if _, err := UnstuffBytes([]byte{0x01, EscByte}); err == nil {
		t.Error("Expected error for trailing escape byte")
	}
}

// ============================================================
// Encoder/Decoder Round Trip Tests
// ============================================================

func TestEncodeDecode_StatusReport(t *testing.T) {
	frame := NewStatusReportFrame(7, 0x06, 0x2E, 1440)
	wire, err := EncodeFrame(frame)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	decoded := decodeAll(t, wire)
	if decoded.Type() != MsgStatusReport {
		t.Errorf("Type = 0x%02X, want 0x30", decoded.Type())
	}
	if decoded.Sequence() != 7 {
		t.Errorf("Sequence = %d, want 7", decoded.Sequence())
	}

	report, err := ParseStatusReport(decoded)
	if err != nil {
		t.Fatalf("ParseStatusReport error: %v", err)
	}
	if report.StatusCode != 0x06 {
		t.Errorf("StatusCode = 0x%02X, want 0x06", report.StatusCode)
	}
	if report.ReservoirRaw != 0x2E {
		t.Errorf("ReservoirRaw = 0x%03X, want 0x02E", report.ReservoirRaw)
	}
	if report.MinutesActive != 1440 {
		t.Errorf("MinutesActive = %d, want 1440", report.MinutesActive)
	}
}

func TestEncodeDecode_PingRequest(t *testing.T) {
	wire, err := EncodeFrame(NewPingRequestFrame(1))
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	decoded := decodeAll(t, wire)
	if decoded.Type() != MsgPingRequest {
		t.Errorf("Type = 0x%02X, want 0x2F", decoded.Type())
	}
	if decoded.PayloadMap() != nil {
		t.Errorf("PayloadMap = %v, want nil", decoded.PayloadMap())
	}
}

func TestEncodeDecode_PodAnnounce(t *testing.T) {
	wire, err := EncodeFrame(NewPodAnnounceFrame(2, 44172, 1234567, 1))
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	announce, err := ParsePodAnnounce(decodeAll(t, wire))
	if err != nil {
		t.Fatalf("ParsePodAnnounce error: %v", err)
	}
	if announce.Lot != 44172 || announce.TID != 1234567 {
		t.Errorf("announce = %+v", announce)
	}
	if announce.Family.String() != "dash" {
		t.Errorf("Family = %v, want dash", announce.Family)
	}
}

func TestEncodeDecode_SequenceWithReservedBytes(t *testing.T) {
	// Sequence 0x7E7D forces both bytes through the escape path.
	frame := NewStatusReportFrame(0x7E7D, 0x01, 0x3FF, 10)
	wire, err := EncodeFrame(frame)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	decoded := decodeAll(t, wire)
	if decoded.Sequence() != 0x7E7D {
		t.Errorf("Sequence = 0x%04X, want 0x7E7D", decoded.Sequence())
	}
}

// ============================================================
// Decoder Error Tests
// ============================================================

func TestDecoder_CRCMismatch(t *testing.T) {
	wire, err := EncodeFrame(NewStatusReportFrame(3, 0x01, 0x100, 60))
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	// Corrupt a payload byte (index 4 is inside the data section)
	wire[4] ^= 0x01

	decoder := NewDecoder()
	var decodeErr error
	for _, b := range wire {
		_, err := decoder.DecodeByte(b)
		if err != nil {
			decodeErr = err
		}
	}
	if decodeErr == nil {
		t.Fatal("Expected CRC mismatch error")
	}
}

func TestDecoder_InvalidLength(t *testing.T) {
	decoder := NewDecoder()
	if _, err := decoder.DecodeByte(StartByte); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := decoder.DecodeByte(MaxPayloadSize + 1); err == nil {
		t.Error("Expected invalid length error")
	}
}

func TestDecoder_UnexpectedEnd(t *testing.T) {
	decoder := NewDecoder()
	decoder.DecodeByte(StartByte)
	decoder.DecodeByte(5) // length
	if _, err := decoder.DecodeByte(EndByte); err == nil {
		t.Error("Expected unexpected END error")
	}
}

func TestDecoder_ResyncAfterGarbage(t *testing.T) {
	wire, err := EncodeFrame(NewPingRequestFrame(9))
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	stream := append([]byte{0xDE, 0xAD, 0xBE, 0xEF}, wire...)
	decoded := decodeAll(t, stream)
	if decoded.Type() != MsgPingRequest {
		t.Errorf("Type = 0x%02X, want 0x2F", decoded.Type())
	}
}
