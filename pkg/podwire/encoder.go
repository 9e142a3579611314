// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

package podwire

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// EncodeFrame encodes a frame to wire format, including framing bytes, byte
// stuffing, and CRC.
func EncodeFrame(f *Frame) ([]byte, error) {
	return EncodeFrameFromValues(f.Sequence(), f.Type(), f.PayloadMap())
}

// EncodeFrameFromValues creates a complete wire-formatted link frame.
func EncodeFrameFromValues(sequence uint16, msgType uint8, payloadMap map[int]interface{}) ([]byte, error) {
	cborPayload, err := encodeCBORPayload(msgType, payloadMap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode CBOR payload: %w", err)
	}

	if len(cborPayload) > MaxPayloadSize {
		return nil, fmt.Errorf("CBOR payload too large: %d bytes (max %d)", len(cborPayload), MaxPayloadSize)
	}

	// Build the data section: length + sequence + CBOR payload.
	// This is what gets CRC'd and byte-stuffed.
	data := make([]byte, 1+SequenceSize+len(cborPayload))
	data[0] = uint8(len(cborPayload))
	binary.LittleEndian.PutUint16(data[1:3], sequence)
	copy(data[3:], cborPayload)

	crc := CalculateCRC(data)

	// Append CRC (big-endian)
	data = append(data, byte(crc>>8), byte(crc&0xFF))

	// Apply byte stuffing to the data section (not framing bytes)
	stuffed := stuffBytes(data)

	frame := make([]byte, 0, len(stuffed)+2)
	frame = append(frame, StartByte)
	frame = append(frame, stuffed...)
	frame = append(frame, EndByte)

	return frame, nil
}

// NewStatusReportFrame creates a STATUS_REPORT frame (0x30) as the bridge
// would emit it. Used for loopback and bench testing.
func NewStatusReportFrame(sequence uint16, statusCode byte, reservoirRaw uint16, minutesActive uint32) *Frame {
	payload := map[int]interface{}{
		keyStatusCode:    uint64(statusCode),
		keyReservoirRaw:  uint64(reservoirRaw),
		keyMinutesActive: uint64(minutesActive),
	}
	return NewFrameWithPayload(sequence, MsgStatusReport, payload)
}

// NewPodAnnounceFrame creates a POD_ANNOUNCE frame (0x35) identifying the
// paired pod by lot, TID, and family tag.
func NewPodAnnounceFrame(sequence uint16, lot, tid uint32, family uint8) *Frame {
	payload := map[int]interface{}{
		keyLot:    uint64(lot),
		keyTID:    uint64(tid),
		keyFamily: uint64(family),
	}
	return NewFrameWithPayload(sequence, MsgPodAnnounce, payload)
}

// NewPingRequestFrame creates a PING_REQUEST frame (0x2F). The bridge
// responds with PING_RESPONSE containing its uptime.
func NewPingRequestFrame(sequence uint16) *Frame {
	return NewFrameWithPayload(sequence, MsgPingRequest, nil)
}

// NewPingResponseFrame creates a PING_RESPONSE frame (0x3F).
func NewPingResponseFrame(sequence uint16, uptimeMs uint64) *Frame {
	payload := map[int]interface{}{
		keyUptimeMs: uptimeMs,
	}
	return NewFrameWithPayload(sequence, MsgPingResponse, payload)
}

// NewFaultReportFrame creates a FAULT_REPORT frame (0xE0) carrying the pod's
// raw fault code.
func NewFaultReportFrame(sequence uint16, faultCode uint8) *Frame {
	payload := map[int]interface{}{
		keyFaultCode: uint64(faultCode),
	}
	return NewFrameWithPayload(sequence, MsgFaultReport, payload)
}

// encodeCBORPayload creates the CBOR-encoded payload for a message.
func encodeCBORPayload(msgType uint8, payloadMap map[int]interface{}) ([]byte, error) {
	var msg interface{}
	if len(payloadMap) == 0 {
		msg = []interface{}{uint64(msgType), nil}
	} else {
		msg = []interface{}{uint64(msgType), payloadMap}
	}

	return cbor.Marshal(msg)
}

// stuffBytes applies byte stuffing to escape special bytes.
// Special bytes (START, END, ESC) are replaced with ESC + (byte XOR EscXor).
func stuffBytes(data []byte) []byte {
	result := make([]byte, 0, len(data)*2)

	for _, b := range data {
		if b == StartByte || b == EndByte || b == EscByte {
			result = append(result, EscByte, b^EscXor)
		} else {
			result = append(result, b)
		}
	}

	return result
}

// UnstuffBytes removes byte stuffing from escaped data.
// This is the inverse of stuffBytes.
func UnstuffBytes(data []byte) ([]byte, error) {
	result := make([]byte, 0, len(data))
	escapeNext := false

	for _, b := range data {
		if escapeNext {
			result = append(result, b^EscXor)
			escapeNext = false
		} else if b == EscByte {
			escapeNext = true
		} else {
			result = append(result, b)
		}
	}

	if escapeNext {
		return nil, fmt.Errorf("incomplete escape sequence at end of data")
	}

	return result, nil
}
