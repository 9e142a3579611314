// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

// Package podwire implements the framed link between a pod radio bridge and a
// controller.
//
// The bridge relays the pod's delivery status over serial or WebSocket as
// small CBOR-payload frames with HDLC-style byte stuffing and a CRC-16-CCITT
// checksum. This package provides frame encoding/decoding, payload parsing,
// validation of report contents against the pod parameter model, and stream
// statistics.
package podwire

// Protocol framing bytes
const (
	StartByte = 0x7E
	EndByte   = 0x7F
	EscByte   = 0x7D
	EscXor    = 0x20
)

// Frame size limits
const (
	MaxFrameSize   = 64 // 7 overhead + 57 payload
	MaxPayloadSize = 57
	SequenceSize   = 2
)

// CRC-16-CCITT configuration
const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

// Message types - Requests (Controller → Bridge) 0x2F
const (
	MsgPingRequest = 0x2F
)

// Message types - Reports (Bridge → Controller) 0x30-0x3F
const (
	MsgStatusReport = 0x30
	MsgPodAnnounce  = 0x35
	MsgPingResponse = 0x3F
)

// Message types - Errors (Bridge → Controller) 0xE0-0xEF
const (
	MsgFaultReport = 0xE0
)

// STATUS_REPORT payload keys
const (
	keyStatusCode    = 0
	keyReservoirRaw  = 1
	keyMinutesActive = 2
)

// POD_ANNOUNCE payload keys
const (
	keyLot    = 0
	keyTID    = 1
	keyFamily = 2
)

// PING_RESPONSE payload keys
const (
	keyUptimeMs = 0
)

// FAULT_REPORT payload keys
const (
	keyFaultCode = 0
)

// Decoder states (internal)
const (
	stateIdle = iota
	stateLength
	stateSequence
	statePayload
	stateCRC1
	stateCRC2
)
