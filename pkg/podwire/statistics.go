// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 LoopAndLearn

package podwire

import (
	"fmt"
	"strings"
	"time"
)

// Statistics tracks frame statistics and error rates over a bridge stream
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames       uint64
	ValidFrames       uint64
	CRCErrors         uint64
	DecodeErrors      uint64
	MalformedFrames   uint64
	UnknownStatuses   uint64
	SuspiciousStatuses uint64
	ReservoirRange    uint64
	ClockRange        uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update updates statistics based on a frame and its errors
func (s *Statistics) Update(frame *Frame, decodeErr error, validationErrors []ValidationError) {
	s.TotalFrames++

	if decodeErr != nil {
		if strings.HasPrefix(decodeErr.Error(), "CRC mismatch") {
			s.CRCErrors++
		} else {
			s.DecodeErrors++
		}
		return
	}

	if len(validationErrors) > 0 {
		for _, err := range validationErrors {
			switch err.Type {
			case AnomalyUnknownStatus:
				s.UnknownStatuses++
			case AnomalySuspiciousStatus:
				s.SuspiciousStatuses++
			case AnomalyReservoirRange:
				s.ReservoirRange++
			case AnomalyClockRange:
				s.ClockRange++
			case AnomalyMalformedPayload:
				s.MalformedFrames++
			}
		}
	} else {
		s.ValidFrames++
	}

	s.LastUpdateTime = time.Now()
}

// CalculateRates calculates frame and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		s.ErrorRate = float64(s.errorCount()) / elapsed
	}
}

func (s *Statistics) errorCount() uint64 {
	return s.CRCErrors + s.DecodeErrors + s.MalformedFrames +
		s.UnknownStatuses + s.SuspiciousStatuses + s.ReservoirRange + s.ClockRange
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	var validPercent float64
	if s.TotalFrames > 0 {
		validPercent = float64(s.ValidFrames) * 100.0 / float64(s.TotalFrames)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Valid Frames:    %8d (%.1f%%)\n", s.ValidFrames, validPercent)

	if s.CRCErrors > 0 {
		result += fmt.Sprintf("CRC Errors:      %8d\n", s.CRCErrors)
	}
	if s.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode Errors:   %8d\n", s.DecodeErrors)
	}
	if s.MalformedFrames > 0 {
		result += fmt.Sprintf("Malformed:       %8d\n", s.MalformedFrames)
	}
	if s.UnknownStatuses > 0 {
		result += fmt.Sprintf("Unknown Status:  %8d\n", s.UnknownStatuses)
	}
	if s.SuspiciousStatuses > 0 {
		result += fmt.Sprintf("Suspicious:      %8d\n", s.SuspiciousStatuses)
	}
	if s.ReservoirRange > 0 {
		result += fmt.Sprintf("Reservoir Range: %8d\n", s.ReservoirRange)
	}
	if s.ClockRange > 0 {
		result += fmt.Sprintf("Clock Range:     %8d\n", s.ClockRange)
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	now := time.Now()
	*s = Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}
