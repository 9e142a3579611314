// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 LoopAndLearn

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/loopandlearn/omnikit/pkg/pod"
	"github.com/loopandlearn/omnikit/pkg/podwire"
)

// Event log entry
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool // true for errors, false for informational
}

// Latest decoded pod state
type podState struct {
	timestamp     time.Time
	statusCode    byte
	status        pod.DeliveryStatus
	statusKnown   bool
	reservoir     pod.ReservoirReading
	reservoirOK   bool
	activeTime    time.Duration
	lot           uint32
	tid           uint32
	hasIdentity   bool
	faultCode     uint8
	hasFault      bool
	bridgeUptime  time.Duration
	hasUptime     bool
}

// Monitor TUI model
type monitorModel struct {
	connInfo      string
	familyLabel   string
	statsInterval int
	showAll       bool
	stats         *podwire.Statistics
	eventLog      []eventLogEntry
	logView       viewport.Model
	maxLogEntries int
	synchronized  bool
	invalidBytes  int
	width         int
	height        int
	quitting      bool
	connLost      bool
	state         *podState
}

// Messages
type tickMsg time.Time
type bridgeDataMsg struct {
	frame            *podwire.Frame
	decodeErr        error
	validationErrors []podwire.ValidationError
}
type syncMsg struct {
	invalidBytes int
}
type connLostMsg struct{}

func initialMonitorModel(connInfo, familyLabel string, statsInterval int, showAll bool) monitorModel {
	vp := viewport.New(80, 10)
	return monitorModel{
		connInfo:      connInfo,
		familyLabel:   familyLabel,
		statsInterval: statsInterval,
		showAll:       showAll,
		stats:         podwire.NewStatistics(),
		eventLog:      make([]eventLogEntry, 0),
		logView:       vp,
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		tea.EnterAltScreen,
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.stats.Reset()
			m.addLogEntry("Statistics reset", false)
		default:
			// Scroll keys go to the event log viewport
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 6
		logHeight := msg.Height - 18
		if logHeight < 5 {
			logHeight = 5
		}
		m.logView.Height = logHeight

	case tickMsg:
		m.stats.CalculateRates()
		return m, tickCmd()

	case syncMsg:
		m.synchronized = true
		m.invalidBytes = msg.invalidBytes
		if msg.invalidBytes > 0 {
			m.addLogEntry(fmt.Sprintf("Synchronized after skipping %d invalid bytes", msg.invalidBytes), false)
		} else {
			m.addLogEntry("Synchronized", false)
		}

	case connLostMsg:
		m.connLost = true
		m.addLogEntry("Connection lost", true)

	case bridgeDataMsg:
		if msg.decodeErr != nil {
			if m.synchronized {
				m.stats.Update(nil, msg.decodeErr, nil)
				m.addLogEntry(fmt.Sprintf("DECODE ERROR: %v", msg.decodeErr), true)
			}
		} else if msg.frame != nil {
			m.stats.Update(msg.frame, nil, msg.validationErrors)
			m.absorbFrame(msg.frame)

			if len(msg.validationErrors) > 0 {
				msgType := podwire.FormatMessageType(msg.frame.Type())
				for _, err := range msg.validationErrors {
					m.addLogEntry(fmt.Sprintf("%s: %s", msgType, err.Message), true)
				}
			} else if m.showAll {
				msgType := podwire.FormatMessageType(msg.frame.Type())
				m.addLogEntry(fmt.Sprintf("%s (valid)", msgType), false)
			}
		}
	}

	return m, nil
}

func (m *monitorModel) addLogEntry(message string, isError bool) {
	entry := eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

// absorbFrame folds a decoded frame into the latest pod state
func (m *monitorModel) absorbFrame(frame *podwire.Frame) {
	if m.state == nil {
		m.state = &podState{}
	}

	switch frame.Type() {
	case podwire.MsgStatusReport:
		report, err := podwire.ParseStatusReport(frame)
		if err != nil {
			return
		}
		m.state.timestamp = frame.Timestamp()
		m.state.statusCode = report.StatusCode
		status, err := report.DeliveryStatus()
		m.state.status = status
		m.state.statusKnown = err == nil
		reservoir, err := report.Reservoir()
		m.state.reservoir = reservoir
		m.state.reservoirOK = err == nil
		m.state.activeTime = report.ActiveTime()

	case podwire.MsgPodAnnounce:
		announce, err := podwire.ParsePodAnnounce(frame)
		if err != nil {
			return
		}
		m.state.lot = announce.Lot
		m.state.tid = announce.TID
		m.state.hasIdentity = true

	case podwire.MsgFaultReport:
		faultCode, err := podwire.ParseFaultReport(frame)
		if err != nil {
			return
		}
		m.state.faultCode = faultCode
		m.state.hasFault = true

	case podwire.MsgPingResponse:
		uptime, err := podwire.ParsePingResponse(frame)
		if err != nil {
			return
		}
		m.state.bridgeUptime = uptime
		m.state.hasUptime = true
	}
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("OMNIKIT - POD MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Family: %s | Mode: %s | 'q' quit, 'r' reset stats",
		m.connInfo, m.familyLabel, func() string {
			if m.showAll {
				return "All frames"
			}
			return "Anomalies only"
		}())))
	s.WriteString("\n\n")

	// Sync status
	if m.connLost {
		s.WriteString(errorStyle.Render("✗ Connection lost"))
		s.WriteString("\n\n")
	} else if !m.synchronized {
		s.WriteString(warningStyle.Render("⏳ Waiting for synchronization..."))
		s.WriteString("\n\n")
	} else {
		s.WriteString(valueStyle.Render("✓ Synchronized"))
		if m.invalidBytes > 0 {
			s.WriteString(headerStyle.Render(fmt.Sprintf(" (skipped %d invalid bytes)", m.invalidBytes)))
		}
		s.WriteString("\n\n")
	}

	// Statistics
	m.stats.CalculateRates()
	var validPercent float64
	if m.stats.TotalFrames > 0 {
		validPercent = float64(m.stats.ValidFrames) * 100.0 / float64(m.stats.TotalFrames)
	}
	totalErrors := m.stats.CRCErrors + m.stats.DecodeErrors + m.stats.MalformedFrames +
		m.stats.UnknownStatuses + m.stats.SuspiciousStatuses + m.stats.ReservoirRange + m.stats.ClockRange

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Total:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.TotalFrames)),
		labelStyle.Render("Valid:"), valueStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.stats.ValidFrames, validPercent)),
		labelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d", totalErrors)),
	))

	if m.stats.CRCErrors > 0 || m.stats.DecodeErrors > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("CRC Errors:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.CRCErrors)),
			labelStyle.Render("Decode Errors:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.DecodeErrors)),
		))
	}

	if m.stats.UnknownStatuses > 0 || m.stats.SuspiciousStatuses > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Unknown Status:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.UnknownStatuses)),
			labelStyle.Render("Suspicious:"), warningStyle.Render(fmt.Sprintf("%d", m.stats.SuspiciousStatuses)),
		))
	}

	if m.stats.ReservoirRange > 0 || m.stats.ClockRange > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Reservoir Range:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.ReservoirRange)),
			labelStyle.Render("Clock Range:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.ClockRange)),
		))
	}

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Frame Rate:"), valueStyle.Render(fmt.Sprintf("%.1f frames/s", m.stats.FrameRate)),
		labelStyle.Render("Error Rate:"), func() string {
			if m.stats.ErrorRate > 0 {
				return errorStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
			}
			return valueStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
		}(),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Pod state section (only shown once something decoded)
	if m.state != nil {
		s.WriteString(labelStyle.Render("Pod State:"))
		s.WriteString("\n")

		stateContent := strings.Builder{}

		if m.state.hasFault {
			stateContent.WriteString(fmt.Sprintf("%s %s\n",
				labelStyle.Render("FAULT:"), errorStyle.Render(fmt.Sprintf("0x%02X", m.state.faultCode)),
			))
		}

		if !m.state.timestamp.IsZero() {
			if m.state.statusKnown {
				statusText := m.state.status.Label()
				if m.state.status.Anomalous() {
					stateContent.WriteString(fmt.Sprintf("%s %s\n",
						labelStyle.Render("Status:"), warningStyle.Render(statusText+" (suspicious)"),
					))
				} else {
					stateContent.WriteString(fmt.Sprintf("%s %s\n",
						labelStyle.Render("Status:"), valueStyle.Render(statusText),
					))
				}
				stateContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n",
					labelStyle.Render("Suspended:"), yesNoStyled(m.state.status.Suspended(), valueStyle),
					labelStyle.Render("Bolusing:"), yesNoStyled(m.state.status.Bolusing(), valueStyle),
					labelStyle.Render("Temp Basal:"), yesNoStyled(m.state.status.TempBasalRunning(), valueStyle),
					labelStyle.Render("Ext Bolus:"), yesNoStyled(m.state.status.ExtendedBolusRunning(), valueStyle),
				))
			} else {
				stateContent.WriteString(fmt.Sprintf("%s %s\n",
					labelStyle.Render("Status:"), errorStyle.Render(fmt.Sprintf("unrecognized (0x%02X)", m.state.statusCode)),
				))
			}

			if m.state.reservoirOK {
				stateContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
					labelStyle.Render("Reservoir:"), valueStyle.Render(m.state.reservoir.String()),
					labelStyle.Render("Active:"), valueStyle.Render(pod.FormatDuration(m.state.activeTime)),
				))
			}
		}

		if m.state.hasIdentity {
			stateContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
				labelStyle.Render("Lot:"), valueStyle.Render(fmt.Sprintf("%d", m.state.lot)),
				labelStyle.Render("TID:"), valueStyle.Render(fmt.Sprintf("%d", m.state.tid)),
			))
		}

		if m.state.hasUptime {
			stateContent.WriteString(fmt.Sprintf("%s %s\n",
				labelStyle.Render("Bridge uptime:"), valueStyle.Render(m.state.bridgeUptime.Truncate(time.Second).String()),
			))
		}

		s.WriteString(boxStyle.Render(stateContent.String()))
		s.WriteString("\n\n")
	}

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logContent := strings.Builder{}
	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for _, entry := range m.eventLog {
			timestamp := entry.timestamp.Format("01/02/06 15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					warningStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}

	m.logView.SetContent(logContent.String())
	m.logView.GotoBottom()
	s.WriteString(boxStyle.Width(m.width - 4).Render(m.logView.View()))

	return s.String()
}

func yesNoStyled(v bool, okStyle lipgloss.Style) string {
	if v {
		return okStyle.Render("yes")
	}
	return "no"
}
