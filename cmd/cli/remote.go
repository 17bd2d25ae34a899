// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bravia-remote/internal/bravia"
	"bravia-remote/internal/logger"
	"bravia-remote/internal/remote"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// extraKeys are terminal-only shortcuts on top of the shared key map
var extraKeys = map[string]string{
	"P":         "Power",
	"pgup":      "ChannelUp",
	"ctrl+up":   "ChannelUp",
	"pgdown":    "ChannelDown",
	"ctrl+down": "ChannelDown",
	"i":         "Input",
	"g":         "Guide",
	"o":         "Options",
	"d":         "Display",
	"n":         "Netflix",
	"a":         "ActionMenu",
}

// Options configures the terminal remote
type Options struct {
	Device       bravia.DeviceConfig
	PollInterval time.Duration
	Debug        bool
	Test         bool
}

// RemoteModel handles the remote control screen
type RemoteModel struct {
	service *remote.Service
	device  bravia.DeviceConfig

	// Last probe result
	status      bravia.Reachability
	statusKnown bool

	// Remote control state
	selected        string
	lastButtonPress time.Time
	pending         int

	// Response and history
	lastResponse  *remote.Response
	actionHistory []actionHistoryEntry

	// Flags
	debugMode    bool
	testMode     bool
	pollInterval time.Duration

	// Screen dimensions for responsive layout
	width  int
	height int

	// Log display
	logBuffer   []LogEntry
	maxLogLines int
}

// NewRemoteModel creates a new remote control screen model
func NewRemoteModel(service *remote.Service, opts Options) RemoteModel {
	if opts.PollInterval <= 0 {
		opts.PollInterval = remote.DefaultPollInterval
	}
	return RemoteModel{
		service:       service,
		device:        opts.Device,
		actionHistory: []actionHistoryEntry{},
		debugMode:     opts.Debug,
		testMode:      opts.Test,
		pollInterval:  opts.PollInterval,
		logBuffer:     []LogEntry{},
		maxLogLines:   3,
	}
}

// Init probes the TV right away and schedules the next poll
func (m RemoteModel) Init() tea.Cmd {
	return tea.Batch(m.probe(), m.schedulePoll())
}

func (m RemoteModel) probe() tea.Cmd {
	service := m.service
	return func() tea.Msg {
		return statusMsg{state: service.Reachability(context.Background())}
	}
}

func (m RemoteModel) schedulePoll() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (m RemoteModel) send(command string) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		return commandResultMsg{
			command:  command,
			response: service.Execute(context.Background(), command),
		}
	}
}

// commandForKey resolves a bubbletea key to a command name
func commandForKey(key string) (string, bool) {
	if command, ok := extraKeys[key]; ok {
		return command, true
	}
	return remote.CommandForTerminalKey(key)
}

// Update handles remote control screen messages
func (m RemoteModel) Update(msg tea.Msg) (RemoteModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		command, ok := commandForKey(msg.String())
		if !ok {
			return m, nil
		}
		m.selected = command
		m.lastButtonPress = time.Now()
		m.pending++
		return m, m.send(command)

	case commandResultMsg:
		m.pending--
		m.recordResult(msg.command, msg.response)
		return m, nil

	case statusMsg:
		if m.statusKnown && m.status.Connected != msg.state.Connected {
			level := "INF"
			if !msg.state.Connected {
				level = "ERR"
			}
			m.addLogEntry(level, fmt.Sprintf("TV %s", connectionWord(msg.state.Connected)))
		}
		m.status = msg.state
		m.statusKnown = true
		return m, nil

	case pollMsg:
		return m, tea.Batch(m.probe(), m.schedulePoll())
	}

	return m, nil
}

func (m *RemoteModel) recordResult(command string, response *remote.Response) {
	m.lastResponse = response

	if m.debugMode || m.testMode {
		if response.Success {
			message := fmt.Sprintf("%s sent", command)
			if m.testMode {
				message = fmt.Sprintf("Test mode: %s simulated", command)
			}
			m.addLogEntry("INF", message)
		} else {
			m.addLogEntry("ERR", fmt.Sprintf("%s failed: %s", command, response.Error))
		}
	}

	m.actionHistory = append([]actionHistoryEntry{{
		Timestamp: time.Now(),
		Command:   command,
		Success:   response.Success,
		Error:     response.Error,
	}}, m.actionHistory...)
	if len(m.actionHistory) > 50 {
		m.actionHistory = m.actionHistory[:50]
	}

	log := logger.New()
	log.Info().
		Str("command", command).
		Bool("success", response.Success).
		Msg("Remote button pressed")
}

// View renders the remote control screen
func (m RemoteModel) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("Bravia Remote"))
	sections = append(sections, m.renderDeviceLine())
	sections = append(sections, m.renderLayout())

	if m.lastResponse != nil {
		sections = append(sections, m.renderStatusBar())
	}

	if m.debugMode || m.testMode {
		if logDisplay := m.renderLogDisplay(); logDisplay != "" {
			sections = append(sections, logDisplay)
		}
	}

	sections = append(sections, m.renderHelpText())

	return strings.Join(sections, "\n\n")
}

func (m RemoteModel) renderDeviceLine() string {
	line := "📺 " + m.device.Address
	switch {
	case !m.statusKnown:
		line = helpStyle.Render(line + " (checking...)")
	case m.status.Connected:
		line = successStyle.Render(line + " ● connected")
	default:
		detail := ""
		if m.status.Error != "" {
			detail = ": " + m.status.Error
		}
		line = errorStyle.Render(line + " ● disconnected" + detail)
	}

	if m.device.AuthConfigured() {
		line += " " + helpStyle.Render("[PSK]")
	}
	if m.testMode {
		line += " " + warnStyle.Render("(Test)")
	}
	return line
}

func (m RemoteModel) button(command, label string) string {
	style := remoteButtonStyle
	if m.selected == command && time.Since(m.lastButtonPress) < buttonHighlight {
		style = remoteButtonActiveStyle
	}
	return style.Render(label)
}

// renderLayout lays out the buttons in four columns; every label is 6 chars wide
func (m RemoteModel) renderLayout() string {
	navColumn := lipgloss.JoinVertical(lipgloss.Center,
		headerStyles["nav"].Render("Power & Navigation:"),
		m.button("Power", " PWR  "),
		m.button("Up", "  ↑   "),
		lipgloss.JoinHorizontal(lipgloss.Center,
			m.button("Left", "  ←   "),
			m.button("Confirm", " OK   "),
			m.button("Right", "  →   ")),
		m.button("Down", "  ↓   "),
	)

	volumeColumn := lipgloss.JoinVertical(lipgloss.Left,
		headerStyles["volume"].Render("Volume & Channel:"),
		lipgloss.JoinHorizontal(lipgloss.Left,
			m.button("VolumeUp", "VOL + "),
			m.button("ChannelUp", "CH +  ")),
		lipgloss.JoinHorizontal(lipgloss.Left,
			m.button("VolumeDown", "VOL - "),
			m.button("ChannelDown", "CH -  ")),
		m.button("Mute", "MUTE  "),
	)

	playbackColumn := lipgloss.JoinVertical(lipgloss.Left,
		headerStyles["playback"].Render("Playback:"),
		m.button("Play", "PLAY  "),
		m.button("Pause", "PAUSE "),
		m.button("Stop", "STOP  "),
	)

	functionColumn := lipgloss.JoinVertical(lipgloss.Left,
		headerStyles["function"].Render("Functions:"),
		lipgloss.JoinHorizontal(lipgloss.Left,
			m.button("Home", "HOME  "),
			m.button("Return", "BACK  ")),
		lipgloss.JoinHorizontal(lipgloss.Left,
			m.button("Input", "INPUT "),
			m.button("Guide", "GUIDE ")),
		lipgloss.JoinHorizontal(lipgloss.Left,
			m.button("Options", "OPTS  "),
			m.button("Netflix", "NFLX  ")),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		navColumn,
		strings.Repeat(" ", 4),
		volumeColumn,
		strings.Repeat(" ", 4),
		playbackColumn,
		strings.Repeat(" ", 4),
		functionColumn,
	)
}

// renderStatusBar shows the last command result
func (m RemoteModel) renderStatusBar() string {
	if m.pending > 0 {
		return helpStyle.Render("Sending...")
	}
	if m.lastResponse.Success {
		return successStyle.Render("✓ " + m.lastResponse.Command + " sent")
	}
	return errorStyle.Render("✗ " + m.lastResponse.Error)
}

// renderLogDisplay shows the most recent log lines
func (m RemoteModel) renderLogDisplay() string {
	if len(m.logBuffer) == 0 {
		return ""
	}

	start := 0
	if len(m.logBuffer) > m.maxLogLines {
		start = len(m.logBuffer) - m.maxLogLines
	}

	autoScrollIcon := ""
	if start > 0 {
		autoScrollIcon = " ↓"
	}

	logLines := []string{helpStyle.Render(fmt.Sprintf("─── LOGS%s ───", autoScrollIcon))}

	for i := 0; i < m.maxLogLines; i++ {
		if start+i >= len(m.logBuffer) {
			logLines = append(logLines, "")
			continue
		}
		entry := m.logBuffer[start+i]

		levelStyle := successStyle
		switch entry.Level {
		case "ERR":
			levelStyle = errorStyle
		case "DBG":
			levelStyle = helpStyle
		}

		logLine := fmt.Sprintf("%s [%s] %s",
			entry.Timestamp.Format("15:04:05"),
			levelStyle.Render(entry.Level),
			entry.Message)
		if len(logLine) > 90 {
			logLine = logLine[:87] + "..."
		}
		logLines = append(logLines, logLine)
	}

	return strings.Join(logLines, "\n")
}

func (m *RemoteModel) addLogEntry(level, message string) {
	m.logBuffer = append(m.logBuffer, LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	})

	if len(m.logBuffer) > 20 {
		m.logBuffer = m.logBuffer[1:]
	}
}

func (m RemoteModel) renderHelpText() string {
	help := "Arrows: Navigate • Enter: OK • Esc: Back • Shift+P: Power • +/-: Volume • M: Mute • 0-9: Numbers"
	if m.width > 100 {
		help += " • Space: Pause • p/s: Play/Stop • PgUp/PgDn: Channel • H: Home • I: Input • q: Quit"
	} else {
		help += " • q: Quit"
	}
	return helpStyle.Render(help)
}

func connectionWord(connected bool) string {
	if connected {
		return "connected"
	}
	return "disconnected"
}
