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
	"time"

	"bravia-remote/internal/bravia"
	"bravia-remote/internal/remote"

	"github.com/charmbracelet/lipgloss"
)

// Common styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	remoteButtonStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1).
				Margin(0, 1).
				Background(lipgloss.Color("#44475A")).
				Foreground(lipgloss.Color("#F8F8F2"))

	remoteButtonActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1).
				Margin(0, 1).
				Background(lipgloss.Color("#FF79C6")).
				Foreground(lipgloss.Color("#FAFAFA"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	headerStyles = map[string]lipgloss.Style{
		"nav":      lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")),
		"volume":   lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")),
		"playback": lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9")),
		"function": lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
	}
)

// buttonHighlight is how long a pressed button stays lit
const buttonHighlight = 200 * time.Millisecond

// Messages exchanged with bubbletea

// commandResultMsg carries the outcome of a transmitted command
type commandResultMsg struct {
	command  string
	response *remote.Response
}

// statusMsg carries a reachability probe result
type statusMsg struct {
	state bravia.Reachability
}

// pollMsg triggers the next status probe
type pollMsg time.Time

// actionHistoryEntry records one button press
type actionHistoryEntry struct {
	Timestamp time.Time
	Command   string
	Success   bool
	Error     string
}

// LogEntry represents a log entry for display
type LogEntry struct {
	Timestamp time.Time
	Level     string // INF, DBG, ERR
	Message   string
}
