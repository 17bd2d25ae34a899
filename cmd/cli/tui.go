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
	"bravia-remote/internal/remote"

	tea "github.com/charmbracelet/bubbletea"
)

// Main TUI model; owns quitting and delegates everything else to the remote screen
type model struct {
	width    int
	height   int
	quitting bool

	remoteModel RemoteModel
}

func initialModel(service *remote.Service, opts Options) model {
	return model{
		remoteModel: NewRemoteModel(service, opts),
	}
}

func (m model) Init() tea.Cmd {
	return m.remoteModel.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.remoteModel, cmd = m.remoteModel.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return successStyle.Render("Bye!") + "\n"
	}
	return m.remoteModel.View()
}

// StartTUI runs the terminal remote until the user quits
func StartTUI(service *remote.Service, opts Options) error {
	p := tea.NewProgram(
		initialModel(service, opts),
		tea.WithAltScreen(),
	)

	// Ensure proper cleanup on panic or interrupt
	defer func() {
		if r := recover(); r != nil {
			p.Kill()
		}
	}()

	_, err := p.Run()
	return err
}
