package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldUsername = iota
	fieldRoom
)

// returns a new welcome screen prefilled from the command line
func NewWelcome(username, roomID string) *Welcome {
	name := newInput("your name", 64)
	name.SetValue(username)
	name.Focus()

	room := newInput("room id (blank for a new room)", 128)
	room.SetValue(roomID)

	return &Welcome{inputs: []textinput.Model{name, room}}
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 48
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	return ti
}

func (m *Welcome) Update(msg tea.Msg) (*Welcome, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down", "shift+tab", "up":
			m.inputs[m.focus].Blur()
			m.focus = (m.focus + 1) % len(m.inputs)
			return m, m.inputs[m.focus].Focus()

		case "enter":
			username := strings.TrimSpace(m.inputs[fieldUsername].Value())
			if username == "" {
				m.focus = fieldUsername
				return m, m.inputs[fieldUsername].Focus()
			}

			roomID := strings.TrimSpace(m.inputs[fieldRoom].Value())

			return m, func() tea.Msg {
				return joinRequestMsg{username: username, roomID: roomID}
			}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	return m, cmd
}

func (m *Welcome) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("draw together, live"))
	b.WriteString("\n\n")

	b.WriteString(inputStyle.Render("name"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldUsername].View())
	b.WriteString("\n\n")

	b.WriteString(inputStyle.Render("room"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldRoom].View())
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("tab to switch fields, enter to join, ctrl+c to quit."))

	return b.String()
}
