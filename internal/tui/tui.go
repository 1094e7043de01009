package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/collabboard/server/internal/config"
)

func NewApp(flags config.ClientFlags) *Model {
	return &Model{
		state:   StateWelcome,
		flags:   flags,
		welcome: NewWelcome(flags.Username, flags.Room),
	}
}

func (m *Model) Init() tea.Cmd {
	// both given on the command line: skip the form
	if m.flags.Username != "" && m.flags.Room != "" {
		return func() tea.Msg {
			return joinRequestMsg{username: m.flags.Username, roomID: m.flags.Room}
		}
	}

	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()
		case "q":
			if m.state == StateBoard {
				return m, m.quit()
			}
		}

		if m.err != nil {
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ErrorMsg:
		m.err = msg.err
		m.state = StateWelcome
		return m, nil

	case joinRequestMsg:
		m.state = StateConnecting
		return m, connect(m.flags.Server, msg.username, msg.roomID)

	case connectedMsg:
		m.client = msg.client
		m.board = NewBoard(msg.client, msg.username, msg.roomID, m.width, m.height)
		m.state = StateBoard

		return m, tea.Batch(m.client.Listen(), flushTick())

	case serverMsg:
		if m.board == nil {
			return m, nil
		}

		var cmd tea.Cmd
		m.board, cmd = m.board.Update(msg)

		return m, tea.Batch(cmd, m.client.Listen())

	case disconnectedMsg:
		err := msg.err
		if err == nil {
			err = errClientClosed
		}

		m.err = fmt.Errorf("disconnected from server: %w", err)

		return m, nil
	}

	switch m.state {
	case StateWelcome:
		return m.updateWelcome(msg)

	case StateBoard:
		return m.updateBoard(msg)

	default:
		return m, nil
	}
}

func (m *Model) View() string {
	if m.err != nil {
		return errorView(m.err)
	}

	switch m.state {
	case StateWelcome:
		return m.welcome.View()

	case StateConnecting:
		return infoStyle.Render("\n  connecting to " + m.flags.Server + "...")

	case StateBoard:
		return m.board.View()

	default:
		return "Unknown state"
	}
}

func (m *Model) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.welcome, cmd = m.welcome.Update(msg)

	return m, cmd
}

func (m *Model) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.board, cmd = m.board.Update(msg)

	return m, cmd
}

// leaves the room, flushes the socket and exits
func (m *Model) quit() tea.Cmd {
	if m.board != nil && m.client != nil {
		m.board.emit(m.board.engine.PointerUp())
		m.board.Leave()
		m.client.Close()
	}

	return tea.Quit
}

func errorView(err error) string {
	return errorStyle.Render(fmt.Sprintf("\n  Error: %v", err)) + "\n\n  Press Ctrl+C to exit\n"
}
