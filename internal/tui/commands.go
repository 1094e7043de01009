package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"codeberg.org/collabboard/server/internal/canvas"
	"codeberg.org/collabboard/server/internal/logger"
	"codeberg.org/collabboard/server/internal/protocol"
)

// opens the socket and queues join_room; a blank room is minted first
func connect(endpoint, username, roomID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), roomRequestTimeout)
		defer cancel()

		if roomID == "" {
			roomID = mintRoom(ctx, endpoint)
		}

		client := NewWSClient(endpoint)

		if err := client.Connect(ctx); err != nil {
			return ErrorMsg{err: err}
		}

		if err := client.Send(protocol.TypeJoinRoom, roomID, protocol.JoinRoomPayload{Username: username}); err != nil {
			client.Close()
			return ErrorMsg{err: err}
		}

		return connectedMsg{client: client, username: username, roomID: roomID}
	}
}

// falls back to a local id when the server cannot be asked
func mintRoom(ctx context.Context, endpoint string) string {
	rooms, err := NewRoomsClient(endpoint)
	if err == nil {
		var roomID string

		if roomID, err = rooms.CreateRoom(ctx); err == nil {
			return roomID
		}
	}

	logger.Warn("minting room id locally", "error", err)

	return uuid.NewString()
}

func flushTick() tea.Cmd {
	return tea.Tick(canvas.FlushInterval, func(time.Time) tea.Msg {
		return flushTickMsg{}
	})
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}
