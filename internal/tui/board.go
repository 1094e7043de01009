package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"codeberg.org/collabboard/server/internal/canvas"
	"codeberg.org/collabboard/server/internal/logger"
	"codeberg.org/collabboard/server/internal/protocol"
)

// builds a board filling a width x height terminal
func NewBoard(out sender, username, roomID string, width, height int) *Board {
	if width <= 0 {
		width = 80
	}

	if height <= headerRows+footerRows {
		height = 24
	}

	cols := width
	rows := height - headerRows - footerRows

	raster := canvas.NewRaster(cols*cellWidth, rows*cellHeight)

	return &Board{
		engine: canvas.NewEngine(raster, canvas.Options{
			Origin: canvas.Point{X: 0, Y: headerRows * cellHeight},
			Color:  palette[0],
			Width:  canvas.PenWidth,
		}),
		raster:      raster,
		out:         out,
		username:    username,
		roomID:      roomID,
		cols:        cols,
		rows:        rows,
		cursors:     make(map[string]remoteCursor),
		cursorLimit: rate.NewLimiter(rate.Limit(cursorEventsPerSecond), 1),
		status:      "joining " + roomID,
	}
}

func (b *Board) Update(msg tea.Msg) (*Board, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		b.handleMouse(msg)

	case tea.KeyMsg:
		return b, b.handleKey(msg.String())

	case tea.BlurMsg:
		// the release may never be reported once focus is gone
		b.emit(b.engine.Cancel())

	case flushTickMsg:
		b.emit(b.engine.Flush())
		return b, flushTick()

	case serverMsg:
		b.handleServer(msg.msg)

	case copiedMsg:
		if msg.err != nil {
			b.status = "could not copy room id: " + msg.err.Error()
		} else {
			b.status = "room id copied"
		}
	}

	return b, nil
}

func (b *Board) handleMouse(msg tea.MouseMsg) {
	p := cellCenter(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}

		b.engine.PointerDown(p)
		b.engine.PointerMove(p)

	case tea.MouseActionMotion:
		b.engine.PointerMove(p)

		if !b.onCanvas(msg.Y) {
			b.cursorGone()
			return
		}

		b.cursorAway = false
		b.emitCursor(p)

	case tea.MouseActionRelease:
		// the terminal reports releases anywhere on screen
		b.emit(b.engine.PointerUp())
	}
}

func (b *Board) handleKey(key string) tea.Cmd {
	switch key {
	case "u":
		b.engine.Undo()
	case "r":
		b.engine.Redo()
	case "c":
		b.engine.ClearCanvas()
		b.send(protocol.TypeClearBoard, nil)
		b.status = "board cleared"
	case "e":
		b.engine.SetTool(canvas.Eraser)
	case "p":
		b.engine.SetTool(canvas.Pen)
	case "?":
		b.showHelp = !b.showHelp

		if b.showHelp && b.help == "" {
			b.help = renderHelp(b.cols)
		}
	case "y":
		return copyToClipboard(b.roomID)
	case "1", "2", "3", "4", "5", "6", "7", "8":
		b.palette = int(key[0] - '1')
		b.engine.SetColor(palette[b.palette])
		b.engine.SetTool(canvas.Pen)
	}

	return nil
}

func (b *Board) handleServer(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeUpdateUsers:
		var payload protocol.UpdateUsersPayload
		if decode(msg, &payload) {
			b.users = b.users[:0]

			for _, u := range payload.Users {
				b.users = append(b.users, u.Username)
			}

			b.status = fmt.Sprintf("%d in room", len(b.users))
		}

	case protocol.TypeBoardHistory:
		var payload protocol.BoardHistoryPayload
		if decode(msg, &payload) {
			segs := make([]canvas.Segment, 0, len(payload.Strokes))

			for _, s := range payload.Strokes {
				segs = append(segs, toSegment(s))
			}

			b.engine.ApplyHistory(segs)
			b.status = fmt.Sprintf("joined %s, %d strokes loaded", b.roomID, len(segs))
		}

	case protocol.TypeDrawLine:
		var payload protocol.StrokePayload
		if decode(msg, &payload) {
			b.engine.ApplyRemote(toSegment(payload))
		}

	case protocol.TypeClearBoard:
		b.engine.ClearCanvas()
		b.status = "board cleared by a peer"

	case protocol.TypeCursorMove:
		var payload protocol.CursorMovePayload
		if decode(msg, &payload) {
			b.cursors[payload.UserID] = remoteCursor{name: payload.UserName, x: payload.X, y: payload.Y}
		}

	case protocol.TypeCursorLeave:
		var payload protocol.CursorLeavePayload
		if decode(msg, &payload) {
			delete(b.cursors, payload.UserID)
		}

	case protocol.TypeError:
		var payload protocol.ErrorPayload
		if decode(msg, &payload) {
			b.status = "server: " + payload.Message
		}

	case protocol.TypeServerShutdown:
		b.status = "server is shutting down"
	}
}

func decode(msg *protocol.Message, v any) bool {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		logger.Warn("dropping undecodable event", "message_type", msg.Type, "error", err)
		return false
	}

	return true
}

func (b *Board) emit(segs []canvas.Segment) {
	for _, seg := range segs {
		b.send(protocol.TypeDrawLine, toDrawLine(seg))
	}
}

func (b *Board) emitCursor(viewport canvas.Point) {
	if !b.cursorLimit.Allow() {
		return
	}

	p := b.engine.ToCanvas(viewport)

	b.send(protocol.TypeCursorMove, protocol.CursorMovePayload{
		UserName: b.username,
		X:        p.X,
		Y:        p.Y,
	})
}

func (b *Board) onCanvas(row int) bool {
	return row >= headerRows && row < headerRows+b.rows
}

// sends one cursor_leave per exit from the canvas rows
func (b *Board) cursorGone() {
	if b.cursorAway {
		return
	}

	b.cursorAway = true
	b.send(protocol.TypeCursorLeave, protocol.CursorLeavePayload{})
}

// tells the room this participant is gone
func (b *Board) Leave() {
	b.send(protocol.TypeCursorLeave, protocol.CursorLeavePayload{})
	b.send(protocol.TypeLeaveRoom, nil)
}

func (b *Board) send(msgType string, payload any) {
	err := b.out.Send(msgType, b.roomID, payload)

	switch {
	case err == nil:
	case errors.Is(err, errOutboundFull):
		b.status = "connection stalled, dropped " + msgType
	default:
		b.status = "not sent: " + err.Error()
	}
}

func (b *Board) View() string {
	var s strings.Builder

	s.WriteString(b.header())
	s.WriteString("\n")

	if b.showHelp {
		s.WriteString(b.help)
	} else {
		markers := make(map[cell]string, len(b.cursors))

		for _, c := range b.cursors {
			at := canvasCell(canvas.Point{X: c.x, Y: c.y})
			markers[at] = initial(c.name)
		}

		s.WriteString(renderRaster(b.raster, b.cols, b.rows, markers))
	}

	s.WriteString("\n")
	s.WriteString(statusStyle.Render(b.status + "  · ? help · q quit"))

	return s.String()
}

func (b *Board) header() string {
	tool := headerStyle.Render(" pen " + b.engine.Color() + " ")
	if b.engine.Tool() == canvas.Eraser {
		tool = eraserStyle.Render(" eraser ")
	}

	info := fmt.Sprintf(" %s @ %s · %s ", b.username, b.roomID, strings.Join(b.users, ", "))

	return tool + headerStyle.Render(info)
}

func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}

	return "?"
}
