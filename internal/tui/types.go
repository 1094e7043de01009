package tui

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"codeberg.org/collabboard/server/internal/canvas"
	"codeberg.org/collabboard/server/internal/config"
	"codeberg.org/collabboard/server/internal/protocol"
)

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateConnecting
	StateBoard
)

// main TUI application model
type Model struct {
	state   AppState
	flags   config.ClientFlags
	width   int
	height  int
	err     error
	welcome *Welcome
	board   *Board
	client  *WSClient
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent by the welcome screen once a name (and maybe a room) is entered
type joinRequestMsg struct {
	username string
	roomID   string
}

// sent once the socket is open and join_room has been queued
type connectedMsg struct {
	client   *WSClient
	username string
	roomID   string
}

// one event from the server
type serverMsg struct {
	msg *protocol.Message
}

// sent when the connection drops
type disconnectedMsg struct {
	err error
}

// drives segment emission while dragging
type flushTickMsg struct{}

// result of copying the room id
type copiedMsg struct {
	err error
}

// welcome screen model
type Welcome struct {
	inputs []textinput.Model
	focus  int
}

// queues outbound events for the server
type sender interface {
	Send(msgType, roomID string, payload any) error
}

// a peer's pointer position in canvas coordinates
type remoteCursor struct {
	name string
	x    float64
	y    float64
}

// the whiteboard view
type Board struct {
	engine *canvas.Engine
	raster *canvas.Raster
	out    sender

	username string
	roomID   string
	cols     int
	rows     int

	users   []string
	cursors map[string]remoteCursor

	// caps cursor_move emission
	cursorLimit *rate.Limiter

	// pointer is over the header or footer; cursor_leave already sent
	cursorAway bool

	palette  int
	showHelp bool
	help     string
	status   string
}

// websocket connection to the board server
type WSClient struct {
	endpoint string
	conn     *websocket.Conn

	outbound chan []byte
	incoming chan *protocol.Message

	done       chan struct{}
	writerDone chan struct{}
	closeOnce  sync.Once

	mu  sync.Mutex
	err error
}

// mints room ids through the REST api
type RoomsClient struct {
	endpoint   string
	httpClient *http.Client
}
