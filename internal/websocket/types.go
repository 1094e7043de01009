package websocket

import (
	"errors"
	"sync"
	"time"

	"codeberg.org/collabboard/server/internal/protocol"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maximum message size allowed from peer
	maxMessageSize = 16 * 1024

	// outbound frames queued per client before it is cut off
	sendBufferSize = 1024

	// live messages held for a joiner while its history loads
	maxHeldMessages = 4096

	// draw segments arrive at pointer rate
	drawEventsPerSecond = 240
	drawEventBurst      = 480

	cursorEventsPerSecond = 60
	cursorEventBurst      = 60

	joinEventsPerSecond = 2
	joinEventBurst      = 5
)

// hub connection limit constants
const (
	maxConnectionsPerIP = 20
)

// errors
var (
	ErrConnectionClosed  = errors.New("connection closed")
	ErrClientNotFound    = errors.New("client not found")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrBufferOverflow    = errors.New("send buffer overflow")
	ErrInvalidRoom       = errors.New("invalid room id")
)

// represents a websocket client connection
type Client struct {
	// unique identifier for this connection
	ID string

	// IP address of the client (for connection tracking)
	IPAddress string

	// websocket connection
	conn *websocket.Conn

	// hub reference for message routing
	hub *Hub

	// buffered channel of outbound frames
	send chan []byte

	mu sync.Mutex

	// room the connection currently receives events for
	roomID string

	closed      bool
	closeReason string

	// while holding, live messages queue here instead of going out
	holding bool
	held    []*protocol.Message

	drawLimiter   *rate.Limiter
	cursorLimiter *rate.Limiter
	joinLimiter   *rate.Limiter
}

// maintains the set of active clients and fans messages out to rooms
type Hub struct {
	// every registered client by id
	clients map[string]*Client

	// delivery groups: room id -> client id -> client
	rooms map[string]map[string]*Client

	// register requests from clients
	Register chan *Client

	// unregister requests from clients
	Unregister chan *Client

	// inbound messages from clients, processed in arrival order
	Inbound chan *protocol.Message

	// mutex for thread-safe access to clients and rooms
	mu sync.RWMutex

	// message handlers for different message types
	handlers map[string]MessageHandler

	// channel to signal shutdown
	shutdown     chan struct{}
	shutdownOnce sync.Once

	// connection tracking: IP address -> count of connections
	ipConnections map[string]int

	// sequence numbers per room for message ordering
	roomSequences map[string]uint64

	// callback for client disconnect (removes the session)
	onClientDisconnect func(client *Client)
}

// processes a specific message type. handlers run one at a time on the
// hub loop and are responsible for notifying the client of failures.
type MessageHandler func(hub *Hub, client *Client, msg *protocol.Message) error

// the room operations the handlers drive
type RoomService interface {
	Join(connID, roomID, username string) error
	Leave(connID, roomID string)
	Disconnect(connID string)
	DrawLine(connID, roomID string, p *protocol.DrawLinePayload) error
	ClearBoard(connID, roomID string) error
	CursorMove(connID, roomID string, p *protocol.CursorMovePayload) error
	CursorLeave(connID, roomID string) error
}
