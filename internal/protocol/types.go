package protocol

import (
	"encoding/json"
	"errors"
	"time"
)

// message type constants for websocket communication
const (
	// is sent by a client to enter a room (room id in the envelope)
	TypeJoinRoom = "join_room"

	// is sent by a client to leave its current room
	TypeLeaveRoom = "leave_room"

	// is one line segment of a stroke, relayed to the rest of the room
	TypeDrawLine = "draw_line"

	// wipes the board for everyone in the room
	TypeClearBoard = "clear_board"

	// ephemeral pointer position, never persisted
	TypeCursorMove = "cursor_move"

	// pointer left the drawing surface
	TypeCursorLeave = "cursor_leave"

	// is sent to the whole room whenever membership changes
	TypeUpdateUsers = "update_users"

	// is sent only to a joiner with the room's persisted strokes
	TypeBoardHistory = "board_history"

	// is sent when an error occurs
	TypeError = "error"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"

	// is sent by server before shutdown
	TypeServerShutdown = "server_shutdown"
)

// payload limits
const (
	MaxUsernameLength = 64
	MaxColorLength    = 32
	MaxStrokeWidth    = 200
	MaxCoordinate     = 1_000_000
)

var (
	ErrInvalidMessage = errors.New("invalid message format")
	ErrInvalidPayload = errors.New("invalid payload")
)

// represents a websocket message with typed payload
type Message struct {
	Type      string          `json:"type"`
	RoomID    string          `json:"room_id,omitempty"`
	ClientID  string          `json:"-"` // internal only, not sent to clients
	Timestamp time.Time       `json:"timestamp"`
	Sequence  uint64          `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type Point struct {
	X float64 `json:"x" binding:"gte=-1000000,lte=1000000"`
	Y float64 `json:"y" binding:"gte=-1000000,lte=1000000"`
}

type JoinRoomPayload struct {
	Username string `json:"username" binding:"required,max=64"`
}

// one segment as sent by a drawing client. prev_point is null on the first
// segment of a gesture.
type DrawLinePayload struct {
	PrevPoint    *Point  `json:"prev_point"`
	CurrentPoint *Point  `json:"current_point" binding:"required"`
	Color        string  `json:"color" binding:"required,max=32"`
	Width        float64 `json:"width" binding:"gt=0,lte=200"`
	IsErasing    bool    `json:"is_erasing"`
}

// a stored or relayed segment. prev_point is always set.
type StrokePayload struct {
	ID           string    `json:"id"`
	PrevPoint    Point     `json:"prev_point"`
	CurrentPoint Point     `json:"current_point"`
	Color        string    `json:"color"`
	Width        float64   `json:"width"`
	IsErasing    bool      `json:"is_erasing"`
	CreatedAt    time.Time `json:"created_at"`
}

type CursorMovePayload struct {
	UserID   string  `json:"user_id"`
	UserName string  `json:"user_name" binding:"max=64"`
	X        float64 `json:"x" binding:"gte=-1000000,lte=1000000"`
	Y        float64 `json:"y" binding:"gte=-1000000,lte=1000000"`
}

type CursorLeavePayload struct {
	UserID string `json:"user_id"`
}

type Member struct {
	Username string `json:"username"`
}

type UpdateUsersPayload struct {
	Users []Member `json:"users"`
}

type BoardHistoryPayload struct {
	Strokes []StrokePayload `json:"strokes"`
}

type ErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// contains information about server shutdown
type ServerShutdownPayload struct {
	Reason string `json:"reason"`
}
