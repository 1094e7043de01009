package rooms

import (
	"context"

	"codeberg.org/collabboard/server/internal/protocol"
	"codeberg.org/collabboard/server/internal/roomsync"
)

// the read side of the room synchronizer
type RoomReader interface {
	Room(ctx context.Context, roomID string) (roomsync.RoomInfo, error)
	History(ctx context.Context, roomID string) ([]protocol.StrokePayload, error)
	ActiveRooms() map[string]int
	Participants() int
}

type ConnectionCounter interface {
	ClientCount() int
	RoomCount() int
}

type WriteStats interface {
	Stats() (dropped, failed int64)
}

type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
}

type StrokesResponse struct {
	RoomID  string                   `json:"room_id"`
	Strokes []protocol.StrokePayload `json:"strokes"`
	Count   int                      `json:"count"`
}

type StatsResponse struct {
	Store         string         `json:"store"`
	Connections   int            `json:"connections"`
	DeliveryRooms int            `json:"delivery_rooms"`
	Participants  int            `json:"participants"`
	ActiveRooms   map[string]int `json:"active_rooms"`
	DroppedWrites int64          `json:"dropped_writes"`
	FailedWrites  int64          `json:"failed_writes"`
}
