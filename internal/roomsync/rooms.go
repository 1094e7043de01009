package roomsync

import (
	"context"
	"fmt"

	"codeberg.org/collabboard/server/internal/protocol"
)

// live membership and stored stroke count for a room
func (s *Synchronizer) Room(ctx context.Context, roomID string) (RoomInfo, error) {
	members := s.registry.MembersOf(roomID)

	info := RoomInfo{
		RoomID:  roomID,
		Members: make([]string, 0, len(members)),
		Active:  len(members) > 0,
	}

	for _, m := range members {
		info.Members = append(info.Members, m.Username)
	}

	n, err := s.log.CountByRoom(ctx, roomID)
	if err != nil {
		return info, fmt.Errorf("count strokes for room %s: %w", roomID, err)
	}

	info.StrokeCount = n

	return info, nil
}

// the room's stored strokes in replay order
func (s *Synchronizer) History(ctx context.Context, roomID string) ([]protocol.StrokePayload, error) {
	list, err := s.log.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list strokes for room %s: %w", roomID, err)
	}

	payload, _ := toHistory(list)

	return payload.Strokes, nil
}

// member counts per occupied room
func (s *Synchronizer) ActiveRooms() map[string]int {
	return s.registry.ActiveRooms()
}

// number of connections bound to a room
func (s *Synchronizer) Participants() int {
	return s.registry.Count()
}
