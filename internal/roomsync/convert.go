package roomsync

import (
	"codeberg.org/collabboard/server/collabboard/strokes"
	"codeberg.org/collabboard/server/internal/protocol"
	"codeberg.org/collabboard/server/internal/registry"
)

func toStroke(roomID string, p protocol.StrokePayload, seq int64) *strokes.Stroke {
	return &strokes.Stroke{
		ID:           p.ID,
		RoomID:       roomID,
		PrevPoint:    strokes.Point{X: p.PrevPoint.X, Y: p.PrevPoint.Y},
		CurrentPoint: strokes.Point{X: p.CurrentPoint.X, Y: p.CurrentPoint.Y},
		Color:        p.Color,
		Width:        p.Width,
		IsErasing:    p.IsErasing,
		CreatedAt:    p.CreatedAt,
		Seq:          seq,
	}
}

func toPayload(s *strokes.Stroke) protocol.StrokePayload {
	return protocol.StrokePayload{
		ID:           s.ID,
		PrevPoint:    protocol.Point{X: s.PrevPoint.X, Y: s.PrevPoint.Y},
		CurrentPoint: protocol.Point{X: s.CurrentPoint.X, Y: s.CurrentPoint.Y},
		Color:        s.Color,
		Width:        s.Width,
		IsErasing:    s.IsErasing,
		CreatedAt:    s.CreatedAt,
	}
}

// builds the history payload and the set of ids it carries
func toHistory(list []*strokes.Stroke) (protocol.BoardHistoryPayload, map[string]struct{}) {
	payload := protocol.BoardHistoryPayload{Strokes: make([]protocol.StrokePayload, 0, len(list))}
	seen := make(map[string]struct{}, len(list))

	for _, s := range list {
		payload.Strokes = append(payload.Strokes, toPayload(s))
		seen[s.ID] = struct{}{}
	}

	return payload, seen
}

// picks the live events a joiner still needs once its history is out. the log
// applies writes in broadcast order, so board events up to the last held
// stroke the history contains are already reflected in it.
func heldSince(roomID string, seen map[string]struct{}) func([]*protocol.Message) []*protocol.Message {
	return func(held []*protocol.Message) []*protocol.Message {
		cut := -1

		for i, msg := range held {
			if msg.RoomID != roomID {
				continue
			}

			if id, ok := protocol.StrokeID(msg); ok {
				if _, dup := seen[id]; dup {
					cut = i
				}
			}
		}

		out := make([]*protocol.Message, 0, len(held))

		for i, msg := range held {
			if msg.RoomID != roomID {
				continue
			}

			if i <= cut && isBoardEvent(msg.Type) {
				continue
			}

			out = append(out, msg)
		}

		return out
	}
}

func isBoardEvent(msgType string) bool {
	return msgType == protocol.TypeDrawLine || msgType == protocol.TypeClearBoard
}

func toMembers(members []registry.Member) protocol.UpdateUsersPayload {
	payload := protocol.UpdateUsersPayload{Users: make([]protocol.Member, 0, len(members))}

	for _, m := range members {
		payload.Users = append(payload.Users, protocol.Member{Username: m.Username})
	}

	return payload
}
