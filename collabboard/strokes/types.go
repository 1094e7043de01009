package strokes

import (
	"context"
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidStroke = errors.New("invalid stroke")
	ErrWriterStopped = errors.New("stroke writer stopped")
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// one persisted line segment of a room's board
type Stroke struct {
	ID           string    `json:"id"`
	RoomID       string    `json:"room_id"`
	PrevPoint    Point     `json:"prev_point"`
	CurrentPoint Point     `json:"current_point"`
	Color        string    `json:"color"`
	Width        float64   `json:"width"`
	IsErasing    bool      `json:"is_erasing"`
	CreatedAt    time.Time `json:"created_at"`
	Seq          int64     `json:"seq"`
}

// repository interface for stroke log operations. ListByRoom returns strokes
// in replay order: created_at ascending, seq breaking ties.
type Repository interface {
	Append(ctx context.Context, stroke *Stroke) error
	ListByRoom(ctx context.Context, roomID string) ([]*Stroke, error)
	DeleteByRoom(ctx context.Context, roomID string) (int64, error)
	CountByRoom(ctx context.Context, roomID string) (int64, error)
	Close() error
}

func (s *Stroke) validate() error {
	if s == nil || s.ID == "" || s.RoomID == "" {
		return ErrInvalidStroke
	}

	return nil
}

func sortForReplay(list []*Stroke) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}

		return list[i].Seq < list[j].Seq
	})
}
