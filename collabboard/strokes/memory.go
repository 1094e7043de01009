package strokes

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	rooms map[string][]*Stroke
}

// in-process stroke log; contents are lost on restart
func NewMemoryRepository() Repository {
	return &memoryRepository{rooms: make(map[string][]*Stroke)}
}

func (r *memoryRepository) Append(ctx context.Context, stroke *Stroke) error {
	if err := stroke.validate(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	copied := *stroke

	r.mu.Lock()
	r.rooms[stroke.RoomID] = append(r.rooms[stroke.RoomID], &copied)
	r.mu.Unlock()

	return nil
}

func (r *memoryRepository) ListByRoom(ctx context.Context, roomID string) ([]*Stroke, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	stored := r.rooms[roomID]
	list := make([]*Stroke, 0, len(stored))

	for _, s := range stored {
		copied := *s
		list = append(list, &copied)
	}
	r.mu.RUnlock()

	sortForReplay(list)

	return list, nil
}

func (r *memoryRepository) DeleteByRoom(ctx context.Context, roomID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.rooms[roomID]))
	delete(r.rooms, roomID)

	return n, nil
}

func (r *memoryRepository) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.rooms[roomID])), nil
}

func (r *memoryRepository) Close() error {
	return nil
}
