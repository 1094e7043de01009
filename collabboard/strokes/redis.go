package strokes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisRepository struct {
	client *redis.Client
}

// stroke log kept as one redis list per room, in append order
func NewRedisRepository(client *redis.Client) Repository {
	return &redisRepository{client: client}
}

// parses the url and checks the connection before returning a client
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // already failing
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func roomKey(roomID string) string {
	return fmt.Sprintf(keyRoomStrokes, roomID)
}

func (r *redisRepository) Append(ctx context.Context, stroke *Stroke) error {
	if err := stroke.validate(); err != nil {
		return err
	}

	data, err := json.Marshal(stroke)
	if err != nil {
		return fmt.Errorf("failed to marshal stroke: %w", err)
	}

	if err := r.client.RPush(ctx, roomKey(stroke.RoomID), data).Err(); err != nil {
		return fmt.Errorf("failed to append stroke: %w", err)
	}

	return nil
}

func (r *redisRepository) ListByRoom(ctx context.Context, roomID string) ([]*Stroke, error) {
	items, err := r.client.LRange(ctx, roomKey(roomID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list strokes: %w", err)
	}

	list := make([]*Stroke, 0, len(items))

	for _, item := range items {
		var s Stroke

		if err := json.Unmarshal([]byte(item), &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stroke: %w", err)
		}

		list = append(list, &s)
	}

	sortForReplay(list)

	return list, nil
}

func (r *redisRepository) DeleteByRoom(ctx context.Context, roomID string) (int64, error) {
	key := roomKey(roomID)

	var count *redis.IntCmd

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.LLen(ctx, key)
		pipe.Del(ctx, key)
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to delete strokes: %w", err)
	}

	return count.Val(), nil
}

func (r *redisRepository) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	n, err := r.client.LLen(ctx, roomKey(roomID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count strokes: %w", err)
	}

	return n, nil
}

func (r *redisRepository) Close() error {
	return r.client.Close()
}
