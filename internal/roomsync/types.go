package roomsync

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/collabboard/server/collabboard/strokes"
	"codeberg.org/collabboard/server/internal/broadcast"
	"codeberg.org/collabboard/server/internal/registry"
)

const defaultReplayTimeout = 5 * time.Second

var (
	ErrMissingInput = errors.New("room id and username are required")
	ErrNotInRoom    = errors.New("connection has not joined this room")
)

type Options struct {
	// bound on the history query a joiner waits for
	ReplayTimeout time.Duration

	// clock for stroke timestamps; defaults to time.Now
	Now func() time.Time
}

// routes room events between participants and the stroke log
type Synchronizer struct {
	registry *registry.Registry
	fanout   *broadcast.Fanout
	log      strokes.Repository
	writer   *strokes.Writer

	replayTimeout time.Duration
	now           func() time.Time
	seq           atomic.Int64

	// pending history replays: connection id -> generation
	mu      sync.Mutex
	replays map[string]uint64
	gen     uint64
	wg      sync.WaitGroup
}

// what the REST surface reports about a room
type RoomInfo struct {
	RoomID      string   `json:"room_id"`
	Members     []string `json:"members"`
	Active      bool     `json:"active"`
	StrokeCount int64    `json:"stroke_count"`
}
