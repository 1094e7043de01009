package strokes

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	apperrors "codeberg.org/collabboard/server/internal/errors"
	"codeberg.org/collabboard/server/internal/logger"
)

const defaultOpTimeout = 10 * time.Second

type opKind int

const (
	opAppend opKind = iota
	opClear
	opBarrier
)

type writeOp struct {
	kind   opKind
	stroke *Stroke
	roomID string
	done   chan struct{}
}

// applies stroke log writes in the order they were accepted, off the
// broadcast path. failures are logged and never retried.
type Writer struct {
	repo      Repository
	queue     chan writeOp
	opTimeout time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup

	mu      sync.RWMutex
	stopped bool

	dropped atomic.Int64
	failed  atomic.Int64
}

func NewWriter(repo Repository, queueSize int) *Writer {
	if queueSize <= 0 {
		queueSize = 1
	}

	return &Writer{
		repo:      repo,
		queue:     make(chan writeOp, queueSize),
		opTimeout: defaultOpTimeout,
		stopCh:    make(chan struct{}),
	}
}

// begins the background write loop
func (w *Writer) Start() {
	w.wg.Add(1)
	go w.run()
	logger.Info("stroke writer started", "queue_size", cap(w.queue))
}

// stops accepting writes, applies everything already queued, then returns
func (w *Writer) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.mu.Unlock()

	close(w.stopCh)
	w.wg.Wait()

	logger.Info("stroke writer stopped",
		"dropped", w.dropped.Load(),
		"failed", w.failed.Load(),
	)
}

// queues a stroke for persistence. never blocks; false means the stroke was dropped.
func (w *Writer) Append(stroke *Stroke) bool {
	return w.enqueue(writeOp{kind: opAppend, stroke: stroke, roomID: stroke.RoomID})
}

// queues deletion of every stroke in the room
func (w *Writer) Clear(roomID string) bool {
	return w.enqueue(writeOp{kind: opClear, roomID: roomID})
}

func (w *Writer) enqueue(op writeOp) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		w.dropped.Add(1)
		logger.Warn("stroke writer stopped, dropping write", "room_id", op.roomID)
		return false
	}

	select {
	case w.queue <- op:
		return true
	default:
		w.dropped.Add(1)
		logger.Warn("stroke write queue full, dropping write",
			"room_id", op.roomID,
			"queue_size", cap(w.queue),
		)
		return false
	}
}

// waits until every write queued before the call has been applied
func (w *Writer) Sync(ctx context.Context) error {
	op := writeOp{kind: opBarrier, done: make(chan struct{})}

	w.mu.RLock()
	if w.stopped {
		w.mu.RUnlock()
		return ErrWriterStopped
	}

	select {
	case w.queue <- op:
	case <-ctx.Done():
		w.mu.RUnlock()
		return ctx.Err()
	}
	w.mu.RUnlock()

	select {
	case <-op.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// returns the number of dropped and failed writes since start
func (w *Writer) Stats() (dropped, failed int64) {
	return w.dropped.Load(), w.failed.Load()
}

func (w *Writer) run() {
	defer w.wg.Done()

	for {
		select {
		case op := <-w.queue:
			w.apply(op)
		case <-w.stopCh:
			w.drain()
			return
		}
	}
}

func (w *Writer) drain() {
	for {
		select {
		case op := <-w.queue:
			w.apply(op)
		default:
			return
		}
	}
}

func (w *Writer) apply(op writeOp) {
	if op.kind == opBarrier {
		close(op.done)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.opTimeout)
	defer cancel()

	log := logger.With("room_id", op.roomID)

	switch op.kind {
	case opAppend:
		if err := w.repo.Append(ctx, op.stroke); err != nil {
			w.failed.Add(1)
			log.Error("failed to persist stroke",
				"stroke_id", op.stroke.ID,
				"category", apperrors.Category(err),
				"error", err,
			)
		}
	case opClear:
		n, err := w.repo.DeleteByRoom(ctx, op.roomID)
		if err != nil {
			w.failed.Add(1)
			log.Error("failed to clear stroke log",
				"category", apperrors.Category(err),
				"error", err,
			)
			return
		}

		log.Debug("stroke log cleared", "deleted", n)
	}
}
