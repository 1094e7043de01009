package roomsync

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/collabboard/server/collabboard/strokes"
	"codeberg.org/collabboard/server/internal/broadcast"
	"codeberg.org/collabboard/server/internal/logger"
	"codeberg.org/collabboard/server/internal/protocol"
	"codeberg.org/collabboard/server/internal/registry"
	"github.com/google/uuid"
)

func New(reg *registry.Registry, fanout *broadcast.Fanout, log strokes.Repository, writer *strokes.Writer, opts Options) *Synchronizer {
	if opts.ReplayTimeout <= 0 {
		opts.ReplayTimeout = defaultReplayTimeout
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Synchronizer{
		registry:      reg,
		fanout:        fanout,
		log:           log,
		writer:        writer,
		replayTimeout: opts.ReplayTimeout,
		now:           opts.Now,
		replays:       make(map[string]uint64),
	}

	reg.OnChange(s.broadcastMembers)

	return s
}

// binds the connection to the room, announces the new member list to the
// whole room and replays the room's strokes to the joiner alone
func (s *Synchronizer) Join(connID, roomID, username string) error {
	if roomID == "" || username == "" {
		s.Disconnect(connID)
		return ErrMissingInput
	}

	if prev, bound := s.registry.RoomOf(connID); bound && prev != roomID {
		s.cancelReplay(connID)
		s.fanout.Unsubscribe(connID, prev)
	}

	s.fanout.Subscribe(connID, roomID)
	s.registry.Join(connID, username, roomID)

	// live events from here on queue behind the history
	s.fanout.HoldSender(connID)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.replays[connID] = gen
	s.mu.Unlock()

	s.wg.Add(1)
	go s.replay(connID, roomID, gen)

	logger.ForClient(roomID, connID).Debug("participant joined room", "username", username)

	return nil
}

func (s *Synchronizer) replay(connID, roomID string, gen uint64) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.replayTimeout)
	defer cancel()

	log := logger.ForClient(roomID, connID)

	list, err := s.loadHistory(ctx, roomID)
	if err != nil {
		log.Error("failed to load board history, replaying empty board", "error", err)
		list = nil
	}

	payload, seen := toHistory(list)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.replays[connID] != gen {
		log.Debug("discarding superseded history replay")
		return
	}

	delete(s.replays, connID)

	if err := s.fanout.ReplayToSender(connID, roomID, payload, heldSince(roomID, seen)); err != nil {
		log.Error("failed to send board history", "error", err)
	}
}

// strokes already accepted by the writer are applied before the query runs
func (s *Synchronizer) loadHistory(ctx context.Context, roomID string) ([]*strokes.Stroke, error) {
	if err := s.writer.Sync(ctx); err != nil {
		logger.WarnErr(err, "stroke writer not drained before replay", "room_id", roomID)
	}

	list, err := s.log.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list strokes for room %s: %w", roomID, err)
	}

	return list, nil
}

func (s *Synchronizer) cancelReplay(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, pending := s.replays[connID]; !pending {
		return
	}

	delete(s.replays, connID)
	s.fanout.DiscardHeld(connID)
}

// removes the connection from its room. roomID, when given, must match
// the room the connection is in; anything else is a no-op.
func (s *Synchronizer) Leave(connID, roomID string) {
	current, ok := s.registry.RoomOf(connID)
	if !ok || (roomID != "" && roomID != current) {
		return
	}

	s.Disconnect(connID)
}

// drops whatever session the connection had. unknown connections are a no-op.
func (s *Synchronizer) Disconnect(connID string) {
	current, ok := s.registry.RoomOf(connID)
	if !ok {
		return
	}

	s.cancelReplay(connID)
	s.fanout.Unsubscribe(connID, current)
	s.registry.Leave(connID)

	logger.ForClient(current, connID).Debug("participant left room")
}

// relays one segment to the rest of the room, then queues it for the stroke log
func (s *Synchronizer) DrawLine(connID, roomID string, p *protocol.DrawLinePayload) error {
	room, err := s.boundRoom(connID, roomID)
	if err != nil {
		return err
	}

	stroke := p.Normalize(uuid.NewString(), s.now().UTC())

	if err := s.fanout.ToRoomExceptSender(room, connID, protocol.TypeDrawLine, stroke); err != nil {
		return err
	}

	s.writer.Append(toStroke(room, stroke, s.seq.Add(1)))

	return nil
}

// tells the rest of the room to wipe, then queues deletion of the room's log
func (s *Synchronizer) ClearBoard(connID, roomID string) error {
	room, err := s.boundRoom(connID, roomID)
	if err != nil {
		return err
	}

	if err := s.fanout.ToRoomExceptSender(room, connID, protocol.TypeClearBoard, nil); err != nil {
		return err
	}

	s.writer.Clear(room)

	logger.ForClient(room, connID).Info("board cleared")

	return nil
}

func (s *Synchronizer) CursorMove(connID, roomID string, p *protocol.CursorMovePayload) error {
	room, err := s.boundRoom(connID, roomID)
	if err != nil {
		return err
	}

	p.UserID = connID

	if p.UserName == "" {
		if session, ok := s.registry.Session(connID); ok {
			p.UserName = session.Username
		}
	}

	return s.fanout.ToRoomExceptSender(room, connID, protocol.TypeCursorMove, p)
}

func (s *Synchronizer) CursorLeave(connID, roomID string) error {
	room, err := s.boundRoom(connID, roomID)
	if err != nil {
		return err
	}

	return s.fanout.ToRoomExceptSender(room, connID, protocol.TypeCursorLeave, protocol.CursorLeavePayload{UserID: connID})
}

// resolves the room an event applies to. an empty room id means the
// connection's current room.
func (s *Synchronizer) boundRoom(connID, roomID string) (string, error) {
	current, ok := s.registry.RoomOf(connID)
	if !ok {
		return "", ErrNotInRoom
	}

	if roomID != "" && roomID != current {
		return "", ErrNotInRoom
	}

	return current, nil
}

func (s *Synchronizer) broadcastMembers(roomID string) {
	payload := toMembers(s.registry.MembersOf(roomID))

	if err := s.fanout.ToRoomIncludingSender(roomID, protocol.TypeUpdateUsers, payload); err != nil {
		logger.ErrorErr(err, "failed to broadcast member list", "room_id", roomID)
	}
}

// blocks until in-flight history replays have finished
func (s *Synchronizer) Wait() {
	s.wg.Wait()
}
