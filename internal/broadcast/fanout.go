package broadcast

import (
	"fmt"

	"codeberg.org/collabboard/server/internal/protocol"
)

// what the fan-out needs from the connection layer
type Transport interface {
	// adds the connection to the room's delivery group
	JoinRoom(connID, roomID string)

	// removes the connection from the room's delivery group
	LeaveRoom(connID, roomID string)

	// delivers to every connection in the room except exceptConnID (empty excludes no one)
	EmitToRoom(roomID string, msg *protocol.Message, exceptConnID string)

	// delivers to a single connection
	EmitTo(connID string, msg *protocol.Message) error

	// queues live deliveries to the connection until Release
	Hold(connID string)

	// sends first (if non-nil), then what filter returns of the held messages,
	// and resumes live delivery
	Release(connID string, first *protocol.Message, filter func([]*protocol.Message) []*protocol.Message)
}

// addresses room events. the synchronizer never reaches connections any other way.
type Fanout struct {
	transport Transport
}

func New(transport Transport) *Fanout {
	return &Fanout{transport: transport}
}

// draw, clear and cursor events: the sender already rendered locally
func (f *Fanout) ToRoomExceptSender(roomID, senderID, msgType string, payload any) error {
	msg, err := protocol.NewMessage(msgType, roomID, payload)
	if err != nil {
		return err
	}

	f.transport.EmitToRoom(roomID, msg, senderID)

	return nil
}

// membership lists: everyone, joiner included
func (f *Fanout) ToRoomIncludingSender(roomID, msgType string, payload any) error {
	msg, err := protocol.NewMessage(msgType, roomID, payload)
	if err != nil {
		return err
	}

	f.transport.EmitToRoom(roomID, msg, "")

	return nil
}

// errors and other replies meant only for the originating connection
func (f *Fanout) ToSender(senderID, roomID, msgType string, payload any) error {
	msg, err := protocol.NewMessage(msgType, roomID, payload)
	if err != nil {
		return err
	}

	if err := f.transport.EmitTo(senderID, msg); err != nil {
		return fmt.Errorf("emit %s to %s: %w", msgType, senderID, err)
	}

	return nil
}

// starts buffering live room events for a joiner whose history is still loading
func (f *Fanout) HoldSender(senderID string) {
	f.transport.Hold(senderID)
}

// unicasts the history to the joiner, then the live events that arrived meanwhile
func (f *Fanout) ReplayToSender(senderID, roomID string, payload any, filter func([]*protocol.Message) []*protocol.Message) error {
	msg, err := protocol.NewMessage(protocol.TypeBoardHistory, roomID, payload)
	if err != nil {
		f.transport.Release(senderID, nil, filter)
		return err
	}

	f.transport.Release(senderID, msg, filter)

	return nil
}

// resumes live delivery, dropping whatever was held
func (f *Fanout) DiscardHeld(senderID string) {
	f.transport.Release(senderID, nil, func([]*protocol.Message) []*protocol.Message { return nil })
}

// adds the connection to the room's delivery group
func (f *Fanout) Subscribe(connID, roomID string) {
	f.transport.JoinRoom(connID, roomID)
}

// removes the connection from the room's delivery group
func (f *Fanout) Unsubscribe(connID, roomID string) {
	f.transport.LeaveRoom(connID, roomID)
}
