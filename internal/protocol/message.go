package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
)

// builds a message with a marshaled payload. a nil payload is sent as {}.
func NewMessage(msgType, roomID string, payload any) (*Message, error) {
	msg := &Message{
		Type:      msgType,
		RoomID:    roomID,
		Timestamp: time.Now(),
	}

	if payload == nil {
		msg.Payload = json.RawMessage("{}")
		return msg, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}

	msg.Payload = raw

	return msg, nil
}

// parses one websocket frame into a message envelope
func Parse(data []byte) (*Message, error) {
	var msg Message

	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	if msg.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidMessage)
	}

	return &msg, nil
}

// unmarshals the payload into v and validates its binding tags
func (m *Message) Decode(v any) error {
	raw := bytes.TrimSpace(m.Payload)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if err := binding.Validator.ValidateStruct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return nil
}

// returns the stroke id carried by a draw_line message, if any
func StrokeID(msg *Message) (string, bool) {
	if msg == nil || msg.Type != TypeDrawLine {
		return "", false
	}

	var ref struct {
		ID string `json:"id"`
	}

	if err := json.Unmarshal(msg.Payload, &ref); err != nil || ref.ID == "" {
		return "", false
	}

	return ref.ID, true
}

// converts a client segment into its relayed form; a missing previous
// point collapses onto the current one so the segment renders as a dot.
func (p *DrawLinePayload) Normalize(id string, createdAt time.Time) StrokePayload {
	prev := *p.CurrentPoint
	if p.PrevPoint != nil {
		prev = *p.PrevPoint
	}

	return StrokePayload{
		ID:           id,
		PrevPoint:    prev,
		CurrentPoint: *p.CurrentPoint,
		Color:        p.Color,
		Width:        p.Width,
		IsErasing:    p.IsErasing,
		CreatedAt:    createdAt,
	}
}
