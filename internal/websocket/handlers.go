package websocket

import (
	"errors"

	apperrors "codeberg.org/collabboard/server/internal/errors"
	"codeberg.org/collabboard/server/internal/logger"
	"codeberg.org/collabboard/server/internal/protocol"
	"codeberg.org/collabboard/server/internal/roomsync"
)

// wires every room event to the service and drops sessions on disconnect
func RegisterRoomHandlers(hub *Hub, rooms RoomService) {
	hub.RegisterHandler(protocol.TypeJoinRoom, JoinRoomHandler(rooms))
	hub.RegisterHandler(protocol.TypeLeaveRoom, LeaveRoomHandler(rooms))
	hub.RegisterHandler(protocol.TypeDrawLine, DrawLineHandler(rooms))
	hub.RegisterHandler(protocol.TypeClearBoard, ClearBoardHandler(rooms))
	hub.RegisterHandler(protocol.TypeCursorMove, CursorMoveHandler(rooms))
	hub.RegisterHandler(protocol.TypeCursorLeave, CursorLeaveHandler(rooms))
	hub.RegisterHandler(protocol.TypePing, PingHandler())

	hub.OnClientDisconnect(func(client *Client) {
		rooms.Disconnect(client.ID)
	})
}

// handles join_room; a rejected join leaves the connection unbound
func JoinRoomHandler(rooms RoomService) MessageHandler {
	return func(hub *Hub, client *Client, msg *protocol.Message) error {
		if !client.allowJoin() {
			client.SendError(apperrors.CodeTooManyRequests, "too many join requests", "")
			return ErrRateLimitExceeded
		}

		var payload protocol.JoinRoomPayload
		if err := msg.Decode(&payload); err != nil {
			rooms.Disconnect(client.ID)
			client.SendError(apperrors.CodeValidationError, "a username is required to join", err.Error())
			return err
		}

		if !apperrors.IsValidRoomID(msg.RoomID) {
			rooms.Disconnect(client.ID)
			client.SendError(apperrors.CodeValidationError, "invalid room id", "")
			return ErrInvalidRoom
		}

		if err := rooms.Join(client.ID, msg.RoomID, payload.Username); err != nil {
			notify(client, err)
			return err
		}

		return nil
	}
}

// handles leave_room
func LeaveRoomHandler(rooms RoomService) MessageHandler {
	return func(hub *Hub, client *Client, msg *protocol.Message) error {
		rooms.Leave(client.ID, msg.RoomID)
		return nil
	}
}

// handles draw_line segments
func DrawLineHandler(rooms RoomService) MessageHandler {
	return func(hub *Hub, client *Client, msg *protocol.Message) error {
		if !client.allowDraw() {
			client.SendError(apperrors.CodeTooManyRequests, "drawing too fast, segment dropped", "")
			return ErrRateLimitExceeded
		}

		var payload protocol.DrawLinePayload
		if err := msg.Decode(&payload); err != nil {
			client.SendError(apperrors.CodeValidationError, "invalid draw_line payload", err.Error())
			return err
		}

		if err := rooms.DrawLine(client.ID, msg.RoomID, &payload); err != nil {
			notify(client, err)
			return err
		}

		return nil
	}
}

// handles clear_board
func ClearBoardHandler(rooms RoomService) MessageHandler {
	return func(hub *Hub, client *Client, msg *protocol.Message) error {
		if err := rooms.ClearBoard(client.ID, msg.RoomID); err != nil {
			notify(client, err)
			return err
		}

		return nil
	}
}

// handles cursor_move; excess moves are dropped without a reply
func CursorMoveHandler(rooms RoomService) MessageHandler {
	return func(hub *Hub, client *Client, msg *protocol.Message) error {
		if !client.allowCursor() {
			return nil
		}

		var payload protocol.CursorMovePayload
		if err := msg.Decode(&payload); err != nil {
			client.SendError(apperrors.CodeValidationError, "invalid cursor_move payload", err.Error())
			return err
		}

		if err := rooms.CursorMove(client.ID, msg.RoomID, &payload); err != nil {
			notify(client, err)
			return err
		}

		return nil
	}
}

// handles cursor_leave
func CursorLeaveHandler(rooms RoomService) MessageHandler {
	return func(hub *Hub, client *Client, msg *protocol.Message) error {
		if err := rooms.CursorLeave(client.ID, msg.RoomID); err != nil {
			notify(client, err)
			return err
		}

		return nil
	}
}

// answers ping with pong
func PingHandler() MessageHandler {
	return func(hub *Hub, client *Client, msg *protocol.Message) error {
		pong, err := protocol.NewMessage(protocol.TypePong, client.Room(), nil)
		if err != nil {
			return err
		}

		return client.Send(pong)
	}
}

func notify(client *Client, err error) {
	switch {
	case errors.Is(err, roomsync.ErrNotInRoom):
		client.SendError(apperrors.CodeNotInRoom, "join the room before sending events", "")
	case errors.Is(err, roomsync.ErrMissingInput):
		client.SendError(apperrors.CodeValidationError, "room id and username are required", "")
	default:
		logger.ErrorErr(err, "failed to process room event", "client_id", client.ID)
		client.SendError(apperrors.CodeServerError, "failed to process message", err.Error())
	}
}
