package websocket

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/collabboard/server/internal/errors"
	"codeberg.org/collabboard/server/internal/logger"
	"codeberg.org/collabboard/server/internal/protocol"
	ws "codeberg.org/collabboard/server/internal/websocket"
)

// handles websocket connections for the whiteboard rooms.
// the connection starts unbound and joins a room with a join_room message.
func WebSocketHandler(hub *ws.Hub, upgrader *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			errors.ValidationError(c, err)
			return
		}

		if params.RoomID != "" && !errors.IsValidRoomID(params.RoomID) {
			errors.BadRequest(c, "invalid room_id format", nil)
			return
		}

		// check connection limits before accepting new connection
		ipAddress := c.ClientIP()
		canAccept, reason := hub.CanAcceptConnection(ipAddress)

		if !canAccept {
			errors.TooManyRequests(c, reason)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "failed to upgrade connection",
				"room_id", params.RoomID,
				"ip", ipAddress,
			)

			return
		}

		clientID := ws.GenerateClientID()
		client := ws.NewClient(clientID, ipAddress, conn, hub)

		select {
		case hub.Register <- client:
		case <-hub.Done():
			logger.Warn("hub shutting down, dropping new connection", "client_id", clientID)
			conn.Close() //nolint:errcheck,gosec // G104: connection never served
			return
		}

		go client.WritePump()

		if params.RoomID != "" && params.Username != "" {
			autoJoin(hub, clientID, params)
		}

		go client.ReadPump()

		logger.Info("websocket connection established",
			"client_id", clientID,
			"room_id", params.RoomID,
			"ip", ipAddress,
		)
	}
}

// queues a join_room on behalf of the new connection, ahead of anything it sends
func autoJoin(hub *ws.Hub, clientID string, params ConnectParams) {
	msg, err := protocol.NewMessage(protocol.TypeJoinRoom, params.RoomID, protocol.JoinRoomPayload{
		Username: params.Username,
	})
	if err != nil {
		logger.ErrorErr(err, "failed to build join message", "client_id", clientID)
		return
	}

	msg.ClientID = clientID
	msg.Timestamp = time.Now()

	select {
	case hub.Inbound <- msg:
	case <-hub.Done():
	}
}
