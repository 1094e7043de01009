package websocket

import (
	"encoding/json"
	"time"

	"codeberg.org/collabboard/server/internal/logger"
	"codeberg.org/collabboard/server/internal/protocol"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// creates a new websocket client connection
func NewClient(id, ipAddress string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:            id,
		IPAddress:     ipAddress,
		conn:          conn,
		hub:           hub,
		send:          make(chan []byte, sendBufferSize),
		drawLimiter:   rate.NewLimiter(rate.Limit(drawEventsPerSecond), drawEventBurst),
		cursorLimiter: rate.NewLimiter(rate.Limit(cursorEventsPerSecond), cursorEventBurst),
		joinLimiter:   rate.NewLimiter(rate.Limit(joinEventsPerSecond), joinEventBurst),
	}
}

// reads frames from the connection and hands them to the hub in order
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.Unregister <- c:
		case <-c.hub.Done():
		}
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket error",
					"client_id", c.ID,
					"room_id", c.Room(),
					"error", err,
				)
			}

			break
		}

		msg, err := protocol.Parse(messageBytes)
		if err != nil {
			logger.Debug("dropping malformed frame", "client_id", c.ID, "error", err)
			c.SendError("bad_request", "invalid message format", err.Error())
			continue
		}

		msg.ClientID = c.ID
		msg.Timestamp = time.Now()

		select {
		case c.hub.Inbound <- msg:
		case <-c.hub.Done():
			return
		}
	}
}

// writes queued frames to the connection and keeps it alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, c.closeFrame()) //nolint:errcheck,gosec // G104: close message
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			w.Write(message) //nolint:errcheck,gosec // G104: websocket write

			// coalesce queued frames into the current websocket message
			n := len(c.send)

			for range n {
				next, ok := <-c.send
				if !ok {
					break
				}

				w.Write([]byte{'\n'}) //nolint:errcheck,gosec // G104: websocket write
				w.Write(next)         //nolint:errcheck,gosec // G104: websocket write
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) closeFrame() []byte {
	c.mu.Lock()
	reason := c.closeReason
	c.mu.Unlock()

	if reason == "" {
		return []byte{}
	}

	return websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
}

// sends a message to the client, or queues it while the client is held
func (c *Client) Send(msg *protocol.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	if c.holding {
		if len(c.held) >= maxHeldMessages {
			c.closeLocked("too many messages queued, please reconnect")
			return ErrBufferOverflow
		}

		c.held = append(c.held, msg)
		return nil
	}

	return c.enqueueLocked(msg)
}

// must be called with lock held
func (c *Client) enqueueLocked(msg *protocol.Message) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		// a reader this far behind cannot catch up; drop the connection
		c.closeLocked("message buffer full, please reconnect")
		return ErrBufferOverflow
	}
}

func (c *Client) hold() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.holding = true
}

func (c *Client) release(first *protocol.Message, filter func([]*protocol.Message) []*protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	held := c.held
	c.holding = false
	c.held = nil

	if c.closed {
		return
	}

	if first != nil {
		if err := c.enqueueLocked(first); err != nil {
			return
		}
	}

	if filter != nil {
		held = filter(held)
	}

	for _, msg := range held {
		if err := c.enqueueLocked(msg); err != nil {
			return
		}
	}
}

// sends an error message to the client
func (c *Client) SendError(code, message, details string) {
	if details != "" {
		details = sanitizeErrorString(details)
	}

	errorMsg, err := protocol.NewMessage(protocol.TypeError, c.Room(), protocol.ErrorPayload{
		Error:   code,
		Message: message,
		Details: details,
	})
	if err != nil {
		logger.ErrorErr(err, "failed to create error message",
			"client_id", c.ID,
			"error_code", code,
		)
		return
	}

	// errors go out even while the client is held
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.enqueueLocked(errorMsg) //nolint:errcheck,gosec // G104: best effort error notification
}

// closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked("")
}

func (c *Client) closeLocked(reason string) {
	if c.closed {
		return
	}

	c.closed = true
	c.closeReason = reason
	c.held = nil
	close(c.send)
}

// checks if the client is closed
func (c *Client) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// returns the room the client currently receives events for
func (c *Client) Room() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roomID
}

func (c *Client) setRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.roomID = roomID
}

func (c *Client) allowDraw() bool {
	return c.drawLimiter.Allow()
}

func (c *Client) allowCursor() bool {
	return c.cursorLimiter.Allow()
}

func (c *Client) allowJoin() bool {
	return c.joinLimiter.Allow()
}
