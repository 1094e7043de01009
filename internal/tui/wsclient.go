package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"codeberg.org/collabboard/server/internal/logger"
	"codeberg.org/collabboard/server/internal/protocol"
)

var (
	errClientClosed = errors.New("connection closed")
	errOutboundFull = errors.New("send queue full")
)

// creates a new websocket client
func NewWSClient(endpoint string) *WSClient {
	return &WSClient{
		endpoint:   endpoint,
		outbound:   make(chan []byte, outboundBuffer),
		incoming:   make(chan *protocol.Message, 256),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
}

// dials the server and starts the read and write pumps
func (c *WSClient) Connect(ctx context.Context) error {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.endpoint, err)
	}

	if resp != nil && resp.Body != nil {
		resp.Body.Close() //nolint:errcheck,gosec // G104: upgrade response has no body
	}

	c.conn = conn

	go c.readPump()
	go c.writePump()

	return nil
}

// queues an event; events go out in the order they were queued
func (c *WSClient) Send(msgType, roomID string, payload any) error {
	msg, err := protocol.NewMessage(msgType, roomID, payload)
	if err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", msgType, err)
	}

	select {
	case <-c.done:
		return errClientClosed
	default:
	}

	// never blocks: Send runs inside Update
	select {
	case c.outbound <- data:
		return nil
	default:
		return errOutboundFull
	}
}

func (c *WSClient) readPump() {
	defer close(c.incoming)

	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.setErr(err)
			return
		}

		// the server coalesces queued frames with newlines
		for _, line := range bytes.Split(data, []byte{'\n'}) {
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}

			msg, err := protocol.Parse(line)
			if err != nil {
				logger.Warn("dropping malformed server frame", "error", err)
				continue
			}

			select {
			case c.incoming <- msg:
			case <-c.done:
				return
			}
		}
	}
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		close(c.writerDone)
	}()

	for {
		select {
		case data := <-c.outbound:
			if err := c.write(websocket.TextMessage, data); err != nil {
				c.setErr(err)
				return
			}

		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.setErr(err)
				return
			}

		case <-c.done:
			// flush what was queued before close, e.g. leave_room
			for {
				select {
				case data := <-c.outbound:
					if err := c.write(websocket.TextMessage, data); err != nil {
						return
					}
				default:
					c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")) //nolint:errcheck,gosec // G104: close message
					return
				}
			}
		}
	}
}

func (c *WSClient) write(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing
	return c.conn.WriteMessage(messageType, data)
}

func (c *WSClient) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err == nil {
		c.err = err
	}
}

// the error that ended the connection, if any
func (c *WSClient) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

// flushes queued events and closes the connection
func (c *WSClient) Close() {
	c.closeOnce.Do(func() {
		close(c.done)

		if c.conn == nil {
			return
		}

		select {
		case <-c.writerDone:
		case <-time.After(time.Second):
		}

		c.conn.Close() //nolint:errcheck,gosec // G104: best-effort close
	})
}

// waits for the next server event
func (c *WSClient) Listen() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-c.incoming
		if !ok {
			return disconnectedMsg{err: c.Err()}
		}

		return serverMsg{msg: msg}
	}
}
