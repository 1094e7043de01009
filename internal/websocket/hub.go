package websocket

import (
	"time"

	"codeberg.org/collabboard/server/internal/logger"
	"codeberg.org/collabboard/server/internal/protocol"
)

func NewHub() *Hub {
	return &Hub{
		clients:       make(map[string]*Client),
		rooms:         make(map[string]map[string]*Client),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		Inbound:       make(chan *protocol.Message, 256),
		handlers:      make(map[string]MessageHandler),
		shutdown:      make(chan struct{}),
		ipConnections: make(map[string]int),
		roomSequences: make(map[string]uint64),
	}
}

// registers a handler for a specific message type
func (h *Hub) RegisterHandler(messageType string, handler MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[messageType] = handler
}

// sets callback to be called when a client disconnects
func (h *Hub) OnClientDisconnect(callback func(client *Client)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClientDisconnect = callback
}

// starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.Inbound:
			h.handleMessage(message)

		case <-h.shutdown:
			h.closeAllConnections()
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]++
	}

	logger.Info("client registered",
		"client_id", client.ID,
		"ip", client.IPAddress,
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()

	callback := h.onClientDisconnect

	if _, exists := h.clients[client.ID]; !exists {
		h.mu.Unlock()
		return
	}

	delete(h.clients, client.ID)

	if roomID := client.Room(); roomID != "" {
		h.removeFromRoom(client.ID, roomID)
	}

	client.Close()

	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]--

		if h.ipConnections[client.IPAddress] <= 0 {
			delete(h.ipConnections, client.IPAddress)
		}
	}

	h.mu.Unlock()

	logger.Info("client unregistered", "client_id", client.ID)

	// outside the lock: the callback broadcasts to the room
	if callback != nil {
		callback(client)
	}
}

// runs the message's handler to completion before the next message is read
func (h *Hub) handleMessage(msg *protocol.Message) {
	h.mu.RLock()
	sender, exists := h.clients[msg.ClientID]
	handler, handled := h.handlers[msg.Type]
	h.mu.RUnlock()

	if !exists {
		logger.Warn("sender client not found for message",
			"client_id", msg.ClientID,
			"message_type", msg.Type,
		)
		return
	}

	if !handled {
		logger.Warn("unhandled message type received",
			"message_type", msg.Type,
			"client_id", sender.ID,
		)

		sender.SendError("bad_request", "unsupported message type", "message type not recognized")
		return
	}

	if err := handler(h, sender, msg); err != nil {
		logger.Warn("handler error",
			"message_type", msg.Type,
			"client_id", sender.ID,
			"room_id", msg.RoomID,
			"error", err,
		)
	}
}

// adds the client to a room's delivery group, leaving any previous one
func (h *Hub) JoinRoom(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, exists := h.clients[connID]
	if !exists {
		return
	}

	if prev := client.Room(); prev != "" && prev != roomID {
		h.removeFromRoom(connID, prev)
	}

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[string]*Client)
	}

	h.rooms[roomID][connID] = client
	client.setRoom(roomID)
}

// removes the client from a room's delivery group
func (h *Hub) LeaveRoom(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoom(connID, roomID)

	if client, exists := h.clients[connID]; exists && client.Room() == roomID {
		client.setRoom("")
	}
}

// must be called with lock held
func (h *Hub) removeFromRoom(connID, roomID string) {
	roomClients, exists := h.rooms[roomID]
	if !exists {
		return
	}

	delete(roomClients, connID)

	if len(roomClients) == 0 {
		delete(h.rooms, roomID)
		delete(h.roomSequences, roomID)

		logger.Debug("room has no more clients, removed", "room_id", roomID)
	}
}

// sends a message to every client in a room except exceptConnID
func (h *Hub) EmitToRoom(roomID string, msg *protocol.Message, exceptConnID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	roomClients, exists := h.rooms[roomID]
	if !exists {
		return
	}

	h.roomSequences[roomID]++
	msg.Sequence = h.roomSequences[roomID]

	for clientID, client := range roomClients {
		if clientID == exceptConnID {
			continue
		}

		if err := client.Send(msg); err != nil {
			logger.ErrorErr(err, "failed to send message to client",
				"client_id", clientID,
				"room_id", roomID,
				"message_type", msg.Type,
			)
		}
	}
}

// sends a message to one client
func (h *Hub) EmitTo(connID string, msg *protocol.Message) error {
	h.mu.RLock()
	client, exists := h.clients[connID]
	h.mu.RUnlock()

	if !exists {
		return ErrClientNotFound
	}

	return client.Send(msg)
}

// queues live deliveries for the client until Release
func (h *Hub) Hold(connID string) {
	h.mu.RLock()
	client, exists := h.clients[connID]
	h.mu.RUnlock()

	if exists {
		client.hold()
	}
}

// sends first, then whatever filter returns of the held messages, and resumes live delivery
func (h *Hub) Release(connID string, first *protocol.Message, filter func([]*protocol.Message) []*protocol.Message) {
	h.mu.RLock()
	client, exists := h.clients[connID]
	h.mu.RUnlock()

	if exists {
		client.release(first, filter)
	}
}

// returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// returns the number of rooms with at least one client
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)
	})
}

// closed once the hub starts shutting down
func (h *Hub) Done() <-chan struct{} {
	return h.shutdown
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()

	logger.Info("notifying clients of server shutdown")

	for _, client := range h.clients {
		shutdownMsg, err := protocol.NewMessage(protocol.TypeServerShutdown, client.Room(), protocol.ServerShutdownPayload{
			Reason: "server is shutting down",
		})
		if err != nil {
			logger.ErrorErr(err, "failed to create shutdown message")
			continue
		}

		// bypass any hold so the notice is not lost behind a pending replay
		client.release(shutdownMsg, dropAll)
	}

	h.mu.Unlock()

	// give clients time to receive the shutdown message
	time.Sleep(500 * time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()

	logger.Info("closing all websocket connections")

	for clientID, client := range h.clients {
		client.Close()
		logger.Debug("closed client", "client_id", clientID)
	}

	h.clients = make(map[string]*Client)
	h.rooms = make(map[string]map[string]*Client)
	h.ipConnections = make(map[string]int)
	h.roomSequences = make(map[string]uint64)
}

// checks if a new connection should be allowed based on limits
func (h *Hub) CanAcceptConnection(ipAddress string) (bool, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.ipConnections[ipAddress] >= maxConnectionsPerIP {
		return false, "maximum connections per IP address exceeded"
	}

	return true, ""
}

func dropAll([]*protocol.Message) []*protocol.Message { return nil }
