package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"codeberg.org/collabboard/server/collabboard/strokes"
	"codeberg.org/collabboard/server/internal/broadcast"
	"codeberg.org/collabboard/server/internal/protocol"
	"codeberg.org/collabboard/server/internal/registry"
	"codeberg.org/collabboard/server/internal/roomsync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// records calls without touching the hub
type fakeRooms struct {
	mu          sync.Mutex
	joins       []string
	disconnects []string
	draws       int
	drawErr     error
}

func (f *fakeRooms) Join(connID, roomID, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joins = append(f.joins, connID+"@"+roomID+":"+username)
	return nil
}

func (f *fakeRooms) Leave(string, string) {}

func (f *fakeRooms) Disconnect(connID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects = append(f.disconnects, connID)
}

func (f *fakeRooms) DrawLine(string, string, *protocol.DrawLinePayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draws++
	return f.drawErr
}

func (f *fakeRooms) ClearBoard(string, string) error                              { return nil }
func (f *fakeRooms) CursorMove(string, string, *protocol.CursorMovePayload) error { return nil }
func (f *fakeRooms) CursorLeave(string, string) error                             { return nil }

func inbound(t *testing.T, clientID, msgType, roomID string, payload any) *protocol.Message {
	t.Helper()

	msg := mustMessage(t, msgType, roomID, payload)
	msg.ClientID = clientID

	return msg
}

func errorCode(t *testing.T, msg *protocol.Message) string {
	t.Helper()

	var payload protocol.ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))

	return payload.Error
}

func TestJoinRoomHandler_MissingUsernameDisconnects(t *testing.T) {
	hub := NewHub()
	rooms := &fakeRooms{}
	client := newTestClient("c1", hub)

	err := JoinRoomHandler(rooms)(hub, client, inbound(t, "c1", protocol.TypeJoinRoom, "r1", protocol.JoinRoomPayload{}))
	require.Error(t, err)

	assert.Equal(t, []string{"c1"}, rooms.disconnects)
	assert.Empty(t, rooms.joins)

	got := drain(t, client)
	require.Len(t, got, 1)
	assert.Equal(t, "validation_error", errorCode(t, got[0]))
}

func TestJoinRoomHandler_InvalidRoomDisconnects(t *testing.T) {
	hub := NewHub()
	rooms := &fakeRooms{}
	client := newTestClient("c1", hub)

	err := JoinRoomHandler(rooms)(hub, client, inbound(t, "c1", protocol.TypeJoinRoom, "", protocol.JoinRoomPayload{Username: "ada"}))
	assert.ErrorIs(t, err, ErrInvalidRoom)
	assert.Equal(t, []string{"c1"}, rooms.disconnects)
}

func TestJoinRoomHandler_Joins(t *testing.T) {
	hub := NewHub()
	rooms := &fakeRooms{}
	client := newTestClient("c1", hub)

	err := JoinRoomHandler(rooms)(hub, client, inbound(t, "c1", protocol.TypeJoinRoom, "r1", protocol.JoinRoomPayload{Username: "ada"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"c1@r1:ada"}, rooms.joins)
}

func TestDrawLineHandler_RejectsInvalidPayload(t *testing.T) {
	hub := NewHub()
	rooms := &fakeRooms{}
	client := newTestClient("c1", hub)

	// missing current point
	err := DrawLineHandler(rooms)(hub, client, inbound(t, "c1", protocol.TypeDrawLine, "r1", map[string]any{
		"color": "#000000",
		"width": 5,
	}))
	require.Error(t, err)
	assert.Zero(t, rooms.draws)

	got := drain(t, client)
	require.Len(t, got, 1)
	assert.Equal(t, "validation_error", errorCode(t, got[0]))
}

func TestDrawLineHandler_NotInRoom(t *testing.T) {
	hub := NewHub()
	rooms := &fakeRooms{drawErr: roomsync.ErrNotInRoom}
	client := newTestClient("c1", hub)

	err := DrawLineHandler(rooms)(hub, client, inbound(t, "c1", protocol.TypeDrawLine, "r1", protocol.DrawLinePayload{
		CurrentPoint: &protocol.Point{X: 1, Y: 1},
		Color:        "#000000",
		Width:        5,
	}))
	assert.ErrorIs(t, err, roomsync.ErrNotInRoom)

	got := drain(t, client)
	require.Len(t, got, 1)
	assert.Equal(t, "not_in_room", errorCode(t, got[0]))
}

func TestPingHandler(t *testing.T) {
	hub := NewHub()
	client := newTestClient("c1", hub)

	require.NoError(t, PingHandler()(hub, client, inbound(t, "c1", protocol.TypePing, "", nil)))

	got := drain(t, client)
	require.Len(t, got, 1)
	assert.Equal(t, protocol.TypePong, got[0].Type)
}

// wires the real room stack behind a running hub
func newRoomHub(t *testing.T) (*Hub, *roomsync.Synchronizer) {
	t.Helper()

	repo := strokes.NewMemoryRepository()
	writer := strokes.NewWriter(repo, 64)
	writer.Start()

	hub := NewHub()
	rooms := roomsync.New(registry.New(), broadcast.New(hub), repo, writer, roomsync.Options{})
	RegisterRoomHandlers(hub, rooms)

	go hub.Run()

	t.Cleanup(func() {
		hub.Shutdown()
		rooms.Wait()
		writer.Stop()
	})

	return hub, rooms
}

func TestRoomFlow_DrawReachesPeersAndLateJoiner(t *testing.T) {
	hub, rooms := newRoomHub(t)

	alice := newTestClient("alice", hub)
	bob := newTestClient("bob", hub)
	carol := newTestClient("carol", hub)
	register(t, hub, alice, bob, carol)

	hub.Inbound <- inbound(t, "alice", protocol.TypeJoinRoom, "board", protocol.JoinRoomPayload{Username: "Alice"})
	waitFor(t, alice, protocol.TypeBoardHistory)

	hub.Inbound <- inbound(t, "bob", protocol.TypeJoinRoom, "board", protocol.JoinRoomPayload{Username: "Bob"})
	waitFor(t, bob, protocol.TypeBoardHistory)

	hub.Inbound <- inbound(t, "alice", protocol.TypeDrawLine, "board", protocol.DrawLinePayload{
		PrevPoint:    &protocol.Point{X: 0, Y: 0},
		CurrentPoint: &protocol.Point{X: 10, Y: 10},
		Color:        "#ff0000",
		Width:        5,
	})

	relayed := waitFor(t, bob, protocol.TypeDrawLine)

	var stroke protocol.StrokePayload
	require.NoError(t, json.Unmarshal(relayed.Payload, &stroke))
	assert.NotEmpty(t, stroke.ID)
	assert.Equal(t, "#ff0000", stroke.Color)

	// the sender never gets its own segment back
	for _, msg := range drain(t, alice) {
		assert.NotEqual(t, protocol.TypeDrawLine, msg.Type)
	}

	hub.Inbound <- inbound(t, "carol", protocol.TypeJoinRoom, "board", protocol.JoinRoomPayload{Username: "Carol"})
	history := waitFor(t, carol, protocol.TypeBoardHistory)

	var payload protocol.BoardHistoryPayload
	require.NoError(t, json.Unmarshal(history.Payload, &payload))
	require.Len(t, payload.Strokes, 1)
	assert.Equal(t, stroke.ID, payload.Strokes[0].ID)

	assert.Equal(t, 3, rooms.Participants())
}

func TestRoomFlow_DrawBeforeJoinIsRejected(t *testing.T) {
	hub, _ := newRoomHub(t)

	client := newTestClient("c1", hub)
	register(t, hub, client)

	hub.Inbound <- inbound(t, "c1", protocol.TypeDrawLine, "board", protocol.DrawLinePayload{
		CurrentPoint: &protocol.Point{X: 1, Y: 1},
		Color:        "#000000",
		Width:        5,
	})

	assert.Equal(t, "not_in_room", errorCode(t, waitFor(t, client, protocol.TypeError)))
}

func TestRoomFlow_DisconnectUpdatesMembers(t *testing.T) {
	hub, rooms := newRoomHub(t)

	alice := newTestClient("alice", hub)
	bob := newTestClient("bob", hub)
	register(t, hub, alice, bob)

	hub.Inbound <- inbound(t, "alice", protocol.TypeJoinRoom, "board", protocol.JoinRoomPayload{Username: "Alice"})
	waitFor(t, alice, protocol.TypeBoardHistory)

	hub.Inbound <- inbound(t, "bob", protocol.TypeJoinRoom, "board", protocol.JoinRoomPayload{Username: "Bob"})
	waitFor(t, bob, protocol.TypeBoardHistory)
	drain(t, alice)

	hub.Unregister <- bob

	update := waitFor(t, alice, protocol.TypeUpdateUsers)

	var users protocol.UpdateUsersPayload
	require.NoError(t, json.Unmarshal(update.Payload, &users))
	require.Len(t, users.Users, 1)
	assert.Equal(t, "Alice", users.Users[0].Username)

	assert.Eventually(t, func() bool { return rooms.Participants() == 1 }, time.Second, 5*time.Millisecond)
}
