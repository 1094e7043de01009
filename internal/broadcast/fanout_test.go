package broadcast

import (
	"testing"

	"codeberg.org/collabboard/server/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	roomID string
	connID string
	except string
	msg    *protocol.Message
}

type fakeTransport struct {
	room       []emitted
	direct     []emitted
	held       map[string]bool
	released   []*protocol.Message
	filterSeen func([]*protocol.Message) []*protocol.Message
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{held: make(map[string]bool)}
}

func (f *fakeTransport) JoinRoom(string, string)  {}
func (f *fakeTransport) LeaveRoom(string, string) {}

func (f *fakeTransport) EmitToRoom(roomID string, msg *protocol.Message, except string) {
	f.room = append(f.room, emitted{roomID: roomID, except: except, msg: msg})
}

func (f *fakeTransport) EmitTo(connID string, msg *protocol.Message) error {
	f.direct = append(f.direct, emitted{connID: connID, msg: msg})
	return nil
}

func (f *fakeTransport) Hold(connID string) { f.held[connID] = true }

func (f *fakeTransport) Release(connID string, first *protocol.Message, filter func([]*protocol.Message) []*protocol.Message) {
	delete(f.held, connID)
	f.released = append(f.released, first)
	f.filterSeen = filter
}

func TestToRoomExceptSender_ExcludesSender(t *testing.T) {
	tr := newFakeTransport()
	f := New(tr)

	require.NoError(t, f.ToRoomExceptSender("r1", "c1", protocol.TypeClearBoard, nil))

	require.Len(t, tr.room, 1)
	assert.Equal(t, "r1", tr.room[0].roomID)
	assert.Equal(t, "c1", tr.room[0].except)
	assert.Equal(t, protocol.TypeClearBoard, tr.room[0].msg.Type)
	assert.Equal(t, "r1", tr.room[0].msg.RoomID)
}

func TestToRoomIncludingSender_ExcludesNoOne(t *testing.T) {
	tr := newFakeTransport()
	f := New(tr)

	payload := protocol.UpdateUsersPayload{Users: []protocol.Member{{Username: "ada"}}}
	require.NoError(t, f.ToRoomIncludingSender("r1", protocol.TypeUpdateUsers, payload))

	require.Len(t, tr.room, 1)
	assert.Empty(t, tr.room[0].except)
	assert.JSONEq(t, `{"users":[{"username":"ada"}]}`, string(tr.room[0].msg.Payload))
}

func TestToSender_Unicast(t *testing.T) {
	tr := newFakeTransport()
	f := New(tr)

	require.NoError(t, f.ToSender("c9", "r1", protocol.TypeError, protocol.ErrorPayload{Error: "bad_request"}))

	assert.Empty(t, tr.room)
	require.Len(t, tr.direct, 1)
	assert.Equal(t, "c9", tr.direct[0].connID)
}

func TestReplayToSender_ReleasesWithHistoryFirst(t *testing.T) {
	tr := newFakeTransport()
	f := New(tr)

	f.HoldSender("c1")
	assert.True(t, tr.held["c1"])

	all := func(held []*protocol.Message) []*protocol.Message { return held }
	require.NoError(t, f.ReplayToSender("c1", "r1", protocol.BoardHistoryPayload{}, all))

	assert.False(t, tr.held["c1"])
	require.Len(t, tr.released, 1)
	assert.Equal(t, protocol.TypeBoardHistory, tr.released[0].Type)
	assert.NotNil(t, tr.filterSeen)
}

func TestDiscardHeld(t *testing.T) {
	tr := newFakeTransport()
	f := New(tr)

	f.HoldSender("c1")
	f.DiscardHeld("c1")

	require.Len(t, tr.released, 1)
	assert.Nil(t, tr.released[0])
	assert.Empty(t, tr.filterSeen([]*protocol.Message{{Type: protocol.TypeDrawLine}}))
}
