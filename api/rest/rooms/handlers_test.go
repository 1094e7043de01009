package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/collabboard/server/internal/protocol"
	"codeberg.org/collabboard/server/internal/roomsync"
)

type stubRooms struct {
	info    roomsync.RoomInfo
	strokes []protocol.StrokePayload
	err     error
}

func (s *stubRooms) Room(_ context.Context, roomID string) (roomsync.RoomInfo, error) {
	info := s.info
	info.RoomID = roomID
	return info, s.err
}

func (s *stubRooms) History(context.Context, string) ([]protocol.StrokePayload, error) {
	return s.strokes, s.err
}

func (s *stubRooms) ActiveRooms() map[string]int { return map[string]int{"r1": 2} }
func (s *stubRooms) Participants() int           { return 2 }

type stubCounter int

func (s stubCounter) ClientCount() int { return int(s) }
func (s stubCounter) RoomCount() int   { return 1 }

type stubWrites struct{}

func (stubWrites) Stats() (int64, int64) { return 1, 3 }

func newRouter(rooms RoomReader) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), rooms, stubCounter(5), stubWrites{}, "memory")

	return router
}

func do(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestCreateRoom(t *testing.T) {
	w := do(newRouter(&stubRooms{}), http.MethodPost, "/api/v1/rooms")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateRoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	_, err := uuid.Parse(resp.RoomID)
	assert.NoError(t, err)
}

func TestGetRoom(t *testing.T) {
	rooms := &stubRooms{info: roomsync.RoomInfo{Members: []string{"ada"}, Active: true, StrokeCount: 4}}

	w := do(newRouter(rooms), http.MethodGet, "/api/v1/rooms/r1")
	require.Equal(t, http.StatusOK, w.Code)

	var info roomsync.RoomInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "r1", info.RoomID)
	assert.Equal(t, []string{"ada"}, info.Members)
	assert.Equal(t, int64(4), info.StrokeCount)
}

func TestGetRoom_InvalidID(t *testing.T) {
	w := do(newRouter(&stubRooms{}), http.MethodGet, "/api/v1/rooms/bad%20id")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRoom_StoreFailure(t *testing.T) {
	w := do(newRouter(&stubRooms{err: errors.New("connection refused")}), http.MethodGet, "/api/v1/rooms/r1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListStrokes(t *testing.T) {
	rooms := &stubRooms{strokes: []protocol.StrokePayload{{ID: "s1"}, {ID: "s2"}}}

	w := do(newRouter(rooms), http.MethodGet, "/api/v1/rooms/r1/strokes")
	require.Equal(t, http.StatusOK, w.Code)

	var resp StrokesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "s1", resp.Strokes[0].ID)
}

func TestStats(t *testing.T) {
	w := do(newRouter(&stubRooms{}), http.MethodGet, "/api/v1/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "memory", resp.Store)
	assert.Equal(t, 5, resp.Connections)
	assert.Equal(t, 1, resp.DeliveryRooms)
	assert.Equal(t, 2, resp.ActiveRooms["r1"])
	assert.Equal(t, int64(3), resp.FailedWrites)
}
