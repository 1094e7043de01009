package rooms

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"codeberg.org/collabboard/server/internal/errors"
)

// mints a fresh room id; rooms exist implicitly once someone joins
func CreateRoomHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusCreated, CreateRoomResponse{RoomID: uuid.NewString()})
	}
}

// reports who is in a room and how many strokes it holds
func GetRoomHandler(rooms RoomReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := errors.ValidatePathRoomID(c, "id")
		if !ok {
			return
		}

		info, err := rooms.Room(c.Request.Context(), roomID)
		if err != nil {
			errors.InternalError(c, "failed to load room", err)
			return
		}

		c.JSON(http.StatusOK, info)
	}
}

// exports the room's strokes in replay order
func ListStrokesHandler(rooms RoomReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := errors.ValidatePathRoomID(c, "id")
		if !ok {
			return
		}

		strokes, err := rooms.History(c.Request.Context(), roomID)
		if err != nil {
			errors.InternalError(c, "failed to load strokes", err)
			return
		}

		c.JSON(http.StatusOK, StrokesResponse{
			RoomID:  roomID,
			Strokes: strokes,
			Count:   len(strokes),
		})
	}
}

func StatsHandler(rooms RoomReader, conns ConnectionCounter, writes WriteStats, store string) gin.HandlerFunc {
	return func(c *gin.Context) {
		dropped, failed := writes.Stats()

		c.JSON(http.StatusOK, StatsResponse{
			Store:         store,
			Connections:   conns.ClientCount(),
			DeliveryRooms: conns.RoomCount(),
			Participants:  rooms.Participants(),
			ActiveRooms:   rooms.ActiveRooms(),
			DroppedWrites: dropped,
			FailedWrites:  failed,
		})
	}
}
