package rooms

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, rooms RoomReader, conns ConnectionCounter, writes WriteStats, store string) {
	router.POST("/rooms", CreateRoomHandler())
	router.GET("/rooms/:id", GetRoomHandler(rooms))
	router.GET("/rooms/:id/strokes", ListStrokesHandler(rooms))
	router.GET("/stats", StatsHandler(rooms, conns, writes, store))
}
