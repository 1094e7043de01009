package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	ws "codeberg.org/collabboard/server/internal/websocket"
)

func RegisterRoutes(router *gin.RouterGroup, hub *ws.Hub, production bool, allowedOrigins []string) {
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     ws.NewOriginChecker(production, allowedOrigins),
	}

	router.GET("/ws", WebSocketHandler(hub, upgrader))
}
