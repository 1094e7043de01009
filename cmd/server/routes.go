package main

import (
	"codeberg.org/collabboard/server/api/rest/health"
	"codeberg.org/collabboard/server/api/rest/rooms"
	"codeberg.org/collabboard/server/api/websocket"
	ws "codeberg.org/collabboard/server/internal/websocket"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	cfg := server.config

	rateLimit, err := RateLimitMiddleware(cfg.RESTRateLimit)
	if err != nil {
		return err
	}

	router.Use(CORSMiddleware(cfg))
	router.GET("/health", health.Handler(cfg.StrokeStore))

	v1 := router.Group("/api/v1")
	v1.Use(rateLimit)

	{
		v1.GET("/ping", health.PingHandler)

		rooms.RegisterRoutes(v1, server.rooms, server.hub, server.writer, cfg.StrokeStore)
		websocket.RegisterRoutes(v1, server.hub, cfg.IsProduction(), ws.ParseOrigins(cfg.AllowedOrigins))
	}

	return nil
}
