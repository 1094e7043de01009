package main

import (
	"codeberg.org/collabboard/server/collabboard/strokes"
	"codeberg.org/collabboard/server/internal/config"
	"codeberg.org/collabboard/server/internal/roomsync"
	ws "codeberg.org/collabboard/server/internal/websocket"
	"github.com/gin-gonic/gin"
)

// holds all dependencies and state for the API server
type Server struct {
	config *config.Config
	log    strokes.Repository
	writer *strokes.Writer
	rooms  *roomsync.Synchronizer
	hub    *ws.Hub
	router *gin.Engine
}
