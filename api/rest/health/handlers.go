package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

// returns the server health status
func Handler(store string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{
			Status:  "healthy",
			Service: "collabboard",
			Version: version,
			Store:   store,
		})
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}
