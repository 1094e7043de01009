package main

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"codeberg.org/collabboard/server/internal/config"
	"codeberg.org/collabboard/server/internal/errors"
	"codeberg.org/collabboard/server/internal/logger"
)

// local vite dev server of the browser client
const devClientOrigin = "http://localhost:5173"

// allows the browser client's origins to call the api
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	origins := []string{devClientOrigin}

	if cfg.ClientURL != "" && cfg.ClientURL != devClientOrigin {
		origins = append(origins, cfg.ClientURL)
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// per-IP request limit for the api group, e.g. "300-M"
func RateLimitMiddleware(formatted string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid REST_RATE_LIMIT %q: %w", formatted, err)
	}

	instance := limiter.New(memory.NewStore(), rate)

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			logger.Warn("rest rate limit reached", "ip", c.ClientIP(), "path", c.Request.URL.Path)
			errors.TooManyRequests(c, "rate limit exceeded, slow down")
			c.Abort()
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			errors.InternalError(c, "rate limiter failed", err)
			c.Abort()
		}),
	), nil
}
