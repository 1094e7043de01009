package websocket

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"codeberg.org/collabboard/server/internal/logger"
	"github.com/google/uuid"
)

// builds the upgrader origin check. outside production every origin is allowed.
func NewOriginChecker(production bool, allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if !production {
			return true
		}

		origin := r.Header.Get("Origin")

		if origin == "" {
			logger.Warn("websocket connection with no origin header")
			return false
		}

		if len(allowedOrigins) == 0 {
			logger.Warn("websocket origin rejected - ALLOWED_ORIGINS not configured",
				"origin", origin,
			)
			return false
		}

		if slices.Contains(allowedOrigins, origin) {
			return true
		}

		logger.Warn("websocket origin rejected - not in allowed origins",
			"origin", origin,
			"allowed_origins", allowedOrigins,
		)

		return false
	}
}

// splits a comma separated origin list
func ParseOrigins(raw string) []string {
	if raw == "" {
		return []string{}
	}

	origins := strings.Split(raw, ",")
	out := make([]string, 0, len(origins))

	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}

	return out
}

func GenerateClientID() string {
	return uuid.NewString()
}

// strips internals from error details in production
func sanitizeErrorString(details string) string {
	if os.Getenv("ENVIRONMENT") != "production" {
		return details
	}

	lower := strings.ToLower(details)

	switch {
	case strings.Contains(lower, "binding") || strings.Contains(lower, "invalid payload"):
		return "validation failed"
	case strings.Contains(lower, "sql") || strings.Contains(lower, "database"):
		return "database operation failed"
	default:
		return ""
	}
}
