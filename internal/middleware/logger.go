package middleware

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the gin context key carrying the per-request ID.
const ContextKeyRequestID = "request_id"

// RequestID tags each request with an ID, honoring one supplied upstream in
// X-Request-ID, and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logger writes one line per request: id, method, path, status, latency, and
// any handler errors. Health probes are skipped to keep orchestrator polling
// out of the logs.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/readyz" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		line := fmt.Sprintf("http: [%s] %s %s -> %d (%s)",
			c.GetString(ContextKeyRequestID),
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start).Round(time.Millisecond),
		)
		if len(c.Errors) > 0 {
			line += " errors=" + strings.Join(c.Errors.Errors(), "; ")
		}
		log.Print(line)
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
