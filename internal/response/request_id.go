package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key under which the request ID
// is stored.
const ContextKeyRequestID = "request_id"

// RequestIDMiddleware tags every request with an ID, honoring an inbound
// X-Request-ID header when the caller already supplies one. The ID is
// echoed back in the response headers and embedded in the envelope
// metadata for log correlation.
func RequestIDMiddleware() gin.HandlerFunc {
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
