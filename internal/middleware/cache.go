package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// CacheControl marks responses as publicly cacheable for maxAgeSeconds.
// Applied to the uploaded-media static group, whose files are immutable
// (uuid filenames).
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	value := "public, max-age=" + strconv.Itoa(maxAgeSeconds)
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
