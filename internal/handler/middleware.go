package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth guards mutating endpoints behind a shared X-API-Key header.
// An empty configured key disables the check.
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		switch provided := strings.TrimSpace(c.GetHeader("X-API-Key")); {
		case provided == "":
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-API-Key header"})
		case provided != key:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid API key"})
		default:
			c.Next()
		}
	}
}
