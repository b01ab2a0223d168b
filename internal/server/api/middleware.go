package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"keepsafe/internal/common"
	"keepsafe/internal/server/auth"
)

// userIDKey is the context key the auth middleware stores the caller id under.
const userIDKey = "userID"

// Auth verifies the bearer token and stores the user id in the gin context.
// Requests without a valid token are rejected with 401.
func Auth(secretKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		token := strings.TrimPrefix(header, common.BearerPrefix)
		userID, err := auth.GetUserIDFromToken(token, secretKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
