package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mini-rec/backend/internal/auth"
	"github.com/mini-rec/backend/pkg/response"
)

// ContextUserID is the key for the verified user ID in gin context.
const ContextUserID = "user_uid"

// Auth returns a middleware that resolves the bearer token through the
// verifier and sets the user ID in context. Anything short of a positive
// verification is a 401.
func Auth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		uid, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, uid)
		c.Next()
	}
}
