package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/whatnewads/safeshift-sub006/pkg/errors"
	"github.com/whatnewads/safeshift-sub006/pkg/response"
)

const CtxUserIDKey = "userID"

// Identity resolves the calling user from the X-User-ID header placed by the
// upstream authentication gateway and propagates it into the request context.
// Requests without an identity are rejected.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}
