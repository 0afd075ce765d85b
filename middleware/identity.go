// middleware/identity.go
package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbianoutech/roomstay-backend/utils"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

// RequireIdentity reads the caller identity set by the upstream auth
// layer from the X-User-ID and X-User-Role headers. Requests without a
// valid identity are rejected.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.GetHeader(utils.HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			utils.HandleError(c, utils.NewUnauthorizedError("missing or invalid caller identity"))
			c.Abort()
			return
		}

		role := c.GetHeader(utils.HeaderUserRole)
		switch role {
		case utils.RoleGuest, utils.RoleHost, utils.RoleAdmin:
		default:
			utils.HandleError(c, utils.NewUnauthorizedError("missing or invalid caller role"))
			c.Abort()
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxUserRole, role)
		c.Next()
	}
}

// RequireRole allows only callers whose role is in the given set. Must
// run after RequireIdentity.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := UserRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		utils.HandleError(c, utils.NewForbiddenError("insufficient permissions"))
		c.Abort()
	}
}

// UserID returns the authenticated caller's user ID
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

// UserRole returns the authenticated caller's role
func UserRole(c *gin.Context) string {
	return c.GetString(ctxUserRole)
}
