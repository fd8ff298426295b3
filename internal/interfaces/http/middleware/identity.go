package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/interfaces/http/dto"
)

// Context keys set by the identity middleware
const (
	UserIDKey   = "identity_user_id"
	UserRoleKey = "identity_user_role"
)

// Identity extracts the caller from the X-User-Id and X-User-Role
// headers. Authentication happens upstream at the gateway; this service
// trusts the headers it is handed. Requests without them proceed
// anonymously and are stopped later by RequireUser or a permission
// check.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("X-User-Id"); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				c.Set(UserIDKey, id)
			}
		}
		if role := c.GetHeader("X-User-Role"); role != "" {
			c.Set(UserRoleKey, role)
		}
		c.Next()
	}
}

// GetUserID returns the caller's user ID, if present
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserRole returns the caller's role code, if present
func GetUserRole(c *gin.Context) string {
	return c.GetString(UserRoleKey)
}

// RequireUser rejects requests that carry no usable identity
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Missing or invalid X-User-Id header"))
			return
		}
		c.Next()
	}
}
