package middleware

import (
	"net/http"
	"strings"

	"github.com/confreview/backend/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey    = "user_id"
	userRolesKey = "user_roles"
)

// Authenticate validates the bearer access token and stores the caller's id
// and roles on the context.
func Authenticate(tokens *services.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := tokens.ParseAccess(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userRolesKey, claims.Roles)
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller's id, or 0 outside an
// authenticated route.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func CurrentRoles(c *gin.Context) []string {
	if v, ok := c.Get(userRolesKey); ok {
		if rs, ok := v.([]string); ok {
			return rs
		}
	}
	return nil
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"ok":      false,
		"message": message,
	})
}
