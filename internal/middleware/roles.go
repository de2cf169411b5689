package middleware

import (
	"net/http"

	"github.com/confreview/backend/internal/roles"
	"github.com/gin-gonic/gin"
)

// RequireRoles admits callers holding any of required, legacy aliases
// included. It must run after Authenticate.
func RequireRoles(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == 0 {
			abort(c, http.StatusUnauthorized, "Unauthenticated")
			return
		}
		if !roles.Allowed(CurrentRoles(c), required...) {
			abort(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Next()
	}
}
