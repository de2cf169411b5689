package controllers

import (
	"net/http"

	"github.com/confreview/backend/internal/middleware"
	"github.com/confreview/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Me returns the authenticated caller's profile.
func (uc *UserController) Me(c *gin.Context) {
	user, err := uc.users.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, "user_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}
