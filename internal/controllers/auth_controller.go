package controllers

import (
	"net/http"

	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// RegisterRequest accepts either a roles list or the legacy single role.
type RegisterRequest struct {
	Name          string   `json:"name" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,min=6"`
	Roles         []string `json:"roles"`
	Role          string   `json:"role"`
	ContactNumber string   `json:"contactNumber"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingMessage(err, "Missing name/email/password", map[string]string{
			"Email.email":  "Invalid email",
			"Password.min": "Password must be at least 6 characters",
		}))
		return
	}

	user, err := ac.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Role:          req.Role,
		Roles:         req.Roles,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		respondError(c, "auth_controller", err)
		return
	}

	logger.WithUser(user.ID).WithField("roles", []string(user.Roles)).Info("User registered")
	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": user})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingMessage(err, "Missing email/password", map[string]string{
			"Email.email": "Invalid email",
		}))
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "auth_controller", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":               true,
		"accessToken":      result.Tokens.AccessToken,
		"refreshToken":     result.Tokens.RefreshToken,
		"accessExpiresAt":  result.Tokens.AccessExpiresAt,
		"refreshExpiresAt": result.Tokens.RefreshExpiresAt,
		"user":             result.User,
	})
}

func (ac *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refreshToken required")
		return
	}

	result, err := ac.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, "auth_controller", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":               true,
		"accessToken":      result.Tokens.AccessToken,
		"refreshToken":     result.Tokens.RefreshToken,
		"accessExpiresAt":  result.Tokens.AccessExpiresAt,
		"refreshExpiresAt": result.Tokens.RefreshExpiresAt,
	})
}
