package controllers

import (
	"net/http"

	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/middleware"
	"github.com/confreview/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	users  *services.UserService
	papers *services.PaperService
}

func NewAdminController(users *services.UserService, papers *services.PaperService) *AdminController {
	return &AdminController{users: users, papers: papers}
}

type AdminStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

func (ac *AdminController) Users(c *gin.Context) {
	users, err := ac.users.List(c.Request.Context())
	if err != nil {
		respondError(c, "admin_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": users})
}

func (ac *AdminController) Papers(c *gin.Context) {
	papers, err := ac.papers.AllPapers(c.Request.Context())
	if err != nil {
		respondError(c, "admin_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "papers": papers})
}

// SetStatus approves or rejects a paper at the coordinator gate.
func (ac *AdminController) SetStatus(c *gin.Context) {
	paperID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req AdminStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid status")
		return
	}

	paper, err := ac.papers.SetAdminStatus(c.Request.Context(), paperID, req.Status)
	if err != nil {
		respondError(c, "admin_controller", err)
		return
	}

	logger.WithUser(middleware.CurrentUserID(c)).WithField("paper_id", paperID).
		WithField("admin_status", req.Status).Info("Paper admin status changed")
	c.JSON(http.StatusOK, gin.H{"ok": true, "paper": paper})
}
