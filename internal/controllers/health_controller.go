package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/confreview/backend/internal/repository"
	"github.com/gin-gonic/gin"
)

const serviceName = "confreview-backend"

type HealthController struct {
	store   *repository.Store
	started time.Time
}

func NewHealthController(store *repository.Store) *HealthController {
	return &HealthController{store: store, started: time.Now()}
}

// Health pings the store. An unreachable store answers 503 with status error.
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	uptime := time.Since(hc.started).Seconds()
	if err := hc.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ok":       false,
			"status":   "error",
			"service":  serviceName,
			"database": "unreachable",
			"uptime":   uptime,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"status":   "ok",
		"service":  serviceName,
		"database": "connected",
		"uptime":   uptime,
	})
}
