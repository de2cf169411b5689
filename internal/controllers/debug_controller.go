package controllers

import (
	"net/http"
	"time"

	"github.com/confreview/backend/internal/middleware"
	"github.com/confreview/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// DebugController exposes manual triggers for the scheduled mail jobs and a
// view of recent model calls. It is only mounted when DEBUG_ROUTES is on.
type DebugController struct {
	events      *services.EventService
	assignments *services.AssignmentService
	stats       *services.StatsService
	reminders   *services.ReminderService
	llm         *services.LLMService
}

func NewDebugController(
	events *services.EventService,
	assignments *services.AssignmentService,
	stats *services.StatsService,
	reminders *services.ReminderService,
	llm *services.LLMService,
) *DebugController {
	return &DebugController{events: events, assignments: assignments, stats: stats, reminders: reminders, llm: llm}
}

func (dc *DebugController) Assignments(c *gin.Context) {
	assignments, err := dc.assignments.AllAssignments(c.Request.Context())
	if err != nil {
		respondError(c, "debug_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(assignments), "assignments": assignments})
}

func (dc *DebugController) SendReminders(c *gin.Context) {
	summary, err := dc.reminders.SendReviewerReminders(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, "debug_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Reviewer reminder mails triggered successfully", "summary": summary})
}

func (dc *DebugController) SendReport(c *gin.Context) {
	summary, err := dc.reminders.SendAcceptedReports(c.Request.Context())
	if err != nil {
		respondError(c, "debug_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Accepted report mail sent successfully", "summary": summary})
}

// AcceptedWorkbook returns the same workbook the daily report attaches.
func (dc *DebugController) AcceptedWorkbook(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	event, err := dc.events.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, "debug_controller", err)
		return
	}
	rows, err := dc.stats.AcceptedReportRows(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, "debug_controller", err)
		return
	}
	data, err := services.EncodeAcceptedWorkbook(rows)
	if err != nil {
		respondError(c, "debug_controller", err)
		return
	}
	xlsx(c, services.AcceptedFilename(event.Title), data)
}

func (dc *DebugController) WhoAmI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"user": gin.H{
			"userId": middleware.CurrentUserID(c),
			"roles":  middleware.CurrentRoles(c),
		},
	})
}

func (dc *DebugController) LLMCalls(c *gin.Context) {
	calls := dc.llm.GetAPICalls()
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(calls), "calls": calls})
}

func (dc *DebugController) ClearLLMCalls(c *gin.Context) {
	dc.llm.ClearAPICalls()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// LLMHealth reports whether the model server answers and which models it has.
func (dc *DebugController) LLMHealth(c *gin.Context) {
	ctx := c.Request.Context()
	if err := dc.llm.CheckLLMHealth(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "message": err.Error(), "model": dc.llm.Model()})
		return
	}
	models, err := dc.llm.GetAvailableModels(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "message": err.Error(), "model": dc.llm.Model()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "model": dc.llm.Model(), "available": models})
}
