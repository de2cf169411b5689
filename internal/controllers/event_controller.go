package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/middleware"
	"github.com/confreview/backend/internal/services"
	"github.com/confreview/backend/internal/storage"
	"github.com/gin-gonic/gin"
)

// EventController serves everything scoped under /events/:eventId.
type EventController struct {
	events      *services.EventService
	papers      *services.PaperService
	assignments *services.AssignmentService
	reviews     *services.ReviewService
	stats       *services.StatsService
	files       *storage.LocalStorage
	now         func() time.Time
}

func NewEventController(
	events *services.EventService,
	papers *services.PaperService,
	assignments *services.AssignmentService,
	reviews *services.ReviewService,
	stats *services.StatsService,
	files *storage.LocalStorage,
) *EventController {
	return &EventController{
		events:      events,
		papers:      papers,
		assignments: assignments,
		reviews:     reviews,
		stats:       stats,
		files:       files,
		now:         time.Now,
	}
}

type AssignRequest struct {
	ReviewerID uint   `json:"reviewerId" binding:"required"`
	PaperIDs   []uint `json:"paperIds" binding:"required,min=1"`
}

type ReviewRequest struct {
	Comments string   `json:"comments" binding:"required"`
	Insights []string `json:"insights"`
}

type DecisionRequest struct {
	ResultStatus string `json:"resultStatus" binding:"required,oneof=selected rejected"`
}

// Create handles multipart event creation with an optional banner image.
func (ec *EventController) Create(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	rawDate := c.PostForm("date")
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" || strings.TrimSpace(rawDate) == "" {
		badRequest(c, "Missing title/description/date")
		return
	}

	date, err := parseDate(rawDate)
	if err != nil {
		badRequest(c, "Invalid date")
		return
	}

	var deadline *time.Time
	if raw := c.PostForm("reviewDeadline"); strings.TrimSpace(raw) != "" {
		d, err := parseDate(raw)
		if err != nil {
			badRequest(c, "Invalid reviewDeadline")
			return
		}
		deadline = &d
	}

	var bannerURL string
	if fh, err := c.FormFile("banner"); err == nil {
		bannerURL, err = ec.files.SaveBanner(fh)
		if err != nil {
			respondError(c, "event_controller", err)
			return
		}
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		badRequest(c, "Invalid banner upload")
		return
	}

	event, err := ec.events.CreateEvent(c.Request.Context(), services.CreateEventInput{
		Title:          title,
		Description:    description,
		Date:           date,
		ReviewDeadline: deadline,
		BannerURL:      bannerURL,
		CreatedBy:      middleware.CurrentUserID(c),
	})
	if err != nil {
		if bannerURL != "" {
			_ = ec.files.Remove(bannerURL)
		}
		respondError(c, "event_controller", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "event": event})
}

func (ec *EventController) List(c *gin.Context) {
	events, err := ec.events.ListEvents(c.Request.Context())
	if err != nil {
		respondError(c, "event_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "events": events})
}

func (ec *EventController) Delete(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	if err := ec.events.DeleteEvent(c.Request.Context(), eventID); err != nil {
		respondError(c, "event_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Submit stores the uploaded paper under the event. Insight extraction runs
// in the background after the response.
func (ec *EventController) Submit(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	submitPaper(c, ec.events, ec.files, eventID)
}

func (ec *EventController) MyPapers(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	papers, err := ec.papers.MyPapers(c.Request.Context(), middleware.CurrentUserID(c), &eventID)
	if err != nil {
		respondError(c, "event_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "papers": papers})
}

func (ec *EventController) Assign(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Missing reviewerId/paperIds")
		return
	}

	result, err := ec.assignments.AssignReviewer(c.Request.Context(), eventID, req.ReviewerID, middleware.CurrentUserID(c), req.PaperIDs)
	if err != nil {
		respondError(c, "event_controller", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "created": result.Created, "skipped": result.Skipped})
}

func (ec *EventController) Assignments(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	reviewerID, err := optionalID(c.Query("reviewerId"))
	if err != nil {
		badRequest(c, "Invalid reviewerId")
		return
	}

	assignments, err := ec.assignments.ListAssignments(c.Request.Context(), eventID, reviewerID)
	if err != nil {
		respondError(c, "event_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "assignments": assignments})
}

// Assigned lists the caller's assigned papers with review progress.
func (ec *EventController) Assigned(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	overview, err := ec.assignments.AssignedForReviewer(c.Request.Context(), eventID, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, "event_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "summary": overview.Summary, "items": overview.Items})
}

func (ec *EventController) SubmitReview(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	paperID, ok := idParam(c, "paperId")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Comments are required")
		return
	}

	review, err := ec.reviews.SubmitReview(c.Request.Context(), eventID, paperID, middleware.CurrentUserID(c), req.Comments, req.Insights)
	if err != nil {
		respondError(c, "event_controller", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "review": review})
}

func (ec *EventController) Decide(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	paperID, ok := idParam(c, "paperId")
	if !ok {
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid resultStatus")
		return
	}

	paper, err := ec.reviews.Decide(c.Request.Context(), eventID, paperID,
		middleware.CurrentUserID(c), middleware.CurrentRoles(c), req.ResultStatus)
	if err != nil {
		respondError(c, "event_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "paper": paper})
}

func (ec *EventController) Accepted(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	rows, err := ec.stats.AcceptedReportRows(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, "event_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(rows), "rows": rows})
}

func (ec *EventController) AcceptedWorkbook(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	rows, err := ec.stats.AcceptedReportRows(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, "event_controller", err)
		return
	}
	data, err := services.EncodeAcceptedWorkbook(rows)
	if err != nil {
		respondError(c, "event_controller", err)
		return
	}
	xlsx(c, fmt.Sprintf("accepted-%d.xlsx", eventID), data)
}

func (ec *EventController) PendingReviewers(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	report, err := ec.stats.PendingReviewersReport(c.Request.Context(), eventID, ec.now())
	if err != nil {
		respondError(c, "event_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "event": report.Event, "summary": report.Summary, "items": report.Items})
}

func (ec *EventController) Stats(c *gin.Context) {
	eventID, ok := idParam(c, "eventId")
	if !ok {
		return
	}
	stats, err := ec.stats.EventStats(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, "event_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": stats})
}

// submitPaper is shared by the event-scoped submit and the legacy upload
// route. The stored file is removed again when the paper cannot be created.
func submitPaper(c *gin.Context, events *services.EventService, files *storage.LocalStorage, eventID uint) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "No file")
		return
	}
	title := c.PostForm("title")
	track := c.PostForm("track")
	if strings.TrimSpace(title) == "" || strings.TrimSpace(track) == "" {
		badRequest(c, "Missing title/track")
		return
	}

	path, err := files.SavePaper(fh)
	if err != nil {
		respondError(c, "paper_upload", err)
		return
	}

	paper, err := events.SubmitPaper(c.Request.Context(), services.SubmitPaperInput{
		EventID:  eventID,
		AuthorID: middleware.CurrentUserID(c),
		Title:    title,
		Track:    track,
		FileURL:  path,
	})
	if err != nil {
		_ = files.Remove(path)
		respondError(c, "paper_upload", err)
		return
	}

	logger.WithEvent(eventID, "paper_upload").WithFields(map[string]interface{}{
		"paper_id":  paper.ID,
		"author_id": paper.PublisherID,
	}).Info("Paper submitted")
	c.JSON(http.StatusCreated, gin.H{"ok": true, "paper": paper})
}
