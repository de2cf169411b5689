package controllers

import (
	"net/http"

	"github.com/confreview/backend/internal/middleware"
	"github.com/confreview/backend/internal/services"
	"github.com/confreview/backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type PaperController struct {
	events  *services.EventService
	papers  *services.PaperService
	reviews *services.ReviewService
	files   *storage.LocalStorage
}

func NewPaperController(events *services.EventService, papers *services.PaperService, reviews *services.ReviewService, files *storage.LocalStorage) *PaperController {
	return &PaperController{events: events, papers: papers, reviews: reviews, files: files}
}

// Upload is the event-agnostic submission route. Every paper belongs to an
// event, so eventId is a required form field here.
func (pc *PaperController) Upload(c *gin.Context) {
	eventID, err := optionalID(c.PostForm("eventId"))
	if err != nil || eventID == nil {
		badRequest(c, "Missing eventId")
		return
	}
	submitPaper(c, pc.events, pc.files, *eventID)
}

func (pc *PaperController) My(c *gin.Context) {
	papers, err := pc.papers.MyPapers(c.Request.Context(), middleware.CurrentUserID(c), nil)
	if err != nil {
		respondError(c, "paper_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "papers": papers})
}

// ByTrack lists papers in a track. Tracks containing a slash must be sent
// URL-encoded (AI%2FML).
func (pc *PaperController) ByTrack(c *gin.Context) {
	papers, err := pc.papers.ByTrack(c.Request.Context(), c.Param("track"))
	if err != nil {
		respondError(c, "paper_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "papers": papers})
}

func (pc *PaperController) Reviews(c *gin.Context) {
	paperID, ok := idParam(c, "paperId")
	if !ok {
		return
	}
	reviews, err := pc.reviews.ReviewsForPaper(c.Request.Context(), paperID)
	if err != nil {
		respondError(c, "paper_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "reviews": reviews})
}
