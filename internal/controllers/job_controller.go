package controllers

import (
	"net/http"

	"github.com/confreview/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type JobController struct {
	jobs *services.JobService
}

func NewJobController(jobs *services.JobService) *JobController {
	return &JobController{jobs: jobs}
}

func (jc *JobController) Get(c *gin.Context) {
	jobID, ok := idParam(c, "jobId")
	if !ok {
		return
	}
	job, err := jc.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, "job_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "job": job})
}

// ListForPaper lists the background jobs recorded for ?paperId=.
func (jc *JobController) ListForPaper(c *gin.Context) {
	paperID, err := optionalID(c.Query("paperId"))
	if err != nil || paperID == nil {
		badRequest(c, "Missing paperId")
		return
	}
	jobs, err := jc.jobs.JobsForPaper(c.Request.Context(), *paperID)
	if err != nil {
		respondError(c, "job_controller", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "jobs": jobs})
}
