package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/confreview/backend/internal/config"
	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
)

// ErrQueueFull is returned when a job cannot be queued without blocking.
var ErrQueueFull = errors.New("job queue is full")

// InsightExtractor reads a stored paper and returns its insights.
type InsightExtractor interface {
	Extract(ctx context.Context, filePath string) ([]string, error)
}

// JobRequest represents a job request
type JobRequest struct {
	JobID    uint
	Type     string
	PaperID  uint
	FilePath string
}

// JobService runs background jobs on a fixed pool of workers fed by a
// buffered queue.
type JobService struct {
	store       *repository.Store
	extractor   InsightExtractor
	jobQueue    chan JobRequest
	workerCount int
	maxAttempts int
	retryDelay  time.Duration
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// NewJobService creates a job service and starts its workers.
func NewJobService(store *repository.Store, extractor InsightExtractor, cfg config.JobsConfig) *JobService {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	queueSize := cfg.QueueSize
	if queueSize < 1 {
		queueSize = 100
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	js := &JobService{
		store:       store,
		extractor:   extractor,
		jobQueue:    make(chan JobRequest, queueSize),
		workerCount: workers,
		maxAttempts: attempts,
		retryDelay:  2 * time.Second,
		stopChan:    make(chan struct{}),
	}

	for i := 0; i < js.workerCount; i++ {
		js.wg.Add(1)
		go js.worker(i)
	}
	return js
}

// worker processes jobs from the queue
func (js *JobService) worker(id int) {
	defer js.wg.Done()

	for {
		select {
		case <-js.stopChan:
			logger.Info("Worker stopping", map[string]interface{}{"workerID": id})
			return
		case jobReq := <-js.jobQueue:
			logger.Info("Worker processing job", map[string]interface{}{
				"workerID": id,
				"jobID":    jobReq.JobID,
				"type":     jobReq.Type,
			})

			switch jobReq.Type {
			case models.JobTypeInsightExtraction:
				js.ProcessInsightJob(jobReq)
			default:
				logger.Error("Unknown job type", map[string]interface{}{
					"jobID": jobReq.JobID,
					"type":  jobReq.Type,
				})
			}
		}
	}
}

// EnqueueInsight records an insight job for the paper and queues it. It never
// blocks: with a full queue the job is marked failed and ErrQueueFull is
// returned, leaving the paper untouched.
func (js *JobService) EnqueueInsight(ctx context.Context, paperID uint, filePath string) (*models.Job, error) {
	job := &models.Job{
		Type:    models.JobTypeInsightExtraction,
		PaperID: paperID,
		Status:  models.JobStatusPending,
	}
	if err := js.store.Jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	select {
	case js.jobQueue <- JobRequest{JobID: job.ID, Type: job.Type, PaperID: paperID, FilePath: filePath}:
		return job, nil
	default:
		if err := js.store.Jobs.MarkFailed(ctx, job.ID, ErrQueueFull.Error()); err != nil {
			logger.WithJob(job.ID, job.Type).WithError(err).Error("Failed to mark job failed")
		}
		logger.WithJob(job.ID, job.Type).WithField("paper_id", paperID).Warn("Job queue full, insight job dropped")
		return job, ErrQueueFull
	}
}

// ProcessInsightJob marks the paper processing, extracts insights with
// retries and stores them. When every attempt fails the paper goes back to
// the status it had before the job started.
func (js *JobService) ProcessInsightJob(req JobRequest) {
	ctx := WithCallInfo(context.Background(), req.PaperID, req.JobID)
	log := logger.WithJob(req.JobID, req.Type).WithField("paper_id", req.PaperID)

	paper, err := js.store.Papers.GetByID(ctx, req.PaperID)
	if err != nil {
		log.WithError(err).Error("Failed to load paper for insight job")
		js.markFailed(ctx, req.JobID, fmt.Sprintf("paper not found: %v", err))
		return
	}
	prior := paper.Status
	if prior == models.PaperStatusProcessing || prior == "" {
		prior = models.PaperStatusSubmitted
	}

	if err := js.store.Papers.UpdateStatus(ctx, req.PaperID, models.PaperStatusProcessing); err != nil {
		log.WithError(err).Error("Failed to mark paper processing")
		js.markFailed(ctx, req.JobID, err.Error())
		return
	}

	var lastErr error
	for attempt := 1; attempt <= js.maxAttempts; attempt++ {
		if err := js.store.Jobs.MarkRunning(ctx, req.JobID, attempt); err != nil {
			log.WithError(err).Warn("Failed to update job status to running")
		}

		insights, err := js.extractor.Extract(ctx, req.FilePath)
		if err == nil {
			if err := js.store.Papers.UpdateInsights(ctx, req.PaperID, insights, models.PaperStatusReviewed); err != nil {
				lastErr = err
				break
			}
			if err := js.store.Jobs.MarkCompleted(ctx, req.JobID); err != nil {
				log.WithError(err).Warn("Failed to mark job completed")
			}
			log.WithField("insights", len(insights)).Info("AI insights generated successfully")
			return
		}

		lastErr = err
		log.WithError(err).WithField("attempt", attempt).Warn("Insight extraction attempt failed")
		if attempt < js.maxAttempts && !js.sleep(js.retryDelay) {
			break
		}
	}

	log.WithError(lastErr).Error("AI insight generation failed")
	if err := js.store.Papers.UpdateStatus(ctx, req.PaperID, prior); err != nil {
		log.WithError(err).Error("Failed to roll back paper status")
	}
	js.markFailed(ctx, req.JobID, lastErr.Error())
}

func (js *JobService) markFailed(ctx context.Context, jobID uint, reason string) {
	if err := js.store.Jobs.MarkFailed(ctx, jobID, reason); err != nil {
		logger.WithJob(jobID, models.JobTypeInsightExtraction).WithError(err).Error("Failed to mark job failed")
	}
}

// sleep waits d and reports false when the service is stopping.
func (js *JobService) sleep(d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-js.stopChan:
		return false
	}
}

func (js *JobService) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	job, err := js.store.Jobs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	return job, nil
}

func (js *JobService) JobsForPaper(ctx context.Context, paperID uint) ([]models.Job, error) {
	return js.store.Jobs.ListByPaper(ctx, paperID)
}

// Stop signals the workers and waits for in-flight jobs to finish. Queued
// jobs that have not started stay pending.
func (js *JobService) Stop() {
	js.stopOnce.Do(func() { close(js.stopChan) })
	js.wg.Wait()
}
