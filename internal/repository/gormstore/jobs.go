package gormstore

import (
	"context"
	"time"

	"github.com/confreview/backend/internal/models"
	"gorm.io/gorm"
)

type jobRepository struct {
	db *gorm.DB
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return translate(r.db.WithContext(ctx).Create(job).Error)
}

func (r *jobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

func (r *jobRepository) ListByPaper(ctx context.Context, paperID uint) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).Where("paper_id = ?", paperID).Order("created_at DESC").Find(&jobs).Error
	if err != nil {
		return nil, translate(err)
	}
	return jobs, nil
}

func (r *jobRepository) MarkRunning(ctx context.Context, id uint, attempt int) error {
	now := time.Now()
	return r.updates(ctx, id, map[string]interface{}{
		"status":     models.JobStatusRunning,
		"attempts":   attempt,
		"started_at": &now,
	})
}

func (r *jobRepository) MarkCompleted(ctx context.Context, id uint) error {
	now := time.Now()
	return r.updates(ctx, id, map[string]interface{}{
		"status":       models.JobStatusCompleted,
		"error":        "",
		"completed_at": &now,
	})
}

func (r *jobRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	now := time.Now()
	return r.updates(ctx, id, map[string]interface{}{
		"status":       models.JobStatusFailed,
		"error":        reason,
		"completed_at": &now,
	})
}

func (r *jobRepository) updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	return translate(r.db.WithContext(ctx).Model(&models.Job{}).Where("id = ?", id).Updates(fields).Error)
}
