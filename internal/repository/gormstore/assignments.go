package gormstore

import (
	"context"

	"github.com/confreview/backend/internal/models"
	"gorm.io/gorm"
)

type assignmentRepository struct {
	db *gorm.DB
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return translate(r.db.WithContext(ctx).Create(assignment).Error)
}

func (r *assignmentRepository) Exists(ctx context.Context, eventID, paperID, reviewerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("event_id = ? AND paper_id = ? AND reviewer_id = ?", eventID, paperID, reviewerID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *assignmentRepository) ListByEvent(ctx context.Context, eventID uint, reviewerID *uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	query := r.db.WithContext(ctx).
		Preload("Paper").Preload("Paper.Publisher").Preload("Paper.Event").
		Preload("Reviewer").
		Where("event_id = ?", eventID)
	if reviewerID != nil {
		query = query.Where("reviewer_id = ?", *reviewerID)
	}
	if err := query.Order("created_at DESC, id DESC").Find(&assignments).Error; err != nil {
		return nil, translate(err)
	}
	return assignments, nil
}

func (r *assignmentRepository) ListAll(ctx context.Context) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Paper").Preload("Reviewer").
		Order("created_at DESC, id DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, translate(err)
	}
	return assignments, nil
}

func (r *assignmentRepository) CountByEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, translate(err)
}

func (r *assignmentRepository) CountDistinctReviewers(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("event_id = ?", eventID).
		Distinct("reviewer_id").
		Count(&count).Error
	return count, translate(err)
}
