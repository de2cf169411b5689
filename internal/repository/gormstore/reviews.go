package gormstore

import (
	"context"

	"github.com/confreview/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepository struct {
	db *gorm.DB
}

var reviewKey = []clause.Column{{Name: "paper_id"}, {Name: "reviewer_id"}}

func (r *reviewRepository) UpsertContent(ctx context.Context, paperID, reviewerID uint, comments string, insights []string) (*models.Review, error) {
	if insights == nil {
		insights = []string{}
	}
	review := models.Review{
		PaperID:    paperID,
		ReviewerID: reviewerID,
		Comments:   comments,
		Insights:   datatypes.JSONSlice[string](insights),
		Decision:   models.DecisionPending,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   reviewKey,
		DoUpdates: clause.AssignmentColumns([]string{"comments", "insights", "updated_at"}),
	}).Create(&review).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.Get(ctx, paperID, reviewerID)
}

func (r *reviewRepository) UpsertDecision(ctx context.Context, paperID, reviewerID uint, decision models.ReviewDecision) error {
	review := models.Review{
		PaperID:    paperID,
		ReviewerID: reviewerID,
		Insights:   datatypes.JSONSlice[string]{},
		Decision:   decision,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   reviewKey,
		DoUpdates: clause.AssignmentColumns([]string{"decision", "updated_at"}),
	}).Create(&review).Error
	return translate(err)
}

func (r *reviewRepository) Get(ctx context.Context, paperID, reviewerID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("paper_id = ? AND reviewer_id = ?", paperID, reviewerID).
		First(&review).Error
	if err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepository) ListByPaper(ctx context.Context, paperID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Preload("Reviewer").
		Where("paper_id = ?", paperID).
		Order("updated_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err)
	}
	return reviews, nil
}

func (r *reviewRepository) ListByPapers(ctx context.Context, paperIDs []uint) ([]models.Review, error) {
	var reviews []models.Review
	if len(paperIDs) == 0 {
		return reviews, nil
	}
	err := r.db.WithContext(ctx).
		Select("id", "paper_id", "reviewer_id", "decision", "updated_at").
		Where("paper_id IN ?", paperIDs).
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err)
	}
	return reviews, nil
}

func (r *reviewRepository) ListSelected(ctx context.Context, paperIDs []uint) ([]models.Review, error) {
	var reviews []models.Review
	if len(paperIDs) == 0 {
		return reviews, nil
	}
	err := r.db.WithContext(ctx).Preload("Reviewer").
		Where("paper_id IN ? AND decision = ?", paperIDs, models.DecisionSelected).
		Order("updated_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err)
	}
	return reviews, nil
}

func (r *reviewRepository) CountForEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	papers := r.db.WithContext(ctx).Model(&models.Paper{}).Select("id").Where("event_id = ?", eventID)
	err := r.db.WithContext(ctx).Model(&models.Review{}).Where("paper_id IN (?)", papers).Count(&count).Error
	return count, translate(err)
}
