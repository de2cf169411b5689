package gormstore

import (
	"context"
	"time"

	"github.com/confreview/backend/internal/models"
	"gorm.io/gorm"
)

type eventRepository struct {
	db *gorm.DB
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return translate(r.db.WithContext(ctx).Create(event).Error)
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).Order("date ASC").Find(&events).Error; err != nil {
		return nil, translate(err)
	}
	return events, nil
}

func (r *eventRepository) ListDeadlineFrom(ctx context.Context, t time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("review_deadline IS NOT NULL AND review_deadline >= ?", t).
		Order("review_deadline ASC").
		Find(&events).Error
	if err != nil {
		return nil, translate(err)
	}
	return events, nil
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, id).Error; err != nil {
			return translate(err)
		}
		papers := tx.Model(&models.Paper{}).Select("id").Where("event_id = ?", id)
		if err := tx.Where("paper_id IN (?)", papers).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_id IN (?)", papers).Delete(&models.Job{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Paper{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
}
