package gormstore

import (
	"context"

	"github.com/confreview/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type paperRepository struct {
	db *gorm.DB
}

func (r *paperRepository) Create(ctx context.Context, paper *models.Paper) error {
	return translate(r.db.WithContext(ctx).Create(paper).Error)
}

func (r *paperRepository) GetByID(ctx context.Context, id uint) (*models.Paper, error) {
	var paper models.Paper
	err := r.db.WithContext(ctx).Preload("Publisher").Preload("Event").First(&paper, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &paper, nil
}

func (r *paperRepository) GetInEvent(ctx context.Context, eventID, paperID uint) (*models.Paper, error) {
	var paper models.Paper
	err := r.db.WithContext(ctx).Where("id = ? AND event_id = ?", paperID, eventID).First(&paper).Error
	if err != nil {
		return nil, translate(err)
	}
	return &paper, nil
}

func (r *paperRepository) CountInEvent(ctx context.Context, eventID uint, ids []uint) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Paper{}).
		Where("id IN ? AND event_id = ?", ids, eventID).
		Count(&count).Error
	return count, translate(err)
}

func (r *paperRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Paper, error) {
	out := make(map[uint]models.Paper, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var papers []models.Paper
	err := r.db.WithContext(ctx).Preload("Publisher").Preload("Event").Where("id IN ?", ids).Find(&papers).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, p := range papers {
		out[p.ID] = p
	}
	return out, nil
}

func (r *paperRepository) ListByResult(ctx context.Context, eventID uint, status models.ResultStatus) ([]models.Paper, error) {
	var papers []models.Paper
	err := r.db.WithContext(ctx).Preload("Publisher").
		Where("event_id = ? AND result_status = ?", eventID, status).
		Order("id ASC").
		Find(&papers).Error
	if err != nil {
		return nil, translate(err)
	}
	return papers, nil
}

func (r *paperRepository) ListByPublisher(ctx context.Context, publisherID uint, eventID *uint) ([]models.Paper, error) {
	var papers []models.Paper
	query := r.db.WithContext(ctx).Preload("Event").Where("publisher_id = ?", publisherID)
	if eventID != nil {
		query = query.Where("event_id = ?", *eventID)
	}
	if err := query.Order("created_at DESC").Find(&papers).Error; err != nil {
		return nil, translate(err)
	}
	return papers, nil
}

func (r *paperRepository) ListByTrack(ctx context.Context, track string) ([]models.Paper, error) {
	var papers []models.Paper
	err := r.db.WithContext(ctx).Where("track = ?", track).Order("created_at DESC").Find(&papers).Error
	if err != nil {
		return nil, translate(err)
	}
	return papers, nil
}

func (r *paperRepository) ListAll(ctx context.Context) ([]models.Paper, error) {
	var papers []models.Paper
	if err := r.db.WithContext(ctx).Preload("Publisher").Order("created_at DESC").Find(&papers).Error; err != nil {
		return nil, translate(err)
	}
	return papers, nil
}

func (r *paperRepository) CountByResult(ctx context.Context, eventID uint) (map[models.ResultStatus]int64, error) {
	var rows []struct {
		ResultStatus models.ResultStatus
		Count        int64
	}
	err := r.db.WithContext(ctx).Model(&models.Paper{}).
		Select("result_status, COUNT(*) AS count").
		Where("event_id = ?", eventID).
		Group("result_status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	out := make(map[models.ResultStatus]int64, len(rows))
	for _, row := range rows {
		out[row.ResultStatus] += row.Count
	}
	return out, nil
}

func (r *paperRepository) CountByTrack(ctx context.Context, eventID uint) (map[string]int64, error) {
	var rows []struct {
		Track string
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.Paper{}).
		Select("track, COUNT(*) AS count").
		Where("event_id = ?", eventID).
		Group("track").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Track] = row.Count
	}
	return out, nil
}

func (r *paperRepository) UpdateStatus(ctx context.Context, id uint, status models.PaperStatus) error {
	return r.update(ctx, id, map[string]interface{}{"status": status})
}

func (r *paperRepository) UpdateInsights(ctx context.Context, id uint, insights []string, status models.PaperStatus) error {
	return r.update(ctx, id, map[string]interface{}{
		"insights": datatypes.JSONSlice[string](insights),
		"status":   status,
	})
}

func (r *paperRepository) UpdateAdminStatus(ctx context.Context, id uint, status models.AdminStatus) error {
	return r.update(ctx, id, map[string]interface{}{"admin_status": status})
}

func (r *paperRepository) UpdateResultStatus(ctx context.Context, id uint, status models.ResultStatus) error {
	return r.update(ctx, id, map[string]interface{}{"result_status": status})
}

func (r *paperRepository) update(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Paper{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateMissing(r.db.WithContext(ctx), id)
	}
	return nil
}

// translateMissing distinguishes "no such paper" from an update that
// changed nothing because the values were already set.
func translateMissing(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&models.Paper{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
