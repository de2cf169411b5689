package services

import (
	"context"
	"strings"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
)

type PaperService struct {
	store *repository.Store
}

func NewPaperService(store *repository.Store) *PaperService {
	return &PaperService{store: store}
}

// MyPapers lists an author's papers newest first, optionally within one event.
func (s *PaperService) MyPapers(ctx context.Context, authorID uint, eventID *uint) ([]models.Paper, error) {
	return s.store.Papers.ListByPublisher(ctx, authorID, eventID)
}

func (s *PaperService) ByTrack(ctx context.Context, track string) ([]models.Paper, error) {
	track = strings.TrimSpace(track)
	if track == "" {
		return nil, validationError("Missing track")
	}
	return s.store.Papers.ListByTrack(ctx, track)
}

func (s *PaperService) AllPapers(ctx context.Context) ([]models.Paper, error) {
	return s.store.Papers.ListAll(ctx)
}

// SetAdminStatus moves the coordinator gate to approved or rejected. The
// review outcome is not affected.
func (s *PaperService) SetAdminStatus(ctx context.Context, paperID uint, status string) (*models.Paper, error) {
	if !models.ValidAdminStatus(status) {
		return nil, validationError("Invalid status")
	}
	if err := s.store.Papers.UpdateAdminStatus(ctx, paperID, models.AdminStatus(status)); err != nil {
		return nil, notFoundOr(err, "Paper not found")
	}
	paper, err := s.store.Papers.GetByID(ctx, paperID)
	if err != nil {
		return nil, notFoundOr(err, "Paper not found")
	}
	return paper, nil
}
