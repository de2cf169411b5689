package services

import (
	"context"
	"strings"

	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
	"github.com/confreview/backend/internal/roles"
)

type ReviewService struct {
	store *repository.Store
}

func NewReviewService(store *repository.Store) *ReviewService {
	return &ReviewService{store: store}
}

// SubmitReview writes the reviewer's comments and insights for a paper they
// are assigned to. Repeated submissions replace the content of the single
// review row and leave its decision alone.
func (s *ReviewService) SubmitReview(ctx context.Context, eventID, paperID, reviewerID uint, comments string, insights []string) (*models.Review, error) {
	comments = strings.TrimSpace(comments)
	if comments == "" {
		return nil, validationError("Comments are required")
	}
	if _, err := s.store.Papers.GetInEvent(ctx, eventID, paperID); err != nil {
		return nil, notFoundOr(err, "Paper not found in this event")
	}
	if err := s.requireAssignment(ctx, eventID, paperID, reviewerID); err != nil {
		return nil, err
	}
	if insights == nil {
		insights = []string{}
	}

	review, err := s.store.Reviews.UpsertContent(ctx, paperID, reviewerID, comments, insights)
	if err != nil {
		return nil, err
	}
	logger.WithEvent(eventID, "review_service").WithFields(map[string]interface{}{
		"paper_id":    paperID,
		"reviewer_id": reviewerID,
	}).Info("Review submitted")
	return review, nil
}

// Decide sets the paper's result. A coordinator may decide any paper of the
// event and never touches reviews; anyone else must be assigned, and their
// decision is also recorded on their review row.
func (s *ReviewService) Decide(ctx context.Context, eventID, paperID, actorID uint, actorRoles []string, resultStatus string) (*models.Paper, error) {
	if !models.ValidDecision(resultStatus) {
		return nil, validationError("Invalid resultStatus")
	}
	if _, err := s.store.Papers.GetInEvent(ctx, eventID, paperID); err != nil {
		return nil, notFoundOr(err, "Paper not found in this event")
	}

	coordinator := roles.Has(actorRoles, roles.Coordinator)
	if !coordinator {
		if err := s.requireAssignment(ctx, eventID, paperID, actorID); err != nil {
			return nil, err
		}
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Papers.UpdateResultStatus(ctx, paperID, models.ResultStatus(resultStatus)); err != nil {
			return err
		}
		if coordinator {
			return nil
		}
		return tx.Reviews.UpsertDecision(ctx, paperID, actorID, models.ReviewDecision(resultStatus))
	})
	if err != nil {
		return nil, err
	}

	logger.WithEvent(eventID, "review_service").WithFields(map[string]interface{}{
		"paper_id":    paperID,
		"actor_id":    actorID,
		"decision":    resultStatus,
		"coordinator": coordinator,
	}).Info("Paper decided")

	paper, err := s.store.Papers.GetByID(ctx, paperID)
	if err != nil {
		return nil, notFoundOr(err, "Paper not found in this event")
	}
	return paper, nil
}

// ReviewsForPaper lists every review of a paper with its reviewer.
func (s *ReviewService) ReviewsForPaper(ctx context.Context, paperID uint) ([]models.Review, error) {
	if _, err := s.store.Papers.GetByID(ctx, paperID); err != nil {
		return nil, notFoundOr(err, "Paper not found")
	}
	return s.store.Reviews.ListByPaper(ctx, paperID)
}

func (s *ReviewService) requireAssignment(ctx context.Context, eventID, paperID, reviewerID uint) error {
	assigned, err := s.store.Assignments.Exists(ctx, eventID, paperID, reviewerID)
	if err != nil {
		return err
	}
	if !assigned {
		return forbiddenError("Not assigned to this paper")
	}
	return nil
}
