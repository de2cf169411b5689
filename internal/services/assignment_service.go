package services

import (
	"context"
	"errors"
	"time"

	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
)

type AssignmentService struct {
	store *repository.Store
	stats *StatsService
	now   func() time.Time
}

func NewAssignmentService(store *repository.Store, stats *StatsService) *AssignmentService {
	return &AssignmentService{store: store, stats: stats, now: time.Now}
}

type AssignResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// AssignReviewer links reviewerID to every paper in paperIDs. The papers are
// validated as a group, then each assignment is created on its own: an
// existing triple counts as skipped and never aborts the batch.
func (s *AssignmentService) AssignReviewer(ctx context.Context, eventID, reviewerID, assignedBy uint, paperIDs []uint) (AssignResult, error) {
	if reviewerID == 0 || len(paperIDs) == 0 {
		return AssignResult{}, validationError("Missing reviewerId/paperIds")
	}
	if _, err := s.store.Events.GetByID(ctx, eventID); err != nil {
		return AssignResult{}, notFoundOr(err, "Event not found")
	}
	if _, err := s.store.Users.GetByID(ctx, reviewerID); err != nil {
		return AssignResult{}, notFoundOr(err, "Reviewer not found")
	}

	count, err := s.store.Papers.CountInEvent(ctx, eventID, paperIDs)
	if err != nil {
		return AssignResult{}, err
	}
	if count != int64(len(paperIDs)) {
		return AssignResult{}, validationError("One or more papers do not belong to this event")
	}

	var result AssignResult
	for _, paperID := range paperIDs {
		assignment := &models.Assignment{
			EventID:    eventID,
			PaperID:    paperID,
			ReviewerID: reviewerID,
			AssignedBy: assignedBy,
			AssignedAt: s.now(),
		}
		if err := s.store.Assignments.Create(ctx, assignment); err != nil {
			result.Skipped++
			if !errors.Is(err, repository.ErrDuplicate) {
				logger.WithEvent(eventID, "assignment_service").WithError(err).WithField("paper_id", paperID).
					Warn("Failed to create assignment")
			}
			continue
		}
		result.Created++
	}

	logger.WithEvent(eventID, "assignment_service").WithFields(map[string]interface{}{
		"reviewer_id": reviewerID,
		"created":     result.Created,
		"skipped":     result.Skipped,
	}).Info("Reviewer assigned")
	return result, nil
}

// ListAssignments returns the event's assignments newest first, optionally
// only those of one reviewer.
func (s *AssignmentService) ListAssignments(ctx context.Context, eventID uint, reviewerID *uint) ([]models.Assignment, error) {
	return s.store.Assignments.ListByEvent(ctx, eventID, reviewerID)
}

func (s *AssignmentService) AllAssignments(ctx context.Context) ([]models.Assignment, error) {
	return s.store.Assignments.ListAll(ctx)
}

type AssignedItem struct {
	AssignmentID uint                 `json:"assignmentId"`
	PaperID      uint                 `json:"paperId"`
	Title        string               `json:"title"`
	Track        string               `json:"track"`
	FileURL      string               `json:"fileUrl"`
	Insights     []string             `json:"insights"`
	Publisher    *models.UserSummary  `json:"publisher,omitempty"`
	Event        *models.EventSummary `json:"event,omitempty"`
	AssignedAt   time.Time            `json:"assignedAt"`
	Reviewed     bool                 `json:"reviewed"`
}

type AssignedOverview struct {
	Items   []AssignedItem `json:"items"`
	Summary Progress       `json:"summary"`
}

// AssignedForReviewer lists the papers assigned to reviewerID in the event,
// each flagged with whether the reviewer has already written a review.
func (s *AssignmentService) AssignedForReviewer(ctx context.Context, eventID, reviewerID uint) (AssignedOverview, error) {
	assignments, err := s.store.Assignments.ListByEvent(ctx, eventID, &reviewerID)
	if err != nil {
		return AssignedOverview{}, err
	}

	paperIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		paperIDs = append(paperIDs, a.PaperID)
	}
	papers, err := s.store.Papers.GetByIDs(ctx, paperIDs)
	if err != nil {
		return AssignedOverview{}, err
	}
	reviewed, err := s.stats.reviewedBy(ctx, reviewerID, paperIDs)
	if err != nil {
		return AssignedOverview{}, err
	}

	items := make([]AssignedItem, 0, len(assignments))
	for _, a := range assignments {
		paper, ok := papers[a.PaperID]
		if !ok {
			continue
		}
		item := AssignedItem{
			AssignmentID: a.ID,
			PaperID:      paper.ID,
			Title:        paper.Title,
			Track:        paper.Track,
			FileURL:      paper.FileURL,
			Insights:     nonNil(paper.Insights),
			AssignedAt:   a.AssignedAt,
			Reviewed:     reviewed[paper.ID],
		}
		if paper.Publisher != nil {
			summary := paper.Publisher.Summary()
			summary.Roles = nil
			item.Publisher = &summary
		}
		if paper.Event != nil {
			summary := paper.Event.Summary()
			item.Event = &summary
		}
		items = append(items, item)
	}

	return AssignedOverview{
		Items:   items,
		Summary: computeProgress(paperIDs, reviewed),
	}, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
