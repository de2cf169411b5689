package services

import (
	"context"
	"strings"
	"time"

	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
)

// InsightQueue accepts background insight jobs for newly stored papers.
type InsightQueue interface {
	EnqueueInsight(ctx context.Context, paperID uint, filePath string) (*models.Job, error)
}

type EventService struct {
	store    *repository.Store
	insights InsightQueue
}

func NewEventService(store *repository.Store, insights InsightQueue) *EventService {
	return &EventService{store: store, insights: insights}
}

type CreateEventInput struct {
	Title          string
	Description    string
	Date           time.Time
	ReviewDeadline *time.Time
	BannerURL      string
	CreatedBy      uint
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" || in.Date.IsZero() {
		return nil, validationError("Missing title/description/date")
	}

	event := &models.Event{
		Title:          title,
		Description:    description,
		Date:           in.Date,
		ReviewDeadline: in.ReviewDeadline,
		BannerURL:      in.BannerURL,
		CreatedBy:      in.CreatedBy,
	}
	if err := s.store.Events.Create(ctx, event); err != nil {
		return nil, err
	}
	logger.WithEvent(event.ID, "event_service").WithField("created_by", in.CreatedBy).Info("Event created")
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.store.Events.List(ctx)
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.store.Events.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Event not found")
	}
	return event, nil
}

// DeleteEvent removes the event with its papers, assignments and reviews.
func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	if err := s.store.Events.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Event not found")
	}
	logger.WithEvent(id, "event_service").Info("Event deleted")
	return nil
}

type SubmitPaperInput struct {
	EventID  uint
	AuthorID uint
	Title    string
	Track    string
	FileURL  string
}

// SubmitPaper records a paper under an event and queues insight extraction.
// The queue outcome never fails the submission.
func (s *EventService) SubmitPaper(ctx context.Context, in SubmitPaperInput) (*models.Paper, error) {
	title := strings.TrimSpace(in.Title)
	track := strings.TrimSpace(in.Track)
	if title == "" || track == "" {
		return nil, validationError("Missing title/track")
	}
	if in.FileURL == "" {
		return nil, validationError("No file")
	}
	if _, err := s.store.Events.GetByID(ctx, in.EventID); err != nil {
		return nil, notFoundOr(err, "Event not found")
	}

	paper := &models.Paper{
		Title:        title,
		Track:        track,
		FileURL:      in.FileURL,
		PublisherID:  in.AuthorID,
		EventID:      in.EventID,
		Insights:     []string{},
		Status:       models.PaperStatusSubmitted,
		AdminStatus:  models.AdminStatusPending,
		ResultStatus: models.ResultStatusSubmitted,
	}
	if err := s.store.Papers.Create(ctx, paper); err != nil {
		return nil, err
	}

	if s.insights != nil {
		if _, err := s.insights.EnqueueInsight(ctx, paper.ID, paper.FileURL); err != nil {
			logger.WithEvent(in.EventID, "event_service").WithError(err).WithField("paper_id", paper.ID).
				Warn("Failed to enqueue insight job")
		}
	}
	return paper, nil
}
