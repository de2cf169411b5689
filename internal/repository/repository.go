// Package repository declares one storage interface per entity. Services
// receive a *Store and never reach for a package-level database handle.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/confreview/backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	// Create returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns all users, newest first.
	List(ctx context.Context) ([]models.User, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	// List returns all events ordered by date ascending.
	List(ctx context.Context) ([]models.Event, error)
	// ListDeadlineFrom returns events whose review deadline is at or after t.
	ListDeadlineFrom(ctx context.Context, t time.Time) ([]models.Event, error)
	// Delete removes the event together with its papers, their assignments
	// and reviews.
	Delete(ctx context.Context, id uint) error
}

type PaperRepository interface {
	Create(ctx context.Context, paper *models.Paper) error
	// GetByID loads the paper with publisher and event populated.
	GetByID(ctx context.Context, id uint) (*models.Paper, error)
	GetInEvent(ctx context.Context, eventID, paperID uint) (*models.Paper, error)
	// CountInEvent counts how many of ids are papers of eventID.
	CountInEvent(ctx context.Context, eventID uint, ids []uint) (int64, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Paper, error)
	// ListByResult returns the event's papers in the given result status with
	// publisher populated.
	ListByResult(ctx context.Context, eventID uint, status models.ResultStatus) ([]models.Paper, error)
	// ListByPublisher returns an author's papers, newest first. A nil eventID
	// lists across all events.
	ListByPublisher(ctx context.Context, publisherID uint, eventID *uint) ([]models.Paper, error)
	ListByTrack(ctx context.Context, track string) ([]models.Paper, error)
	ListAll(ctx context.Context) ([]models.Paper, error)
	CountByResult(ctx context.Context, eventID uint) (map[models.ResultStatus]int64, error)
	CountByTrack(ctx context.Context, eventID uint) (map[string]int64, error)
	UpdateStatus(ctx context.Context, id uint, status models.PaperStatus) error
	UpdateInsights(ctx context.Context, id uint, insights []string, status models.PaperStatus) error
	UpdateAdminStatus(ctx context.Context, id uint, status models.AdminStatus) error
	UpdateResultStatus(ctx context.Context, id uint, status models.ResultStatus) error
}

type AssignmentRepository interface {
	// Create returns ErrDuplicate when the (event, paper, reviewer) triple exists.
	Create(ctx context.Context, assignment *models.Assignment) error
	Exists(ctx context.Context, eventID, paperID, reviewerID uint) (bool, error)
	// ListByEvent returns the event's assignments newest first, optionally
	// filtered by reviewer, with paper and reviewer populated.
	ListByEvent(ctx context.Context, eventID uint, reviewerID *uint) ([]models.Assignment, error)
	ListAll(ctx context.Context) ([]models.Assignment, error)
	CountByEvent(ctx context.Context, eventID uint) (int64, error)
	CountDistinctReviewers(ctx context.Context, eventID uint) (int64, error)
}

type ReviewRepository interface {
	// UpsertContent writes comments and insights for (paper, reviewer),
	// leaving any existing decision untouched.
	UpsertContent(ctx context.Context, paperID, reviewerID uint, comments string, insights []string) (*models.Review, error)
	// UpsertDecision writes the decision for (paper, reviewer), leaving
	// comments and insights untouched.
	UpsertDecision(ctx context.Context, paperID, reviewerID uint, decision models.ReviewDecision) error
	Get(ctx context.Context, paperID, reviewerID uint) (*models.Review, error)
	// ListByPaper returns a paper's reviews with reviewer populated.
	ListByPaper(ctx context.Context, paperID uint) ([]models.Review, error)
	ListByPapers(ctx context.Context, paperIDs []uint) ([]models.Review, error)
	// ListSelected returns reviews with decision selected for the given
	// papers, most recently updated first, with reviewer populated.
	ListSelected(ctx context.Context, paperIDs []uint) ([]models.Review, error)
	CountForEvent(ctx context.Context, eventID uint) (int64, error)
}

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	ListByPaper(ctx context.Context, paperID uint) ([]models.Job, error)
	MarkRunning(ctx context.Context, id uint, attempt int) error
	MarkCompleted(ctx context.Context, id uint) error
	MarkFailed(ctx context.Context, id uint, reason string) error
}

// Store bundles the repositories handed to services.
type Store struct {
	Users       UserRepository
	Events      EventRepository
	Papers      PaperRepository
	Assignments AssignmentRepository
	Reviews     ReviewRepository
	Jobs        JobRepository

	// TxFunc runs fn against a store bound to one transaction. Nil means the
	// backend has no transactions and fn runs against the store itself.
	TxFunc func(ctx context.Context, fn func(tx *Store) error) error
	// PingFunc reports backend health.
	PingFunc func(ctx context.Context) error
}

// Transaction runs fn atomically when the backend supports it.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	if s.TxFunc == nil {
		return fn(s)
	}
	return s.TxFunc(ctx, fn)
}

func (s *Store) Ping(ctx context.Context) error {
	if s.PingFunc == nil {
		return nil
	}
	return s.PingFunc(ctx)
}
