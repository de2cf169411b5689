package inmemdb

import (
	"context"
	"sort"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
)

type assignmentRepository struct {
	db *DB
}

func (repo *assignmentRepository) Create(_ context.Context, assignment *models.Assignment) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, a := range repo.db.assignments {
		if a.EventID == assignment.EventID && a.PaperID == assignment.PaperID && a.ReviewerID == assignment.ReviewerID {
			return repository.ErrDuplicate
		}
	}
	now := repo.db.now()
	assignment.ID = repo.db.next("assignments")
	assignment.CreatedAt = now
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = now
	}
	stored := *assignment
	stored.Paper, stored.Reviewer = nil, nil
	repo.db.assignments[assignment.ID] = &stored
	return nil
}

func (repo *assignmentRepository) Exists(_ context.Context, eventID, paperID, reviewerID uint) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, a := range repo.db.assignments {
		if a.EventID == eventID && a.PaperID == paperID && a.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *assignmentRepository) ListByEvent(_ context.Context, eventID uint, reviewerID *uint) ([]models.Assignment, error) {
	return repo.list(func(a *models.Assignment) bool {
		return a.EventID == eventID && (reviewerID == nil || a.ReviewerID == *reviewerID)
	}), nil
}

func (repo *assignmentRepository) ListAll(_ context.Context) ([]models.Assignment, error) {
	return repo.list(func(*models.Assignment) bool { return true }), nil
}

func (repo *assignmentRepository) CountByEvent(_ context.Context, eventID uint) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int64
	for _, a := range repo.db.assignments {
		if a.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (repo *assignmentRepository) CountDistinctReviewers(_ context.Context, eventID uint) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reviewers := make(map[uint]bool)
	for _, a := range repo.db.assignments {
		if a.EventID == eventID {
			reviewers[a.ReviewerID] = true
		}
	}
	return int64(len(reviewers)), nil
}

func (repo *assignmentRepository) list(keep func(*models.Assignment) bool) []models.Assignment {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := make([]models.Assignment, 0)
	for _, a := range repo.db.assignments {
		if !keep(a) {
			continue
		}
		c := *a
		c.Paper = repo.db.paperCopy(a.PaperID, true)
		c.Reviewer = repo.db.userCopy(a.ReviewerID)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
