package inmemdb

import (
	"context"
	"sort"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
)

type reviewRepository struct {
	db *DB
}

// upsert must be called with the write lock held.
func (repo *reviewRepository) upsert(paperID, reviewerID uint, apply func(*models.Review)) *models.Review {
	now := repo.db.now()
	for _, r := range repo.db.reviews {
		if r.PaperID == paperID && r.ReviewerID == reviewerID {
			apply(r)
			r.UpdatedAt = now
			return r
		}
	}
	r := &models.Review{
		ID:         repo.db.next("reviews"),
		PaperID:    paperID,
		ReviewerID: reviewerID,
		Insights:   []string{},
		Decision:   models.DecisionPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	apply(r)
	repo.db.reviews[r.ID] = r
	return r
}

func (repo *reviewRepository) UpsertContent(_ context.Context, paperID, reviewerID uint, comments string, insights []string) (*models.Review, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r := repo.upsert(paperID, reviewerID, func(r *models.Review) {
		r.Comments = comments
		r.Insights = append([]string{}, insights...)
	})
	c := repo.db.reviewCopy(r, false)
	return &c, nil
}

func (repo *reviewRepository) UpsertDecision(_ context.Context, paperID, reviewerID uint, decision models.ReviewDecision) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.upsert(paperID, reviewerID, func(r *models.Review) { r.Decision = decision })
	return nil
}

func (repo *reviewRepository) Get(_ context.Context, paperID, reviewerID uint) (*models.Review, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, r := range repo.db.reviews {
		if r.PaperID == paperID && r.ReviewerID == reviewerID {
			c := repo.db.reviewCopy(r, false)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (repo *reviewRepository) ListByPaper(_ context.Context, paperID uint) ([]models.Review, error) {
	return repo.list(true, func(r *models.Review) bool { return r.PaperID == paperID }), nil
}

func (repo *reviewRepository) ListByPapers(_ context.Context, paperIDs []uint) ([]models.Review, error) {
	set := idSet(paperIDs)
	return repo.list(false, func(r *models.Review) bool { return set[r.PaperID] }), nil
}

func (repo *reviewRepository) ListSelected(_ context.Context, paperIDs []uint) ([]models.Review, error) {
	set := idSet(paperIDs)
	return repo.list(true, func(r *models.Review) bool {
		return set[r.PaperID] && r.Decision == models.DecisionSelected
	}), nil
}

func (repo *reviewRepository) CountForEvent(_ context.Context, eventID uint) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int64
	for _, r := range repo.db.reviews {
		if p, ok := repo.db.papers[r.PaperID]; ok && p.EventID == eventID {
			count++
		}
	}
	return count, nil
}

// list returns matching reviews, most recently updated first.
func (repo *reviewRepository) list(withReviewer bool, keep func(*models.Review) bool) []models.Review {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := make([]models.Review, 0)
	for _, r := range repo.db.reviews {
		if keep(r) {
			out = append(out, repo.db.reviewCopy(r, withReviewer))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}
