package inmemdb

import (
	"context"
	"sort"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
)

type paperRepository struct {
	db *DB
}

func (repo *paperRepository) Create(_ context.Context, paper *models.Paper) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	now := repo.db.now()
	paper.ID = repo.db.next("papers")
	paper.CreatedAt, paper.UpdatedAt = now, now
	if paper.Status == "" {
		paper.Status = models.PaperStatusSubmitted
	}
	if paper.AdminStatus == "" {
		paper.AdminStatus = models.AdminStatusPending
	}
	if paper.ResultStatus == "" {
		paper.ResultStatus = models.ResultStatusSubmitted
	}
	stored := *paper
	stored.Publisher, stored.Event = nil, nil
	repo.db.papers[paper.ID] = &stored
	return nil
}

func (repo *paperRepository) GetByID(_ context.Context, id uint) (*models.Paper, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p := repo.db.paperCopy(id, true); p != nil {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (repo *paperRepository) GetInEvent(_ context.Context, eventID, paperID uint) (*models.Paper, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.papers[paperID]; ok && p.EventID == eventID {
		return repo.db.paperCopy(paperID, false), nil
	}
	return nil, repository.ErrNotFound
}

func (repo *paperRepository) CountInEvent(_ context.Context, eventID uint, ids []uint) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int64
	for id := range idSet(ids) {
		if p, ok := repo.db.papers[id]; ok && p.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (repo *paperRepository) GetByIDs(_ context.Context, ids []uint) (map[uint]models.Paper, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := make(map[uint]models.Paper, len(ids))
	for _, id := range ids {
		if p := repo.db.paperCopy(id, true); p != nil {
			out[id] = *p
		}
	}
	return out, nil
}

func (repo *paperRepository) ListByResult(_ context.Context, eventID uint, status models.ResultStatus) ([]models.Paper, error) {
	return repo.filter(true, func(p *models.Paper) bool {
		return p.EventID == eventID && p.ResultStatus == status
	}, false), nil
}

func (repo *paperRepository) ListByPublisher(_ context.Context, publisherID uint, eventID *uint) ([]models.Paper, error) {
	return repo.filter(true, func(p *models.Paper) bool {
		return p.PublisherID == publisherID && (eventID == nil || p.EventID == *eventID)
	}, true), nil
}

func (repo *paperRepository) ListByTrack(_ context.Context, track string) ([]models.Paper, error) {
	return repo.filter(false, func(p *models.Paper) bool { return p.Track == track }, true), nil
}

func (repo *paperRepository) ListAll(_ context.Context) ([]models.Paper, error) {
	return repo.filter(true, func(*models.Paper) bool { return true }, true), nil
}

func (repo *paperRepository) CountByResult(_ context.Context, eventID uint) (map[models.ResultStatus]int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := make(map[models.ResultStatus]int64)
	for _, p := range repo.db.papers {
		if p.EventID == eventID {
			out[p.ResultStatus]++
		}
	}
	return out, nil
}

func (repo *paperRepository) CountByTrack(_ context.Context, eventID uint) (map[string]int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := make(map[string]int64)
	for _, p := range repo.db.papers {
		if p.EventID == eventID {
			out[p.Track]++
		}
	}
	return out, nil
}

func (repo *paperRepository) UpdateStatus(_ context.Context, id uint, status models.PaperStatus) error {
	return repo.update(id, func(p *models.Paper) { p.Status = status })
}

func (repo *paperRepository) UpdateInsights(_ context.Context, id uint, insights []string, status models.PaperStatus) error {
	return repo.update(id, func(p *models.Paper) {
		p.Insights = append(p.Insights[:0:0], insights...)
		p.Status = status
	})
}

func (repo *paperRepository) UpdateAdminStatus(_ context.Context, id uint, status models.AdminStatus) error {
	return repo.update(id, func(p *models.Paper) { p.AdminStatus = status })
}

func (repo *paperRepository) UpdateResultStatus(_ context.Context, id uint, status models.ResultStatus) error {
	return repo.update(id, func(p *models.Paper) { p.ResultStatus = status })
}

func (repo *paperRepository) update(id uint, apply func(*models.Paper)) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, ok := repo.db.papers[id]
	if !ok {
		return repository.ErrNotFound
	}
	apply(p)
	p.UpdatedAt = repo.db.now()
	return nil
}

func (repo *paperRepository) filter(withRelations bool, keep func(*models.Paper) bool, newestFirst bool) []models.Paper {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	papers := make([]models.Paper, 0)
	for id, p := range repo.db.papers {
		if keep(p) {
			papers = append(papers, *repo.db.paperCopy(id, withRelations))
		}
	}
	if newestFirst {
		sortPapersNewestFirst(papers)
	} else {
		sortByID(papers)
	}
	return papers
}

func sortByID(papers []models.Paper) {
	sort.Slice(papers, func(i, j int) bool { return papers[i].ID < papers[j].ID })
}
