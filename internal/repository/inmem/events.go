package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
)

type eventRepository struct {
	db *DB
}

func (repo *eventRepository) Create(_ context.Context, event *models.Event) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	now := repo.db.now()
	event.ID = repo.db.next("events")
	event.CreatedAt, event.UpdatedAt = now, now
	stored := *event
	repo.db.events[event.ID] = &stored
	return nil
}

func (repo *eventRepository) GetByID(_ context.Context, id uint) (*models.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if e := repo.db.eventCopy(id); e != nil {
		return e, nil
	}
	return nil, repository.ErrNotFound
}

func (repo *eventRepository) List(_ context.Context) ([]models.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	events := make([]models.Event, 0, len(repo.db.events))
	for _, e := range repo.db.events {
		events = append(events, *e)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date.Equal(events[j].Date) {
			return events[i].ID < events[j].ID
		}
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

func (repo *eventRepository) ListDeadlineFrom(_ context.Context, t time.Time) ([]models.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	events := make([]models.Event, 0)
	for _, e := range repo.db.events {
		if e.ReviewDeadline != nil && !e.ReviewDeadline.Before(t) {
			events = append(events, *e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ReviewDeadline.Before(*events[j].ReviewDeadline) })
	return events, nil
}

func (repo *eventRepository) Delete(_ context.Context, id uint) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.events[id]; !ok {
		return repository.ErrNotFound
	}
	papers := make(map[uint]bool)
	for pid, p := range repo.db.papers {
		if p.EventID == id {
			papers[pid] = true
			delete(repo.db.papers, pid)
		}
	}
	for rid, r := range repo.db.reviews {
		if papers[r.PaperID] {
			delete(repo.db.reviews, rid)
		}
	}
	for jid, j := range repo.db.jobs {
		if papers[j.PaperID] {
			delete(repo.db.jobs, jid)
		}
	}
	for aid, a := range repo.db.assignments {
		if a.EventID == id {
			delete(repo.db.assignments, aid)
		}
	}
	delete(repo.db.events, id)
	return nil
}
