package inmemdb

import (
	"context"
	"sort"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
)

type jobRepository struct {
	db *DB
}

func (repo *jobRepository) Create(_ context.Context, job *models.Job) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	now := repo.db.now()
	job.ID = repo.db.next("jobs")
	job.CreatedAt, job.UpdatedAt = now, now
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}
	stored := *job
	repo.db.jobs[job.ID] = &stored
	return nil
}

func (repo *jobRepository) GetByID(_ context.Context, id uint) (*models.Job, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if j, ok := repo.db.jobs[id]; ok {
		c := *j
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (repo *jobRepository) ListByPaper(_ context.Context, paperID uint) ([]models.Job, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	jobs := make([]models.Job, 0)
	for _, j := range repo.db.jobs {
		if j.PaperID == paperID {
			jobs = append(jobs, *j)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID > jobs[j].ID })
	return jobs, nil
}

func (repo *jobRepository) MarkRunning(_ context.Context, id uint, attempt int) error {
	return repo.update(id, func(j *models.Job) {
		now := repo.db.now()
		j.Status = models.JobStatusRunning
		j.Attempts = attempt
		j.StartedAt = &now
	})
}

func (repo *jobRepository) MarkCompleted(_ context.Context, id uint) error {
	return repo.update(id, func(j *models.Job) {
		now := repo.db.now()
		j.Status = models.JobStatusCompleted
		j.Error = ""
		j.CompletedAt = &now
	})
}

func (repo *jobRepository) MarkFailed(_ context.Context, id uint, reason string) error {
	return repo.update(id, func(j *models.Job) {
		now := repo.db.now()
		j.Status = models.JobStatusFailed
		j.Error = reason
		j.CompletedAt = &now
	})
}

func (repo *jobRepository) update(id uint, apply func(*models.Job)) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	j, ok := repo.db.jobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	apply(j)
	j.UpdatedAt = repo.db.now()
	return nil
}
