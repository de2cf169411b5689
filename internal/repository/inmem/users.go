package inmemdb

import (
	"context"
	"sort"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
)

type userRepository struct {
	db *DB
}

func (repo *userRepository) Create(_ context.Context, user *models.User) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, u := range repo.db.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	now := repo.db.now()
	user.ID = repo.db.next("users")
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	repo.db.users[user.ID] = &stored
	return nil
}

func (repo *userRepository) GetByID(_ context.Context, id uint) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if u := repo.db.userCopy(id); u != nil {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (repo *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for id, u := range repo.db.users {
		if u.Email == email {
			return repo.db.userCopy(id), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (repo *userRepository) List(_ context.Context) ([]models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := make([]models.User, 0, len(repo.db.users))
	for id := range repo.db.users {
		users = append(users, *repo.db.userCopy(id))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}
