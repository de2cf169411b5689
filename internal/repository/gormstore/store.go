// Package gormstore implements the repositories on top of gorm and Postgres.
package gormstore

import (
	"context"
	"errors"

	"github.com/confreview/backend/internal/repository"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

// NewStore wires every repository to db.
func NewStore(db *gorm.DB) *repository.Store {
	s := &repository.Store{
		Users:       &userRepository{db: db},
		Events:      &eventRepository{db: db},
		Papers:      &paperRepository{db: db},
		Assignments: &assignmentRepository{db: db},
		Reviews:     &reviewRepository{db: db},
		Jobs:        &jobRepository{db: db},
	}
	s.TxFunc = func(ctx context.Context, fn func(tx *repository.Store) error) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(NewStore(tx))
		})
	}
	s.PingFunc = func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return s
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrDuplicate
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}
