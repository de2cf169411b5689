// Package inmemdb keeps every table in process memory. It backs the test
// suites and the STORE_DRIVER=memory development mode.
package inmemdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
)

type DB struct {
	mutex sync.RWMutex
	now   func() time.Time
	seq   map[string]uint

	users       map[uint]*models.User
	events      map[uint]*models.Event
	papers      map[uint]*models.Paper
	assignments map[uint]*models.Assignment
	reviews     map[uint]*models.Review
	jobs        map[uint]*models.Job
}

type Option func(*DB)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

func New(opts ...Option) *DB {
	db := &DB{
		now:         time.Now,
		seq:         make(map[string]uint),
		users:       make(map[uint]*models.User),
		events:      make(map[uint]*models.Event),
		papers:      make(map[uint]*models.Paper),
		assignments: make(map[uint]*models.Assignment),
		reviews:     make(map[uint]*models.Review),
		jobs:        make(map[uint]*models.Job),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// NewStore wires the repositories to db. Transactions are not supported;
// Store.Transaction runs its callback directly.
func NewStore(db *DB) *repository.Store {
	return &repository.Store{
		Users:       &userRepository{db: db},
		Events:      &eventRepository{db: db},
		Papers:      &paperRepository{db: db},
		Assignments: &assignmentRepository{db: db},
		Reviews:     &reviewRepository{db: db},
		Jobs:        &jobRepository{db: db},
		PingFunc:    func(context.Context) error { return nil },
	}
}

// next must be called with the write lock held.
func (db *DB) next(table string) uint {
	db.seq[table]++
	return db.seq[table]
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// The helpers below must be called with at least the read lock held.

func (db *DB) userCopy(id uint) *models.User {
	if u, ok := db.users[id]; ok {
		c := *u
		c.Roles = append(c.Roles[:0:0], u.Roles...)
		return &c
	}
	return nil
}

func (db *DB) eventCopy(id uint) *models.Event {
	if e, ok := db.events[id]; ok {
		c := *e
		return &c
	}
	return nil
}

func (db *DB) paperCopy(id uint, withRelations bool) *models.Paper {
	p, ok := db.papers[id]
	if !ok {
		return nil
	}
	c := *p
	c.Insights = append(c.Insights[:0:0], p.Insights...)
	c.Publisher, c.Event = nil, nil
	if withRelations {
		c.Publisher = db.userCopy(p.PublisherID)
		c.Event = db.eventCopy(p.EventID)
	}
	return &c
}

func (db *DB) reviewCopy(r *models.Review, withReviewer bool) models.Review {
	c := *r
	c.Insights = append(c.Insights[:0:0], r.Insights...)
	c.Reviewer = nil
	if withReviewer {
		c.Reviewer = db.userCopy(r.ReviewerID)
	}
	return c
}

func sortPapersNewestFirst(papers []models.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		if papers[i].CreatedAt.Equal(papers[j].CreatedAt) {
			return papers[i].ID > papers[j].ID
		}
		return papers[i].CreatedAt.After(papers[j].CreatedAt)
	})
}
