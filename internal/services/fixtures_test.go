package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
	inmemdb "github.com/confreview/backend/internal/repository/inmem"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	ctx   context.Context
	clock *testClock
	store *repository.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	return &fixture{
		ctx:   context.Background(),
		clock: clock,
		store: inmemdb.NewStore(inmemdb.New(inmemdb.WithClock(clock.Now))),
	}
}

func (f *fixture) user(t *testing.T, name, email, contact string, roleNames ...string) *models.User {
	t.Helper()
	u := &models.User{
		Name:          name,
		Email:         email,
		Password:      "hash",
		Roles:         roleNames,
		ContactNumber: contact,
	}
	require.NoError(t, f.store.Users.Create(f.ctx, u))
	return u
}

func (f *fixture) event(t *testing.T, title string, deadline *time.Time) *models.Event {
	t.Helper()
	e := &models.Event{
		Title:          title,
		Description:    title + " description",
		Date:           f.clock.Now().Add(30 * 24 * time.Hour),
		ReviewDeadline: deadline,
		CreatedBy:      1,
	}
	require.NoError(t, f.store.Events.Create(f.ctx, e))
	return e
}

func (f *fixture) paper(t *testing.T, eventID, authorID uint, title, track string) *models.Paper {
	t.Helper()
	p := &models.Paper{
		Title:        title,
		Track:        track,
		FileURL:      "uploads/" + title + ".txt",
		PublisherID:  authorID,
		EventID:      eventID,
		Status:       models.PaperStatusSubmitted,
		AdminStatus:  models.AdminStatusPending,
		ResultStatus: models.ResultStatusSubmitted,
	}
	require.NoError(t, f.store.Papers.Create(f.ctx, p))
	return p
}

func (f *fixture) services() (*AssignmentService, *ReviewService, *StatsService) {
	stats := NewStatsService(f.store)
	assignments := NewAssignmentService(f.store, stats)
	assignments.now = f.clock.Now
	return assignments, NewReviewService(f.store), stats
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
