package services

import (
	"context"
	"errors"
	"testing"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	enqueued []uint
	err      error
}

func (q *fakeQueue) EnqueueInsight(_ context.Context, paperID uint, _ string) (*models.Job, error) {
	q.enqueued = append(q.enqueued, paperID)
	return &models.Job{PaperID: paperID}, q.err
}

func TestCreateEventValidation(t *testing.T) {
	f := newFixture(t)
	events := NewEventService(f.store, nil)

	_, err := events.CreateEvent(f.ctx, CreateEventInput{Title: "ICSE", Description: "desc"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Missing title/description/date")

	event, err := events.CreateEvent(f.ctx, CreateEventInput{Title: " ICSE ", Description: "desc", Date: f.clock.Now(), CreatedBy: 4})
	require.NoError(t, err)
	assert.Equal(t, "ICSE", event.Title)

	list, err := events.ListEvents(f.ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubmitPaperQueuesInsights(t *testing.T) {
	f := newFixture(t)
	queue := &fakeQueue{err: errors.New("queue full")}
	events := NewEventService(f.store, queue)

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	event := f.event(t, "ICSE", nil)

	_, err := events.SubmitPaper(f.ctx, SubmitPaperInput{EventID: event.ID, AuthorID: author.ID, Title: "p", FileURL: "uploads/x.pdf"})
	assert.EqualError(t, err, "Missing title/track")

	_, err = events.SubmitPaper(f.ctx, SubmitPaperInput{EventID: 999, AuthorID: author.ID, Title: "p", Track: "AI", FileURL: "uploads/x.pdf"})
	assert.ErrorIs(t, err, ErrNotFound)

	paper, err := events.SubmitPaper(f.ctx, SubmitPaperInput{EventID: event.ID, AuthorID: author.ID, Title: "p", Track: "AI", FileURL: "uploads/x.pdf"})
	require.NoError(t, err, "a failed enqueue must not fail the submission")
	assert.Equal(t, []uint{paper.ID}, queue.enqueued)
	assert.Equal(t, models.PaperStatusSubmitted, paper.Status)
	assert.Equal(t, models.AdminStatusPending, paper.AdminStatus)
	assert.Equal(t, models.ResultStatusSubmitted, paper.ResultStatus)

	papers := NewPaperService(f.store)
	mine, err := papers.MyPapers(f.ctx, author.ID, &event.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Event)
	assert.Equal(t, "ICSE", mine[0].Event.Title)
}

func TestDeleteEventCascades(t *testing.T) {
	f := newFixture(t)
	assignments, reviews, _ := f.services()
	events := NewEventService(f.store, nil)

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	reviewer := f.user(t, "Rhea", "rhea@example.com", "", "reviewer")
	doomed := f.event(t, "ICSE", nil)
	kept := f.event(t, "FSE", nil)
	p1 := f.paper(t, doomed.ID, author.ID, "p1", "AI")
	p2 := f.paper(t, kept.ID, author.ID, "p2", "AI")

	for _, p := range []struct{ event, paper uint }{{doomed.ID, p1.ID}, {kept.ID, p2.ID}} {
		_, err := assignments.AssignReviewer(f.ctx, p.event, reviewer.ID, 1, []uint{p.paper})
		require.NoError(t, err)
		_, err = reviews.SubmitReview(f.ctx, p.event, p.paper, reviewer.ID, "ok", nil)
		require.NoError(t, err)
	}

	require.NoError(t, events.DeleteEvent(f.ctx, doomed.ID))
	assert.ErrorIs(t, events.DeleteEvent(f.ctx, doomed.ID), ErrNotFound)

	_, err := f.store.Papers.GetByID(f.ctx, p1.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.store.Reviews.Get(f.ctx, p1.ID, reviewer.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := assignments.AllAssignments(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID, all[0].EventID)

	_, err = f.store.Reviews.Get(f.ctx, p2.ID, reviewer.ID)
	assert.NoError(t, err)
}

func TestSetAdminStatusLeavesResultAlone(t *testing.T) {
	f := newFixture(t)
	papers := NewPaperService(f.store)

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	event := f.event(t, "ICSE", nil)
	paper := f.paper(t, event.ID, author.ID, "p1", "AI")

	_, err := papers.SetAdminStatus(f.ctx, paper.ID, "selected")
	assert.EqualError(t, err, "Invalid status")

	_, err = papers.SetAdminStatus(f.ctx, 999, "approved")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := papers.SetAdminStatus(f.ctx, paper.ID, "rejected")
	require.NoError(t, err)
	assert.Equal(t, models.AdminStatusRejected, updated.AdminStatus)
	assert.Equal(t, models.ResultStatusSubmitted, updated.ResultStatus)
	assert.Equal(t, models.PaperStatusSubmitted, updated.Status)

	byTrack, err := papers.ByTrack(f.ctx, "AI")
	require.NoError(t, err)
	assert.Len(t, byTrack, 1)
}
