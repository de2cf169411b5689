package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignReviewerSkipsDuplicates(t *testing.T) {
	f := newFixture(t)
	assignments, _, _ := f.services()

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	reviewer := f.user(t, "Rhea", "rhea@example.com", "", "reviewer")
	event := f.event(t, "ICSE", nil)
	p1 := f.paper(t, event.ID, author.ID, "p1", "AI")
	p2 := f.paper(t, event.ID, author.ID, "p2", "AI")

	result, err := assignments.AssignReviewer(f.ctx, event.ID, reviewer.ID, 1, []uint{p1.ID})
	require.NoError(t, err)
	assert.Equal(t, AssignResult{Created: 1, Skipped: 0}, result)

	result, err = assignments.AssignReviewer(f.ctx, event.ID, reviewer.ID, 1, []uint{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.Equal(t, AssignResult{Created: 1, Skipped: 1}, result)

	list, err := assignments.ListAssignments(f.ctx, event.ID, nil)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, p2.ID, list[0].PaperID, "newest assignment first")
	require.NotNil(t, list[0].Reviewer)
	assert.Equal(t, "Rhea", list[0].Reviewer.Name)
}

func TestAssignReviewerValidation(t *testing.T) {
	f := newFixture(t)
	assignments, _, _ := f.services()

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	reviewer := f.user(t, "Rhea", "rhea@example.com", "", "reviewer")
	event := f.event(t, "ICSE", nil)
	other := f.event(t, "FSE", nil)
	inEvent := f.paper(t, event.ID, author.ID, "p1", "AI")
	elsewhere := f.paper(t, other.ID, author.ID, "p2", "AI")

	tests := []struct {
		name       string
		eventID    uint
		reviewerID uint
		paperIDs   []uint
		kind       error
		message    string
	}{
		{"missing reviewer", event.ID, 0, []uint{inEvent.ID}, ErrValidation, "Missing reviewerId/paperIds"},
		{"no papers", event.ID, reviewer.ID, nil, ErrValidation, "Missing reviewerId/paperIds"},
		{"unknown event", 999, reviewer.ID, []uint{inEvent.ID}, ErrNotFound, "Event not found"},
		{"unknown reviewer", event.ID, 999, []uint{inEvent.ID}, ErrNotFound, "Reviewer not found"},
		{"foreign paper", event.ID, reviewer.ID, []uint{inEvent.ID, elsewhere.ID}, ErrValidation, "One or more papers do not belong to this event"},
		{"unknown paper", event.ID, reviewer.ID, []uint{999}, ErrValidation, "One or more papers do not belong to this event"},
	}

	for _, test := range tests {
		_, err := assignments.AssignReviewer(f.ctx, test.eventID, test.reviewerID, 1, test.paperIDs)
		if !errors.Is(err, test.kind) {
			t.Errorf("%s: expected %v, got %v", test.name, test.kind, err)
			continue
		}
		if err.Error() != test.message {
			t.Errorf("%s: expected message %q, got %q", test.name, test.message, err.Error())
		}
	}

	list, err := assignments.ListAssignments(f.ctx, event.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, list, "rejected batches must not create anything")
}

func TestAssignReviewerConcurrentSameTriple(t *testing.T) {
	f := newFixture(t)
	assignments, _, _ := f.services()

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	reviewer := f.user(t, "Rhea", "rhea@example.com", "", "reviewer")
	event := f.event(t, "ICSE", nil)
	paper := f.paper(t, event.ID, author.ID, "p1", "AI")

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		skipped int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := assignments.AssignReviewer(f.ctx, event.ID, reviewer.ID, 1, []uint{paper.ID})
			assert.NoError(t, err)
			mu.Lock()
			created += result.Created
			skipped += result.Skipped
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, callers-1, skipped)

	count, err := f.store.Assignments.CountByEvent(f.ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAssignedForReviewer(t *testing.T) {
	f := newFixture(t)
	assignments, reviews, _ := f.services()

	author := f.user(t, "Ada", "ada@example.com", "555", "author")
	reviewer := f.user(t, "Rhea", "rhea@example.com", "", "reviewer")
	other := f.user(t, "Omar", "omar@example.com", "", "reviewer")
	event := f.event(t, "ICSE", nil)
	p1 := f.paper(t, event.ID, author.ID, "p1", "AI")
	p2 := f.paper(t, event.ID, author.ID, "p2", "Systems")

	_, err := assignments.AssignReviewer(f.ctx, event.ID, reviewer.ID, 1, []uint{p1.ID, p2.ID})
	require.NoError(t, err)
	_, err = assignments.AssignReviewer(f.ctx, event.ID, other.ID, 1, []uint{p1.ID})
	require.NoError(t, err)

	_, err = reviews.SubmitReview(f.ctx, event.ID, p1.ID, reviewer.ID, "solid", nil)
	require.NoError(t, err)

	overview, err := assignments.AssignedForReviewer(f.ctx, event.ID, reviewer.ID)
	require.NoError(t, err)
	assert.Equal(t, Progress{TotalAssigned: 2, ReviewedCount: 1, PendingCount: 1}, overview.Summary)
	require.Len(t, overview.Items, 2)

	byPaper := map[uint]AssignedItem{}
	for _, item := range overview.Items {
		byPaper[item.PaperID] = item
	}
	assert.True(t, byPaper[p1.ID].Reviewed)
	assert.False(t, byPaper[p2.ID].Reviewed)
	assert.Equal(t, "Systems", byPaper[p2.ID].Track)
	require.NotNil(t, byPaper[p1.ID].Publisher)
	assert.Equal(t, "ada@example.com", byPaper[p1.ID].Publisher.Email)
	assert.NotNil(t, byPaper[p1.ID].Insights)

	otherOverview, err := assignments.AssignedForReviewer(f.ctx, event.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, Progress{TotalAssigned: 1, ReviewedCount: 0, PendingCount: 1}, otherOverview.Summary)
}
