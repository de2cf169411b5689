package services

import (
	"testing"
	"time"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReviewUpsertsSingleRow(t *testing.T) {
	f := newFixture(t)
	assignments, reviews, _ := f.services()

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	reviewer := f.user(t, "Rhea", "rhea@example.com", "", "reviewer")
	event := f.event(t, "ICSE", nil)
	paper := f.paper(t, event.ID, author.ID, "p1", "AI")
	_, err := assignments.AssignReviewer(f.ctx, event.ID, reviewer.ID, 1, []uint{paper.ID})
	require.NoError(t, err)

	first, err := reviews.SubmitReview(f.ctx, event.ID, paper.ID, reviewer.ID, "first pass", []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, models.DecisionPending, first.Decision)

	f.clock.Advance(time.Minute)
	second, err := reviews.SubmitReview(f.ctx, event.ID, paper.ID, reviewer.ID, "  second pass  ", nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "second pass", second.Comments)
	assert.Empty(t, second.Insights)

	list, err := reviews.ReviewsForPaper(f.ctx, paper.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second pass", list[0].Comments)
	require.NotNil(t, list[0].Reviewer)
	assert.Equal(t, "Rhea", list[0].Reviewer.Name)
}

func TestSubmitReviewRejections(t *testing.T) {
	f := newFixture(t)
	_, reviews, _ := f.services()

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	reviewer := f.user(t, "Rhea", "rhea@example.com", "", "reviewer")
	event := f.event(t, "ICSE", nil)
	other := f.event(t, "FSE", nil)
	paper := f.paper(t, event.ID, author.ID, "p1", "AI")

	_, err := reviews.SubmitReview(f.ctx, event.ID, paper.ID, reviewer.ID, "   ", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = reviews.SubmitReview(f.ctx, other.ID, paper.ID, reviewer.ID, "ok", nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Paper not found in this event")

	_, err = reviews.SubmitReview(f.ctx, event.ID, paper.ID, reviewer.ID, "ok", nil)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.EqualError(t, err, "Not assigned to this paper")

	_, err = f.store.Reviews.Get(f.ctx, paper.ID, reviewer.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDecideUnassignedReviewerForbidden(t *testing.T) {
	f := newFixture(t)
	_, reviews, _ := f.services()

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	reviewer := f.user(t, "Rhea", "rhea@example.com", "", "reviewer")
	event := f.event(t, "ICSE", nil)
	paper := f.paper(t, event.ID, author.ID, "p1", "AI")

	_, err := reviews.Decide(f.ctx, event.ID, paper.ID, reviewer.ID, []string{"reviewer"}, "selected")
	assert.ErrorIs(t, err, ErrForbidden)

	stored, err := f.store.Papers.GetByID(f.ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResultStatusSubmitted, stored.ResultStatus)

	_, err = f.store.Reviews.Get(f.ctx, paper.ID, reviewer.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDecideCoordinatorLeavesReviewsAlone(t *testing.T) {
	f := newFixture(t)
	assignments, reviews, _ := f.services()

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	reviewer := f.user(t, "Rhea", "rhea@example.com", "", "reviewer")
	coordinator := f.user(t, "Cora", "cora@example.com", "", "coordinator")
	event := f.event(t, "ICSE", nil)
	reviewed := f.paper(t, event.ID, author.ID, "p1", "AI")
	untouched := f.paper(t, event.ID, author.ID, "p2", "AI")

	_, err := assignments.AssignReviewer(f.ctx, event.ID, reviewer.ID, coordinator.ID, []uint{reviewed.ID})
	require.NoError(t, err)
	_, err = reviews.SubmitReview(f.ctx, event.ID, reviewed.ID, reviewer.ID, "fine", nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		paperID uint
		roles   []string
		result  string
	}{
		{"coordinator selects reviewed paper", reviewed.ID, []string{"coordinator"}, "selected"},
		{"legacy admin rejects unassigned paper", untouched.ID, []string{"admin"}, "rejected"},
	}

	for _, test := range tests {
		paper, err := reviews.Decide(f.ctx, event.ID, test.paperID, coordinator.ID, test.roles, test.result)
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.name, err)
			continue
		}
		assert.Equal(t, models.ResultStatus(test.result), paper.ResultStatus, test.name)
		assert.NotNil(t, paper.Publisher, test.name)
		assert.NotNil(t, paper.Event, test.name)
	}

	review, err := f.store.Reviews.Get(f.ctx, reviewed.ID, reviewer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionPending, review.Decision)
	assert.Equal(t, "fine", review.Comments)

	count, err := f.store.Reviews.CountForEvent(f.ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "coordinator decisions must not create reviews")
}

func TestDecideInvalidStatus(t *testing.T) {
	f := newFixture(t)
	_, reviews, _ := f.services()

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	event := f.event(t, "ICSE", nil)
	paper := f.paper(t, event.ID, author.ID, "p1", "AI")

	for _, status := range []string{"", "submitted", "resultOut", "SELECTED", "approved"} {
		_, err := reviews.Decide(f.ctx, event.ID, paper.ID, 1, []string{"coordinator"}, status)
		if err == nil || err.Error() != "Invalid resultStatus" {
			t.Errorf("Decide(%q): expected Invalid resultStatus, got %v", status, err)
		}
	}
}

func TestReviewerDecisionFlow(t *testing.T) {
	f := newFixture(t)
	assignments, reviews, stats := f.services()

	author := f.user(t, "Ada", "ada@example.com", "555-0101", "publisher")
	reviewer := f.user(t, "Rhea", "rhea@example.com", "", "reviewer")
	event := f.event(t, "ICSE", ptrTime(f.clock.Now().Add(24*time.Hour)))
	paper := f.paper(t, event.ID, author.ID, "p1", "AI")

	_, err := assignments.AssignReviewer(f.ctx, event.ID, reviewer.ID, 1, []uint{paper.ID})
	require.NoError(t, err)

	progress, err := stats.ReviewerProgress(f.ctx, event.ID, reviewer.ID)
	require.NoError(t, err)
	assert.Equal(t, Progress{TotalAssigned: 1, ReviewedCount: 0, PendingCount: 1}, progress)

	review, err := reviews.SubmitReview(f.ctx, event.ID, paper.ID, reviewer.ID, "ok", nil)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionPending, review.Decision)

	decided, err := reviews.Decide(f.ctx, event.ID, paper.ID, reviewer.ID, []string{"reviewer"}, "selected")
	require.NoError(t, err)
	assert.Equal(t, models.ResultStatusSelected, decided.ResultStatus)

	stored, err := f.store.Reviews.Get(f.ctx, paper.ID, reviewer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionSelected, stored.Decision)
	assert.Equal(t, "ok", stored.Comments, "decision must not overwrite comments")

	rows, err := stats.AcceptedReportRows(f.ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, []AcceptedRow{{
		ReviewerName:  "Rhea",
		Track:         "AI",
		AuthorEmail:   "ada@example.com",
		ContactNumber: "555-0101",
	}}, rows)

	report, err := stats.PendingReviewersReport(f.ctx, event.ID, f.clock.Now())
	require.NoError(t, err)
	require.NotNil(t, report.Event.DeadlineDaysLeft)
	assert.Equal(t, 1, *report.Event.DeadlineDaysLeft)
	assert.Equal(t, PendingReportSummary{TotalReviewers: 1, TotalAssigned: 1, TotalReviewed: 1, TotalPending: 0}, report.Summary)
}
