package services

import (
	"testing"
	"time"

	"github.com/confreview/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadlineDaysLeft(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline *time.Time
		want     *int
	}{
		{"no deadline", nil, nil},
		{"exactly one day", ptrTime(now.Add(24 * time.Hour)), intPtr(1)},
		{"part of a day rounds up", ptrTime(now.Add(time.Hour)), intPtr(1)},
		{"just over two days", ptrTime(now.Add(48*time.Hour + time.Minute)), intPtr(3)},
		{"now", ptrTime(now), intPtr(0)},
		{"passed", ptrTime(now.Add(-36 * time.Hour)), intPtr(-1)},
	}

	for _, test := range tests {
		got := DeadlineDaysLeft(test.deadline, now)
		if test.want == nil {
			if got != nil {
				t.Errorf("%s: expected nil, got %d", test.name, *got)
			}
			continue
		}
		if got == nil || *got != *test.want {
			t.Errorf("%s: expected %d, got %v", test.name, *test.want, got)
		}
	}
}

func intPtr(n int) *int {
	return &n
}

func TestPendingCountNeverNegative(t *testing.T) {
	tests := []struct{ total, reviewed, want int }{
		{3, 1, 2},
		{2, 2, 0},
		{1, 4, 0},
		{0, 0, 0},
	}
	for _, test := range tests {
		if got := pendingCount(test.total, test.reviewed); got != test.want {
			t.Errorf("pendingCount(%d, %d) = %d, want %d", test.total, test.reviewed, got, test.want)
		}
	}
}

func TestEventStats(t *testing.T) {
	f := newFixture(t)
	assignments, reviews, stats := f.services()

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	r1 := f.user(t, "Rhea", "rhea@example.com", "", "reviewer")
	r2 := f.user(t, "Omar", "omar@example.com", "", "reviewer")
	event := f.event(t, "ICSE", nil)
	p1 := f.paper(t, event.ID, author.ID, "p1", "AI")
	p2 := f.paper(t, event.ID, author.ID, "p2", "AI")
	p3 := f.paper(t, event.ID, author.ID, "p3", "Systems")

	_, err := assignments.AssignReviewer(f.ctx, event.ID, r1.ID, 1, []uint{p1.ID, p2.ID})
	require.NoError(t, err)
	_, err = assignments.AssignReviewer(f.ctx, event.ID, r2.ID, 1, []uint{p1.ID})
	require.NoError(t, err)
	_, err = reviews.SubmitReview(f.ctx, event.ID, p1.ID, r1.ID, "good", nil)
	require.NoError(t, err)
	_, err = reviews.Decide(f.ctx, event.ID, p1.ID, r1.ID, []string{"reviewer"}, "selected")
	require.NoError(t, err)
	_, err = reviews.Decide(f.ctx, event.ID, p3.ID, 1, []string{"coordinator"}, "rejected")
	require.NoError(t, err)

	got, err := stats.EventStats(f.ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, EventStats{
		TotalPapers:       3,
		Selected:          1,
		Rejected:          1,
		Pending:           1,
		TotalAssignments:  3,
		DistinctReviewers: 2,
		TotalReviews:      1,
		Tracks:            map[string]int64{"AI": 2, "Systems": 1},
	}, got)

	require.NoError(t, f.store.Papers.UpdateResultStatus(f.ctx, p2.ID, models.ResultStatusResultOut))
	got, err = stats.EventStats(f.ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.TotalPapers)
	assert.Equal(t, int64(0), got.Pending, "resultOut is not awaiting a decision")

	_, err = stats.EventStats(f.ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPendingReviewersReportOrdersByName(t *testing.T) {
	f := newFixture(t)
	assignments, reviews, stats := f.services()

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	zed := f.user(t, "Zed", "zed@example.com", "", "reviewer")
	amy := f.user(t, "Amy", "amy@example.com", "", "reviewer")
	event := f.event(t, "ICSE", nil)
	p1 := f.paper(t, event.ID, author.ID, "p1", "AI")
	p2 := f.paper(t, event.ID, author.ID, "p2", "AI")

	_, err := assignments.AssignReviewer(f.ctx, event.ID, zed.ID, 1, []uint{p1.ID, p2.ID})
	require.NoError(t, err)
	_, err = assignments.AssignReviewer(f.ctx, event.ID, amy.ID, 1, []uint{p2.ID})
	require.NoError(t, err)
	_, err = reviews.SubmitReview(f.ctx, event.ID, p2.ID, zed.ID, "done", nil)
	require.NoError(t, err)

	report, err := stats.PendingReviewersReport(f.ctx, event.ID, f.clock.Now())
	require.NoError(t, err)
	assert.Nil(t, report.Event.DeadlineDaysLeft)
	assert.Equal(t, "ICSE", report.Event.Title)
	require.Len(t, report.Items, 2)

	assert.Equal(t, ReviewerWorkload{
		ReviewerID: amy.ID, ReviewerName: "Amy", ReviewerEmail: "amy@example.com",
		TotalAssigned: 1, ReviewedCount: 0, PendingCount: 1,
	}, report.Items[0])
	assert.Equal(t, ReviewerWorkload{
		ReviewerID: zed.ID, ReviewerName: "Zed", ReviewerEmail: "zed@example.com",
		TotalAssigned: 2, ReviewedCount: 1, PendingCount: 1,
	}, report.Items[1])
	assert.Equal(t, PendingReportSummary{TotalReviewers: 2, TotalAssigned: 3, TotalReviewed: 1, TotalPending: 2}, report.Summary)

	_, err = stats.PendingReviewersReport(f.ctx, 999, f.clock.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptedReportRows(t *testing.T) {
	f := newFixture(t)
	assignments, reviews, stats := f.services()

	author := f.user(t, "Ada", "ada@example.com", "555-0101", "author")
	quiet := f.user(t, "Quinn", "quinn@example.com", "", "author")
	early := f.user(t, "Early", "early@example.com", "", "reviewer")
	late := f.user(t, "Late", "late@example.com", "", "reviewer")
	event := f.event(t, "ICSE", nil)
	both := f.paper(t, event.ID, author.ID, "both", "AI")
	override := f.paper(t, event.ID, quiet.ID, "override", "Systems")
	f.paper(t, event.ID, author.ID, "pending", "AI")

	for _, r := range []uint{early.ID, late.ID} {
		_, err := assignments.AssignReviewer(f.ctx, event.ID, r, 1, []uint{both.ID})
		require.NoError(t, err)
	}

	_, err := reviews.Decide(f.ctx, event.ID, both.ID, early.ID, []string{"reviewer"}, "selected")
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = reviews.Decide(f.ctx, event.ID, both.ID, late.ID, []string{"reviewer"}, "selected")
	require.NoError(t, err)
	_, err = reviews.Decide(f.ctx, event.ID, override.ID, 1, []string{"coordinator"}, "selected")
	require.NoError(t, err)

	rows, err := stats.AcceptedReportRows(f.ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, []AcceptedRow{
		{ReviewerName: "Late", Track: "AI", AuthorEmail: "ada@example.com", ContactNumber: "555-0101"},
		{ReviewerName: CoordinatorOverride, Track: "Systems", AuthorEmail: "quinn@example.com", ContactNumber: ""},
	}, rows)

	for _, row := range rows {
		assert.Len(t, row.Values(), len(AcceptedColumns))
	}

	empty, err := stats.AcceptedReportRows(f.ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
