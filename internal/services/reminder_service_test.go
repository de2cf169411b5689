package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/confreview/backend/internal/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu     sync.Mutex
	sent   []mailer.Message
	failTo map[string]bool
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, to := range msg.To {
		if s.failTo[to] {
			return errors.New("mailbox unavailable")
		}
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestSendReviewerRemindersIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	assignments, reviews, stats := f.services()
	now := f.clock.Now()

	author := f.user(t, "Ada", "ada@example.com", "", "author")
	good := f.user(t, "Rhea", "rhea@example.com", "", "reviewer")
	bad := f.user(t, "Bounce", "bounce@example.com", "", "reviewer")
	done := f.user(t, "Done", "done@example.com", "", "reviewer")

	open := f.event(t, "ICSE", ptrTime(now.Add(48*time.Hour)))
	closed := f.event(t, "Closed", ptrTime(now.Add(-time.Hour)))
	f.event(t, "No deadline", nil)

	p1 := f.paper(t, open.ID, author.ID, "p1", "AI")
	p2 := f.paper(t, open.ID, author.ID, "p2", "AI")
	old := f.paper(t, closed.ID, author.ID, "old", "AI")

	for _, r := range []uint{good.ID, bad.ID, done.ID} {
		_, err := assignments.AssignReviewer(f.ctx, open.ID, r, 1, []uint{p1.ID})
		require.NoError(t, err)
	}
	_, err := assignments.AssignReviewer(f.ctx, open.ID, good.ID, 1, []uint{p2.ID})
	require.NoError(t, err)
	_, err = assignments.AssignReviewer(f.ctx, closed.ID, good.ID, 1, []uint{old.ID})
	require.NoError(t, err)
	_, err = reviews.SubmitReview(f.ctx, open.ID, p1.ID, done.ID, "done", nil)
	require.NoError(t, err)

	sender := &recordingSender{failTo: map[string]bool{"bounce@example.com": true}}
	reminders := NewReminderService(f.store, stats, sender, "coord@example.com")

	summary, err := reminders.SendReviewerReminders(f.ctx, now)
	require.NoError(t, err)
	assert.Equal(t, ReminderSummary{Events: 1, Sent: 1, Failed: 1}, summary)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"rhea@example.com"}, msg.To)
	assert.Equal(t, "Pending Reviews Reminder — ICSE", msg.Subject)
	assert.Contains(t, msg.HTML, "<b>2</b>")
	assert.Contains(t, msg.HTML, "Dear Rhea")
}

func TestSendAcceptedReports(t *testing.T) {
	f := newFixture(t)
	_, reviews, stats := f.services()

	author := f.user(t, "Ada", "ada@example.com", "555", "author")
	withAccepted := f.event(t, "ICSE", nil)
	failing := f.event(t, "FSE", nil)
	f.event(t, "Empty", nil)

	p1 := f.paper(t, withAccepted.ID, author.ID, "p1", "AI")
	p2 := f.paper(t, failing.ID, author.ID, "p2", "AI")
	f.paper(t, withAccepted.ID, author.ID, "p3", "AI")
	for _, p := range []struct{ event, paper uint }{{withAccepted.ID, p1.ID}, {failing.ID, p2.ID}} {
		_, err := reviews.Decide(f.ctx, p.event, p.paper, 1, []string{"coordinator"}, "selected")
		require.NoError(t, err)
	}

	sender := &failingSubjectSender{recordingSender: &recordingSender{}, failSubject: "FSE"}
	reminders := NewReminderService(f.store, stats, sender, "coord@example.com")

	summary, err := reminders.SendAcceptedReports(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, ReportSummary{Events: 2, Sent: 1, Failed: 1}, summary)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"coord@example.com"}, msg.To)
	assert.Equal(t, "Accepted Papers Report — ICSE", msg.Subject)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "ICSE-accepted.xlsx", msg.Attachments[0].Filename)
	assert.Equal(t, mailer.XLSXContentType, msg.Attachments[0].ContentType)
	assert.NotEmpty(t, msg.Attachments[0].Content)
}

type failingSubjectSender struct {
	*recordingSender
	failSubject string
}

func (s *failingSubjectSender) Send(ctx context.Context, msg mailer.Message) error {
	if strings.HasSuffix(msg.Subject, s.failSubject) {
		return errors.New("smtp timeout")
	}
	return s.recordingSender.Send(ctx, msg)
}

func TestRunDaily(t *testing.T) {
	f := newFixture(t)
	_, _, stats := f.services()
	sender := &recordingSender{}
	reminders := NewReminderService(f.store, stats, sender, "coord@example.com")
	reminders.now = f.clock.Now

	reminders.RunDaily(f.ctx)
	assert.Empty(t, sender.sent)
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	f := newFixture(t)
	reminders := NewReminderService(f.store, NewStatsService(f.store), &recordingSender{}, "c@example.com")

	_, err := NewScheduler("not a cron", reminders)
	assert.Error(t, err)

	s, err := NewScheduler("0 9 * * *", reminders)
	require.NoError(t, err)
	s.Start()
	<-s.Stop().Done()
}
