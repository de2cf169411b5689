package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/confreview/backend/internal/config"
	"github.com/confreview/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	mu       sync.Mutex
	calls    int
	failures int
	insights []string
}

func (e *fakeExtractor) Extract(context.Context, string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.calls <= e.failures {
		return nil, errors.New("model unavailable")
	}
	return e.insights, nil
}

func (e *fakeExtractor) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// newIdleJobService builds a service with no running workers so tests drive
// jobs synchronously.
func newIdleJobService(f *fixture, extractor InsightExtractor, queueSize, attempts int) *JobService {
	return &JobService{
		store:       f.store,
		extractor:   extractor,
		jobQueue:    make(chan JobRequest, queueSize),
		maxAttempts: attempts,
		stopChan:    make(chan struct{}),
	}
}

func TestProcessInsightJobSuccess(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "Ada", "ada@example.com", "", "author")
	event := f.event(t, "ICSE", nil)
	paper := f.paper(t, event.ID, author.ID, "p1", "AI")

	extractor := &fakeExtractor{failures: 1, insights: []string{"uses graphs", "beats baseline"}}
	js := newIdleJobService(f, extractor, 1, 2)

	job, err := js.EnqueueInsight(f.ctx, paper.ID, paper.FileURL)
	require.NoError(t, err)
	js.ProcessInsightJob(<-js.jobQueue)

	stored, err := f.store.Papers.GetByID(f.ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaperStatusReviewed, stored.Status)
	assert.Equal(t, []string{"uses graphs", "beats baseline"}, []string(stored.Insights))

	done, err := js.GetJob(f.ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, done.Status)
	assert.Equal(t, 2, done.Attempts)
	assert.Equal(t, 2, extractor.Calls())
}

func TestProcessInsightJobRollsBack(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "Ada", "ada@example.com", "", "author")
	event := f.event(t, "ICSE", nil)
	paper := f.paper(t, event.ID, author.ID, "p1", "AI")

	extractor := &fakeExtractor{failures: 10}
	js := newIdleJobService(f, extractor, 1, 3)

	job, err := js.EnqueueInsight(f.ctx, paper.ID, paper.FileURL)
	require.NoError(t, err)
	js.ProcessInsightJob(<-js.jobQueue)

	stored, err := f.store.Papers.GetByID(f.ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaperStatusSubmitted, stored.Status)
	assert.Empty(t, stored.Insights)

	failed, err := js.GetJob(f.ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, failed.Status)
	assert.Equal(t, 3, failed.Attempts)
	assert.Contains(t, failed.Error, "model unavailable")
}

func TestEnqueueInsightQueueFull(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "Ada", "ada@example.com", "", "author")
	event := f.event(t, "ICSE", nil)
	paper := f.paper(t, event.ID, author.ID, "p1", "AI")

	js := newIdleJobService(f, &fakeExtractor{}, 1, 1)

	_, err := js.EnqueueInsight(f.ctx, paper.ID, paper.FileURL)
	require.NoError(t, err)

	dropped, err := js.EnqueueInsight(f.ctx, paper.ID, paper.FileURL)
	assert.ErrorIs(t, err, ErrQueueFull)

	job, err := js.GetJob(f.ctx, dropped.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, job.Status)

	stored, err := f.store.Papers.GetByID(f.ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaperStatusSubmitted, stored.Status)

	jobs, err := js.JobsForPaper(f.ctx, paper.ID)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestJobServiceWorkers(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "Ada", "ada@example.com", "", "author")
	event := f.event(t, "ICSE", nil)
	paper := f.paper(t, event.ID, author.ID, "p1", "AI")

	js := NewJobService(f.store, &fakeExtractor{insights: []string{"one"}}, config.JobsConfig{Workers: 2, QueueSize: 4, MaxAttempts: 1})
	defer js.Stop()

	job, err := js.EnqueueInsight(f.ctx, paper.ID, paper.FileURL)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		stored, err := js.GetJob(f.ctx, job.ID)
		return err == nil && stored.Status == models.JobStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	stored, err := f.store.Papers.GetByID(f.ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaperStatusReviewed, stored.Status)
}
