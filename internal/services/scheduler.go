package services

import (
	"context"
	"fmt"

	"github.com/confreview/backend/internal/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler triggers the daily mail run on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
	spec string
}

func NewScheduler(spec string, reminders *ReminderService) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		reminders.RunDaily(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c, spec: spec}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Scheduler started", map[string]interface{}{"component": "scheduler", "spec": s.spec})
}

// Stop prevents new runs and returns a context that is done once a running
// job has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
