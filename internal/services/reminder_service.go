package services

import (
	"context"
	"fmt"
	"time"

	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/mailer"
	"github.com/confreview/backend/internal/repository"
)

const deadlineLayout = "January 2, 2006"

// ReminderService sends the daily mail: pending-review reminders to
// reviewers and accepted-paper reports to the coordinator. A failure on one
// reviewer or event is logged and counted, and the run moves on.
type ReminderService struct {
	store            *repository.Store
	stats            *StatsService
	sender           mailer.Sender
	coordinatorEmail string
	now              func() time.Time
}

func NewReminderService(store *repository.Store, stats *StatsService, sender mailer.Sender, coordinatorEmail string) *ReminderService {
	return &ReminderService{
		store:            store,
		stats:            stats,
		sender:           sender,
		coordinatorEmail: coordinatorEmail,
		now:              time.Now,
	}
}

type ReminderSummary struct {
	Events int `json:"events"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type ReportSummary struct {
	Events int `json:"events"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// SendReviewerReminders mails every reviewer with unreviewed assignments in
// an event whose review deadline has not passed.
func (s *ReminderService) SendReviewerReminders(ctx context.Context, now time.Time) (ReminderSummary, error) {
	var summary ReminderSummary

	events, err := s.store.Events.ListDeadlineFrom(ctx, now)
	if err != nil {
		return summary, err
	}

	for _, event := range events {
		summary.Events++
		log := logger.WithEvent(event.ID, "reminder_service")

		workloads, err := s.stats.Workloads(ctx, event.ID)
		if err != nil {
			log.WithError(err).Error("Failed to load reviewer workloads")
			summary.Failed++
			continue
		}

		deadline := "unknown"
		if event.ReviewDeadline != nil {
			deadline = event.ReviewDeadline.Format(deadlineLayout)
		}

		for _, w := range workloads {
			if w.PendingCount == 0 {
				continue
			}
			html, err := mailer.RenderReminder(mailer.ReminderData{
				ReviewerName: w.ReviewerName,
				PendingCount: w.PendingCount,
				EventTitle:   event.Title,
				Deadline:     deadline,
			})
			if err == nil {
				err = s.sender.Send(ctx, mailer.Message{
					To:      []string{w.ReviewerEmail},
					Subject: fmt.Sprintf(REVIEWER_REMINDER_SUBJECT, event.Title),
					HTML:    html,
				})
			}
			if err != nil {
				log.WithError(err).WithField("reviewer_id", w.ReviewerID).Error("Failed to send reviewer reminder")
				summary.Failed++
				continue
			}
			summary.Sent++
		}
	}

	logger.Info("Reviewer reminders processed", map[string]interface{}{
		"component": "reminder_service",
		"events":    summary.Events,
		"sent":      summary.Sent,
		"failed":    summary.Failed,
	})
	return summary, nil
}

// SendAcceptedReports mails the coordinator one workbook per event that has
// at least one selected paper.
func (s *ReminderService) SendAcceptedReports(ctx context.Context) (ReportSummary, error) {
	var summary ReportSummary

	events, err := s.store.Events.List(ctx)
	if err != nil {
		return summary, err
	}

	for _, event := range events {
		log := logger.WithEvent(event.ID, "reminder_service")

		rows, err := s.stats.AcceptedReportRows(ctx, event.ID)
		if err != nil {
			log.WithError(err).Error("Failed to build accepted rows")
			summary.Failed++
			continue
		}
		if len(rows) == 0 {
			continue
		}
		summary.Events++

		err = s.sendReport(ctx, event.Title, rows)
		if err != nil {
			log.WithError(err).Error("Failed to send accepted report")
			summary.Failed++
			continue
		}
		summary.Sent++
	}

	logger.Info("Accepted reports processed", map[string]interface{}{
		"component": "reminder_service",
		"events":    summary.Events,
		"sent":      summary.Sent,
		"failed":    summary.Failed,
	})
	return summary, nil
}

func (s *ReminderService) sendReport(ctx context.Context, title string, rows []AcceptedRow) error {
	workbook, err := EncodeAcceptedWorkbook(rows)
	if err != nil {
		return err
	}
	html, err := mailer.RenderAcceptedReport(mailer.AcceptedReportData{EventTitle: title})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, mailer.Message{
		To:      []string{s.coordinatorEmail},
		Subject: fmt.Sprintf(ACCEPTED_REPORT_SUBJECT, title),
		HTML:    html,
		Attachments: []mailer.Attachment{{
			Filename:    AcceptedFilename(title),
			ContentType: mailer.XLSXContentType,
			Content:     workbook,
		}},
	})
}

// RunDaily sends reminders, then reports. Errors are logged, never returned.
func (s *ReminderService) RunDaily(ctx context.Context) {
	logger.Info("Running daily mail jobs", map[string]interface{}{"component": "reminder_service"})
	if _, err := s.SendReviewerReminders(ctx, s.now()); err != nil {
		logger.WithError(err, "reminder_service").Error("Reviewer reminders failed")
	}
	if _, err := s.SendAcceptedReports(ctx); err != nil {
		logger.WithError(err, "reminder_service").Error("Accepted reports failed")
	}
	logger.Info("Daily mail jobs completed", map[string]interface{}{"component": "reminder_service"})
}
