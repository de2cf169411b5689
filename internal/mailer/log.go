package mailer

import (
	"context"
	"strings"

	"github.com/confreview/backend/internal/logger"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (LogSender) Send(_ context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	names := make([]string, len(msg.Attachments))
	for i, a := range msg.Attachments {
		names[i] = a.Filename
	}
	logger.Info("Mail sent", map[string]interface{}{
		"component":   "mailer",
		"to":          strings.Join(msg.To, ","),
		"subject":     msg.Subject,
		"attachments": names,
	})
	return nil
}
