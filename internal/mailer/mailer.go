// Package mailer delivers outbound notifications through a pluggable Sender.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/confreview/backend/internal/config"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

type Message struct {
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Sender delivers one message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

func (m Message) validate() error {
	if len(m.To) == 0 {
		return fmt.Errorf("message has no recipients")
	}
	for _, to := range m.To {
		if strings.TrimSpace(to) == "" {
			return fmt.Errorf("message has an empty recipient")
		}
	}
	return nil
}

// New returns the sender selected by cfg.Provider.
func New(cfg config.MailConfig) (Sender, error) {
	if cfg.Provider == "amqp" {
		return NewQueueSender(cfg.RabbitMQURL, cfg.Queue), nil
	}
	return newDirect(cfg.Provider, cfg)
}

// NewDelivery returns the sender the queue consumer hands messages to.
func NewDelivery(cfg config.MailConfig) (Sender, error) {
	if cfg.Delivery == "amqp" {
		return nil, fmt.Errorf("queue delivery cannot publish back to the queue")
	}
	return newDirect(cfg.Delivery, cfg)
}

func newDirect(provider string, cfg config.MailConfig) (Sender, error) {
	switch provider {
	case "", "log":
		return NewLogSender(), nil
	case "smtp":
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.From), nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is required for the sendgrid provider")
		}
		sender, err := NewSendGridSender(cfg.SendGridAPIKey, cfg.From)
		if err != nil {
			return nil, err
		}
		return sender, nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", provider)
	}
}
