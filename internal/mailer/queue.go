package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confreview/backend/internal/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueSender publishes messages to a durable RabbitMQ queue for a
// QueueConsumer to deliver.
type QueueSender struct {
	url   string
	queue string
}

func NewQueueSender(url, queue string) *QueueSender {
	return &QueueSender{url: url, queue: queue}
}

func (s *QueueSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail message: %w", err)
	}

	conn, err := amqp.Dial(s.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel open failed: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declareQueue(ch, s.queue); err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func declareQueue(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return nil
}

// QueueConsumer drains the mail queue and hands each message to a delivery
// sender. Failed deliveries are rejected without requeue.
type QueueConsumer struct {
	url        string
	queue      string
	delivery   Sender
	maxBackoff time.Duration
}

func NewQueueConsumer(url, queue string, delivery Sender) *QueueConsumer {
	return &QueueConsumer{url: url, queue: queue, delivery: delivery, maxBackoff: 30 * time.Second}
}

// Run consumes until ctx is cancelled, reconnecting with exponential backoff
// whenever the broker connection drops.
func (c *QueueConsumer) Run(ctx context.Context) error {
	log := logger.WithContext(map[string]interface{}{"component": "mail_consumer", "queue": c.queue})
	backoff := time.Second

	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			log.WithError(err).Warnf("Failed to dial broker; retrying in %s", backoff)
			if !wait(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < c.maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("Consume loop ended; reconnecting")
		if !wait(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *QueueConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	if err := declareQueue(ch, c.queue); err != nil {
		return err
	}
	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(ctx, d.Body); err != nil {
				logger.WithError(err, "mail_consumer").Error("Mail delivery failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one queued message and delivers it.
func (c *QueueConsumer) Handle(ctx context.Context, body []byte) error {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return c.delivery.Send(ctx, msg)
}

func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
