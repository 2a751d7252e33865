package notification

import (
	"context"
	"encoding/json"
	"time"

	"ekyc/internal/domain"
	"ekyc/pkg/errors"

	"github.com/segmentio/kafka-go"
)

// Event is the message handed to the mail and SMS senders.
type Event struct {
	NotificationID string                     `json:"notification_id"`
	UserID         string                     `json:"user_id"`
	Channel        domain.NotificationChannel `json:"channel"`
	Title          string                     `json:"title"`
	Message        string                     `json:"message"`
	CreatedAt      time.Time                  `json:"created_at"`
}

// KafkaPublisher writes notification events to a topic keyed by user id.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher returns nil when no brokers are configured; a nil
// publisher skips EMAIL/SMS delivery.
func NewKafkaPublisher(brokers []string, topic string, writeTimeout time.Duration) *KafkaPublisher {
	if len(brokers) == 0 {
		return nil
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			WriteTimeout:           writeTimeout,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, n *domain.Notification) error {
	if p == nil || p.writer == nil {
		return nil
	}
	value, err := json.Marshal(Event{
		NotificationID: n.ID.String(),
		UserID:         n.UserID.String(),
		Channel:        n.Channel,
		Title:          n.Title,
		Message:        n.Message,
		CreatedAt:      n.CreatedAt,
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode notification event")
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.UserID.String()),
		Value: value,
		Time:  n.CreatedAt,
	})
	return errors.Wrap(err, "failed to publish notification event")
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
