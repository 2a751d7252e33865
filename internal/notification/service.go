// Package notification persists user notifications and delivers them to
// in-app sessions and the mail/SMS pipeline.
package notification

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ekyc/internal/domain"
	"ekyc/pkg/errors"
	"ekyc/pkg/logger"

	"github.com/google/uuid"
)

// Repository stores notifications.
type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// Publisher hands EMAIL and SMS notifications to the external senders.
type Publisher interface {
	Publish(ctx context.Context, n *domain.Notification) error
}

// Service is the concrete notification service.
type Service struct {
	repo      Repository
	hub       *Hub
	publisher Publisher
	logger    logger.Logger
	now       func() time.Time
}

// NewService creates a notification service. hub and publisher may be nil.
func NewService(repo Repository, hub *Hub, publisher Publisher, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		hub:       hub,
		publisher: publisher,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Notify persists a notification, pushes it to the user's open sessions and,
// for EMAIL and SMS, publishes it for external delivery.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, title, body string, channel domain.NotificationChannel) error {
	if strings.TrimSpace(title) == "" {
		return errors.Validation("notification title is required")
	}
	switch channel {
	case domain.ChannelEmail, domain.ChannelSMS, domain.ChannelInApp:
	default:
		return errors.Validation("unknown notification channel %q", channel)
	}

	n := &domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Message:   body,
		Channel:   channel,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	pushed := s.push(n)

	var sent bool
	var publishErr error
	if channel == domain.ChannelInApp {
		sent = pushed > 0
	} else if s.publisher != nil {
		publishErr = s.publisher.Publish(ctx, n)
		sent = publishErr == nil
	}

	if sent {
		if err := s.repo.MarkSent(ctx, n.ID, s.now()); err != nil {
			s.logger.Warn("failed to mark notification sent", map[string]interface{}{
				"notification_id": n.ID,
				"error":           err,
			})
		}
	}

	s.logger.Info("notification created", map[string]interface{}{
		"notification_id": n.ID,
		"user_id":         userID,
		"channel":         channel,
		"sessions":        pushed,
		"sent":            sent,
	})
	return publishErr
}

func (s *Service) push(n *domain.Notification) int {
	if s.hub == nil {
		return 0
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":         "notification",
		"notification": n,
	})
	if err != nil {
		return 0
	}
	return s.hub.Broadcast(n.UserID, payload)
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error) {
	list, err := s.repo.FindByUserID(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*domain.Notification{}
	}
	return list, nil
}

// MarkRead marks one of the caller's notifications read.
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return errors.ErrNotNotificationOwner
	}
	if n.IsRead {
		return nil
	}
	return s.repo.MarkRead(ctx, id, s.now())
}

// MarkAllRead marks every unread notification of the caller read and returns
// how many changed.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, s.now())
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// Hub exposes the session hub for the streaming endpoint.
func (s *Service) Hub() *Hub {
	return s.hub
}
