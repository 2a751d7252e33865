package postgres

import (
	"context"
	"database/sql"
	"time"

	"ekyc/internal/domain"
	"ekyc/pkg/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (
			id, user_id, title, message, channel, is_read, is_sent, created_at, read_at, sent_at
		) VALUES (
			:id, :user_id, :title, :message, :channel, :is_read, :is_sent, :created_at, :read_at, :sent_at
		)
	`
	_, err := r.db.NamedExecContext(ctx, query, n)
	return errors.Wrap(err, "failed to create notification")
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_sent = TRUE, sent_at = $1 WHERE id = $2`, at, id)
	return errors.Wrap(err, "failed to mark notification sent")
}

func (r *NotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	n := &domain.Notification{}
	err := r.db.GetContext(ctx, n, `SELECT * FROM notifications WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrNotificationNotFound
		}
		return nil, errors.Wrap(err, "failed to find notification")
	}
	return n, nil
}

// FindByUserID lists a user's notifications, newest first.
func (r *NotificationRepository) FindByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error) {
	var list []*domain.Notification
	query := `
		SELECT * FROM notifications
		WHERE user_id = $1 AND (NOT $2::boolean OR is_read = FALSE)
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &list, query, userID, unreadOnly); err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}
	return list, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE id = $2 AND is_read = FALSE`, at, id)
	return errors.Wrap(err, "failed to mark notification read")
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE user_id = $2 AND is_read = FALSE`, at, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to mark notifications read")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count unread notifications")
	}
	return count, nil
}
