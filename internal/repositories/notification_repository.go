package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

const notificationColumns = `id, user_id, type, title, message, is_read, sender_id, redirect_url, created_at`

// NotificationRepository abstracts notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, n models.NewNotification) (models.Notification, error)
	ListForUser(ctx context.Context, userID int, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID int) (int, error)
	MarkRead(ctx context.Context, notificationID int, userID int) error
	MarkAllRead(ctx context.Context, userID int) (int64, error)
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create stores an unread notification.
func (r *NotificationRepo) Create(ctx context.Context, n models.NewNotification) (models.Notification, error) {
	var out models.Notification
	err := r.db.QueryRowxContext(ctx, `INSERT INTO notifications (user_id, type, title, message, sender_id, redirect_url)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+notificationColumns,
		n.UserID, n.Type, n.Title, n.Message, n.SenderID, n.RedirectURL).StructScan(&out)
	return out, err
}

// ListForUser returns at most limit notifications, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID int, limit int) ([]models.Notification, error) {
	var out []models.Notification
	err := r.db.SelectContext(ctx, &out, `SELECT `+notificationColumns+` FROM notifications WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2`, userID, limit)
	return out, err
}

// UnreadCount counts the user's unread notifications.
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND is_read = FALSE`, userID)
	return count, err
}

// MarkRead marks one of the user's notifications read.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID int, userID int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id=$1 AND user_id=$2`, notificationID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id=$1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
