package services

import (
	"context"
	"log"
	"strings"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/observability"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/repositories"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/rooms"
)

// Notifier persists per-user notifications and pushes the ones paired with a
// live event.
type Notifier struct {
	repo  repositories.NotificationRepository
	bus   Broadcaster
	limit int
}

// NewNotifier constructs a Notifier. limit caps List.
func NewNotifier(repo repositories.NotificationRepository, bus Broadcaster, limit int) *Notifier {
	if limit <= 0 {
		limit = 50
	}
	return &Notifier{repo: repo, bus: bus, limit: limit}
}

// Create stores an unread notification. When push is set the owner's personal
// room receives new_notification; otherwise it is only visible on the next fetch.
func (n *Notifier) Create(ctx context.Context, in models.NewNotification, push bool) (models.Notification, error) {
	if in.UserID <= 0 {
		return models.Notification{}, ErrInvalidUser
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Message) == "" {
		return models.Notification{}, ErrMissingNotification
	}

	created, err := n.repo.Create(ctx, in)
	if err != nil {
		return models.Notification{}, err
	}

	if push && n.bus != nil {
		n.bus.EmitToRoom(rooms.User(created.UserID), models.EventNewNotification, created)
	}
	observability.IncNotification(string(created.Type))
	if err := observability.PublishEvent(ctx, "notifications.created", observability.EventEnvelope{
		EventType: "notifications",
		EventName: "notification_created",
		Payload:   created,
	}, nil); err != nil {
		log.Printf("notification event publish failed id=%d: %v", created.ID, err)
	}
	return created, nil
}

// notify is Create for side-effect paths: failures are logged and swallowed.
func (n *Notifier) notify(ctx context.Context, in models.NewNotification, push bool) {
	if n == nil {
		return
	}
	if _, err := n.Create(ctx, in, push); err != nil {
		log.Printf("notification failed user_id=%d type=%s: %v", in.UserID, in.Type, err)
	}
}

// Announce creates an admin announcement without a live push.
func (n *Notifier) Announce(ctx context.Context, actor models.Identity, userID int, title, message string) (models.Notification, error) {
	if !actor.IsAdmin() {
		return models.Notification{}, ErrAdminOnly
	}
	return n.Create(ctx, models.NewNotification{
		UserID:  userID,
		Type:    models.NotificationAdminAnnouncement,
		Title:   title,
		Message: message,
	}, false)
}

// List returns the newest notifications of the owner, capped at the configured limit.
func (n *Notifier) List(ctx context.Context, userID int) ([]models.Notification, error) {
	list, err := n.repo.ListForUser(ctx, userID, n.limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

// UnreadCount counts the owner's unread notifications.
func (n *Notifier) UnreadCount(ctx context.Context, userID int) (int, error) {
	return n.repo.UnreadCount(ctx, userID)
}

// MarkOne marks one of the owner's notifications read. Marking twice is a no-op.
func (n *Notifier) MarkOne(ctx context.Context, notificationID int, userID int) error {
	return n.repo.MarkRead(ctx, notificationID, userID)
}

// MarkAll marks every notification of the owner read and reports how many changed.
func (n *Notifier) MarkAll(ctx context.Context, userID int) (int64, error) {
	return n.repo.MarkAllRead(ctx, userID)
}
