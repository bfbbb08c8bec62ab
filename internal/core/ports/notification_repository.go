package ports

import (
	"context"

	"github.com/taskflow/taskflow-api/internal/core/domain"
)

// NotificationRepository persists notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	// MarkRead returns domain.ErrNotificationNotFound unless id belongs to userID.
	MarkRead(ctx context.Context, userID, id string) error
}

// NotificationPublisher pushes an already-persisted notification to live clients.
type NotificationPublisher interface {
	Publish(ctx context.Context, n domain.Notification) error
}
