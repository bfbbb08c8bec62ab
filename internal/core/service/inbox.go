package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

// Inbox reads and acknowledges the identity's own notifications.
type Inbox struct {
	identity domain.Identity
	repo     ports.NotificationRepository
	log      zerolog.Logger
}

func NewInbox(identity domain.Identity, repo ports.NotificationRepository, log zerolog.Logger) *Inbox {
	return &Inbox{identity: identity, repo: repo, log: log}
}

func (i *Inbox) List(ctx context.Context) ([]domain.Notification, error) {
	if !i.identity.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	rows, err := i.repo.ListByUser(ctx, i.identity.ID)
	if err != nil {
		i.log.Error().Err(err).Str("user_id", i.identity.ID).Msg("error fetching notifications")
		return nil, domain.Remote("fetch notifications", err)
	}
	out := make([]domain.Notification, 0, len(rows))
	for _, n := range rows {
		out = append(out, *n)
	}
	return out, nil
}

func (i *Inbox) MarkRead(ctx context.Context, id string) error {
	if !i.identity.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if err := i.repo.MarkRead(ctx, i.identity.ID, id); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			return err
		}
		return domain.Remote("mark notification read", err)
	}
	return nil
}
