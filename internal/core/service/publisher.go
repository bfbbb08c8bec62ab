package service

import (
	"context"

	"github.com/taskflow/taskflow-api/internal/core/domain"
)

// NopPublisher drops notifications. Used when no realtime channel is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Notification) error {
	return nil
}
