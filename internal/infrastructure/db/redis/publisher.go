package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taskflow/taskflow-api/internal/core/domain"
)

// ChannelPrefix is prepended to the recipient's user id.
const ChannelPrefix = "notifications:"

// Publisher fans stored notifications out over Redis pub/sub, one channel
// per recipient.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(n.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Subscribe returns the pub/sub handle for userID's channel. Callers close it.
func (p *Publisher) Subscribe(ctx context.Context, userID string) *redis.PubSub {
	return p.client.Subscribe(ctx, Channel(userID))
}

// Channel names the pub/sub channel for userID.
func Channel(userID string) string {
	return ChannelPrefix + userID
}
