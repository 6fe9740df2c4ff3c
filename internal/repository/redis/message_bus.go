package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
)

// MessageBus relays conversation messages over Redis Pub/Sub. Delivery is
// at-most-once and strictly live; subscribers joining late do not see history.
type MessageBus struct {
	client     *redis.Client
	channelFmt string
	logger     *zap.Logger
}

// NewMessageBus constructs a MessageBus.
func NewMessageBus(client *redis.Client, logger *zap.Logger) *MessageBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageBus{
		client:     client,
		channelFmt: "fleet:conversation:%s",
		logger:     logger,
	}
}

// Subscribe opens a feed for the conversation. The returned cancel function
// closes the subscription and, once the relay goroutine drains, the channel.
func (b *MessageBus) Subscribe(ctx context.Context, conversationID string) (<-chan domain.Message, func(), error) {
	if conversationID == "" {
		return nil, nil, fmt.Errorf("conversation id is required")
	}

	sub := b.client.Subscribe(ctx, b.channel(conversationID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis subscribe: %w", err)
	}

	feed := make(chan domain.Message)
	go func() {
		defer close(feed)
		for delivery := range sub.Channel() {
			var message domain.Message
			if err := json.Unmarshal([]byte(delivery.Payload), &message); err != nil {
				b.logger.Warn("dropping undecodable conversation message",
					zap.String("channel", delivery.Channel),
					zap.Error(err),
				)
				continue
			}
			select {
			case feed <- message:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		if err := sub.Close(); err != nil {
			b.logger.Warn("failed to close conversation subscription", zap.Error(err))
		}
	}
	return feed, cancel, nil
}

// Publish broadcasts a message to the conversation channel.
func (b *MessageBus) Publish(ctx context.Context, message domain.Message) error {
	if message.ConversationID == "" {
		return fmt.Errorf("conversation id is required")
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode conversation message: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel(message.ConversationID), payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (b *MessageBus) channel(conversationID string) string {
	return fmt.Sprintf(b.channelFmt, conversationID)
}

var _ port.MessageBus = (*MessageBus)(nil)
