package port

import (
	"context"

	"github.com/telvana/fleet-console/internal/core/domain"
)

// MessageBus is the thin publish/subscribe surface behind the messaging feed.
// Subscriptions deliver messages in arrival order with no redelivery or
// reconnection guarantees.
type MessageBus interface {
	Subscribe(ctx context.Context, conversationID string) (<-chan domain.Message, func(), error)
	Publish(ctx context.Context, message domain.Message) error
}
