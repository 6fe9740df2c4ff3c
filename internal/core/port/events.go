package port

import (
	"context"

	"github.com/telvana/fleet-console/internal/core/domain"
)

// EventPublisher publishes attribution lifecycle events to the message bus.
type EventPublisher interface {
	PublishAttributionCreated(ctx context.Context, event domain.AttributionCreatedEvent) error
	PublishAttributionReturned(ctx context.Context, event domain.AttributionReturnedEvent) error
	PublishAttributionDeleted(ctx context.Context, event domain.AttributionDeletedEvent) error
	PublishSimAssigned(ctx context.Context, event domain.SimAssignedEvent) error
	PublishSimUnassigned(ctx context.Context, event domain.SimUnassignedEvent) error
}
