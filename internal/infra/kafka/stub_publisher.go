package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAttributionCreated logs fleet.attribution.created events.
func (p *StubPublisher) PublishAttributionCreated(_ context.Context, event domain.AttributionCreatedEvent) error {
	payload := map[string]any{
		"attribution_id":  event.AttributionID,
		"user_id":         event.UserID,
		"phone_id":        event.PhoneID,
		"sim_card_id":     event.SimCardID,
		"assigned_by":     event.AssignedBy,
		"assignment_date": event.AssignmentDate,
		"replacement":     event.Replacement,
		"metadata":        event.Metadata,
	}
	p.logEvent("fleet.attribution.created", event.UserID, event.AssignmentDate, payload)
	return nil
}

// PublishAttributionReturned logs fleet.attribution.returned events.
func (p *StubPublisher) PublishAttributionReturned(_ context.Context, event domain.AttributionReturnedEvent) error {
	payload := map[string]any{
		"attribution_id": event.AttributionID,
		"user_id":        event.UserID,
		"returned_by":    event.ReturnedBy,
		"returned_at":    event.ReturnedAt,
		"metadata":       event.Metadata,
	}
	p.logEvent("fleet.attribution.returned", event.UserID, event.ReturnedAt, payload)
	return nil
}

// PublishAttributionDeleted logs fleet.attribution.deleted events.
func (p *StubPublisher) PublishAttributionDeleted(_ context.Context, event domain.AttributionDeletedEvent) error {
	payload := map[string]any{
		"attribution_id": event.AttributionID,
		"user_id":        event.UserID,
		"deleted_by":     event.DeletedBy,
		"deleted_at":     event.DeletedAt,
		"metadata":       event.Metadata,
	}
	p.logEvent("fleet.attribution.deleted", event.UserID, event.DeletedAt, payload)
	return nil
}

// PublishSimAssigned logs fleet.sim.assigned events.
func (p *StubPublisher) PublishSimAssigned(_ context.Context, event domain.SimAssignedEvent) error {
	payload := map[string]any{
		"sim_card_id": event.SimCardID,
		"user_id":     event.UserID,
		"assigned_by": event.AssignedBy,
		"assigned_at": event.AssignedAt,
		"metadata":    event.Metadata,
	}
	p.logEvent("fleet.sim.assigned", event.UserID, event.AssignedAt, payload)
	return nil
}

// PublishSimUnassigned logs fleet.sim.unassigned events.
func (p *StubPublisher) PublishSimUnassigned(_ context.Context, event domain.SimUnassignedEvent) error {
	payload := map[string]any{
		"sim_card_id":   event.SimCardID,
		"user_id":       event.UserID,
		"unassigned_by": event.UnassignedBy,
		"unassigned_at": event.UnassignedAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("fleet.sim.unassigned", event.UserID, event.UnassignedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
