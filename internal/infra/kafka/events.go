package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
	"github.com/telvana/fleet-console/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAttributionCreated publishes fleet.attribution.created events.
func (p *EventPublisher) PublishAttributionCreated(ctx context.Context, event domain.AttributionCreatedEvent) error {
	payload := struct {
		AttributionID  string         `json:"attribution_id"`
		UserID         string         `json:"user_id"`
		PhoneID        *string        `json:"phone_id,omitempty"`
		SimCardID      *string        `json:"sim_card_id,omitempty"`
		AssignedBy     string         `json:"assigned_by"`
		AssignmentDate time.Time      `json:"assignment_date"`
		Replacement    bool           `json:"replacement"`
		Metadata       map[string]any `json:"metadata,omitempty"`
	}{
		AttributionID:  event.AttributionID,
		UserID:         event.UserID,
		PhoneID:        event.PhoneID,
		SimCardID:      event.SimCardID,
		AssignedBy:     event.AssignedBy,
		AssignmentDate: event.AssignmentDate.UTC(),
		Replacement:    event.Replacement,
		Metadata:       event.Metadata,
	}

	return p.publish(ctx, event.EventID, "fleet.attribution.created", event.UserID, event.AssignmentDate, payload)
}

// PublishAttributionReturned publishes fleet.attribution.returned events.
func (p *EventPublisher) PublishAttributionReturned(ctx context.Context, event domain.AttributionReturnedEvent) error {
	payload := struct {
		AttributionID string         `json:"attribution_id"`
		UserID        string         `json:"user_id"`
		ReturnedBy    string         `json:"returned_by"`
		ReturnedAt    time.Time      `json:"returned_at"`
		Metadata      map[string]any `json:"metadata,omitempty"`
	}{
		AttributionID: event.AttributionID,
		UserID:        event.UserID,
		ReturnedBy:    event.ReturnedBy,
		ReturnedAt:    event.ReturnedAt.UTC(),
		Metadata:      event.Metadata,
	}

	return p.publish(ctx, event.EventID, "fleet.attribution.returned", event.UserID, event.ReturnedAt, payload)
}

// PublishAttributionDeleted publishes fleet.attribution.deleted events.
func (p *EventPublisher) PublishAttributionDeleted(ctx context.Context, event domain.AttributionDeletedEvent) error {
	payload := struct {
		AttributionID string         `json:"attribution_id"`
		UserID        string         `json:"user_id,omitempty"`
		DeletedBy     string         `json:"deleted_by"`
		DeletedAt     time.Time      `json:"deleted_at"`
		Metadata      map[string]any `json:"metadata,omitempty"`
	}{
		AttributionID: event.AttributionID,
		UserID:        event.UserID,
		DeletedBy:     event.DeletedBy,
		DeletedAt:     event.DeletedAt.UTC(),
		Metadata:      event.Metadata,
	}

	return p.publish(ctx, event.EventID, "fleet.attribution.deleted", event.UserID, event.DeletedAt, payload)
}

// PublishSimAssigned publishes fleet.sim.assigned events.
func (p *EventPublisher) PublishSimAssigned(ctx context.Context, event domain.SimAssignedEvent) error {
	payload := struct {
		SimCardID  string         `json:"sim_card_id"`
		UserID     string         `json:"user_id"`
		AssignedBy string         `json:"assigned_by"`
		AssignedAt time.Time      `json:"assigned_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		SimCardID:  event.SimCardID,
		UserID:     event.UserID,
		AssignedBy: event.AssignedBy,
		AssignedAt: event.AssignedAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "fleet.sim.assigned", event.UserID, event.AssignedAt, payload)
}

// PublishSimUnassigned publishes fleet.sim.unassigned events.
func (p *EventPublisher) PublishSimUnassigned(ctx context.Context, event domain.SimUnassignedEvent) error {
	payload := struct {
		SimCardID    string         `json:"sim_card_id"`
		UserID       string         `json:"user_id,omitempty"`
		UnassignedBy string         `json:"unassigned_by"`
		UnassignedAt time.Time      `json:"unassigned_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		SimCardID:    event.SimCardID,
		UserID:       event.UserID,
		UnassignedBy: event.UnassignedBy,
		UnassignedAt: event.UnassignedAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "fleet.sim.unassigned", event.UserID, event.UnassignedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
