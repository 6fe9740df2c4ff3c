package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestPublisher(t *testing.T, asyncProducer *fakeAsyncProducer) *EventPublisher {
	t.Helper()

	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "fleet",
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}

	return NewEventPublisher(producer, config.AppSettings{
		Name: "fleet-console",
		Env:  "test",
	}, zaptest.NewLogger(t))
}

func TestPublishAttributionCreated(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	phoneID := "phone-1"
	assignedAt := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	event := domain.AttributionCreatedEvent{
		EventID:        "event-123",
		AttributionID:  "attr-456",
		UserID:         "user-789",
		PhoneID:        &phoneID,
		AssignedBy:     "admin-1",
		AssignmentDate: assignedAt,
		Replacement:    true,
	}

	if err := publisher.PublishAttributionCreated(context.Background(), event); err != nil {
		t.Fatalf("PublishAttributionCreated returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "fleet.attribution.created" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		if got := envelope["event_id"]; got != event.EventID {
			t.Fatalf("unexpected event_id: %v", got)
		}
		if got := envelope["event_type"]; got != "fleet.attribution.created" {
			t.Fatalf("unexpected event_type: %v", got)
		}
		if got := envelope["user_id"]; got != event.UserID {
			t.Fatalf("unexpected user_id: %v", got)
		}
		if got := envelope["version"]; got != schemaVersion {
			t.Fatalf("unexpected version: %v", got)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not an object: %T", envelope["payload"])
		}
		if got := payload["attribution_id"]; got != event.AttributionID {
			t.Fatalf("unexpected attribution_id: %v", got)
		}
		if got := payload["phone_id"]; got != phoneID {
			t.Fatalf("unexpected phone_id: %v", got)
		}
		if got := payload["replacement"]; got != true {
			t.Fatalf("unexpected replacement flag: %v", got)
		}

		metadata, ok := envelope["metadata"].(map[string]any)
		if !ok {
			t.Fatalf("metadata not an object: %T", envelope["metadata"])
		}
		if got := metadata["service"]; got != "fleet-console" {
			t.Fatalf("unexpected service metadata: %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no message produced")
	}
}

func TestPublishSimAssignedDefaultsIdentifiers(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	event := domain.SimAssignedEvent{
		SimCardID:  "sim-1",
		UserID:     "user-1",
		AssignedBy: "admin-1",
	}

	if err := publisher.PublishSimAssigned(context.Background(), event); err != nil {
		t.Fatalf("PublishSimAssigned returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "fleet.sim.assigned" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		eventID, ok := envelope["event_id"].(string)
		if !ok || eventID == "" {
			t.Fatalf("expected generated event_id, got %v", envelope["event_id"])
		}
		timestamp, ok := envelope["timestamp"].(string)
		if !ok || timestamp == "" {
			t.Fatalf("expected generated timestamp, got %v", envelope["timestamp"])
		}
	case <-time.After(time.Second):
		t.Fatal("no message produced")
	}
}
