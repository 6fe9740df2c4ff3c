package kafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/telvana/fleet-console/internal/infra/config"
)

// producerErrorBuffer bounds how many delivery failures are kept for
// external monitoring before new ones are dropped.
const producerErrorBuffer = 256

// Producer owns the async Kafka connection used for fleet lifecycle events.
// Delivery failures are drained off sarama's error channel in a background
// goroutine so a broker outage never blocks the request that emitted the
// event.
type Producer struct {
	producer sarama.AsyncProducer
	logger   *zap.Logger
	cfg      config.KafkaSettings
	errChan  chan error
	done     chan struct{}
}

// NewProducer connects an async producer to the configured brokers and
// starts the error drain.
func NewProducer(cfg config.KafkaSettings, logger *zap.Logger) (*Producer, error) {
	producer, err := sarama.NewAsyncProducer(cfg.Brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	p := &Producer{
		producer: producer,
		logger:   logger,
		cfg:      cfg,
		errChan:  make(chan error, producerErrorBuffer),
		done:     make(chan struct{}),
	}
	go p.drainErrors()

	logger.Info("kafka producer ready",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic_prefix", cfg.TopicPrefix),
	)

	return p, nil
}

func producerConfig() *sarama.Config {
	sc := sarama.NewConfig()
	sc.Version = sarama.V3_5_0_0

	// Fire-and-forget: events are best effort, only failures come back.
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Compression = sarama.CompressionSnappy
	sc.Producer.Flush.Frequency = 100 * time.Millisecond
	sc.Producer.Flush.Messages = 100
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = false
	sc.Producer.Return.Errors = true

	sc.Metadata.Retry.Max = 3
	sc.Metadata.Retry.Backoff = 250 * time.Millisecond

	return sc
}

func (p *Producer) drainErrors() {
	for {
		select {
		case perr := <-p.producer.Errors():
			if perr == nil {
				continue
			}
			p.logger.Error("kafka delivery failed",
				zap.String("topic", perr.Msg.Topic),
				zap.Error(perr.Err),
			)
			select {
			case p.errChan <- perr.Err:
			default:
				p.logger.Warn("kafka error buffer full, dropping error")
			}
		case <-p.done:
			return
		}
	}
}

// Producer exposes the underlying sarama producer for message submission.
func (p *Producer) Producer() sarama.AsyncProducer {
	return p.producer
}

// Errors returns the drained delivery failures for external monitoring.
func (p *Producer) Errors() <-chan error {
	return p.errChan
}

// Close stops the error drain and flushes pending messages.
func (p *Producer) Close() error {
	p.logger.Info("closing kafka producer")
	close(p.done)

	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}

	close(p.errChan)
	return nil
}

// TopicName qualifies an event type with the configured topic prefix,
// leaving already-qualified names alone.
func (p *Producer) TopicName(eventType string) string {
	if p.cfg.TopicPrefix == "" || strings.HasPrefix(eventType, p.cfg.TopicPrefix+".") {
		return eventType
	}
	return p.cfg.TopicPrefix + "." + eventType
}
